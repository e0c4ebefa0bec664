package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"beerchek/webapp-svc/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	envelopes []domain.BridgeEnvelope
	err       error
}

func (t *recordingTransport) Publish(ctx context.Context, envelope domain.BridgeEnvelope) error {
	if t.err != nil {
		return t.err
	}
	t.envelopes = append(t.envelopes, envelope)
	return nil
}

func TestFor_Unavailable(t *testing.T) {
	user := &domain.HostUser{ID: 42, FirstName: "Ivan"}

	tests := []struct {
		name      string
		transport Transport
		user      *domain.HostUser
	}{
		{name: "no_transport", transport: nil, user: user},
		{name: "outside_host", transport: &recordingTransport{}, user: nil},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			b := For(testCase.transport, testCase.user)
			assert.False(t, b.Available())
			assert.Nil(t, b.User())
			assert.NoError(t, b.Ready(context.Background()))
			assert.ErrorIs(t, b.SendData(context.Background(), []byte(`{}`)), ErrBridgeUnavailable)
			assert.ErrorIs(t, Send(context.Background(), b, domain.BridgeMessage{Action: domain.ActionRate}), ErrBridgeUnavailable)
		})
	}
}

func TestSend_Envelope(t *testing.T) {
	transport := &recordingTransport{}
	b := For(transport, &domain.HostUser{ID: 42, FirstName: "Ivan"})
	require.True(t, b.Available())
	assert.Equal(t, "Ivan", b.User().FirstName)

	err := Send(context.Background(), b, domain.BridgeMessage{Action: domain.ActionRate, Beer: "Guinness", Rating: 9})
	require.NoError(t, err)
	require.Len(t, transport.envelopes, 1)

	envelope := transport.envelopes[0]
	assert.Equal(t, int64(42), envelope.UserID)
	assert.JSONEq(t, `{"action":"rate","beer":"Guinness","rating":9}`, envelope.Data)
	assert.False(t, envelope.SentAt.IsZero())
}

func TestSend_TransportError(t *testing.T) {
	transport := &recordingTransport{err: errors.New("broker down")}
	b := For(transport, &domain.HostUser{ID: 1})

	err := Send(context.Background(), b, domain.BridgeMessage{Action: domain.ActionProcessPhoto, ImageBase64: "AAAA"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrBridgeUnavailable)
}

func TestMessengerTransport_Publish(t *testing.T) {
	var received domain.BridgeEnvelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webapp-data", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	transport := NewMessengerTransport(srv.URL+"/", time.Second, srv.Client())
	err := transport.Publish(context.Background(), domain.BridgeEnvelope{UserID: 7, Data: `{"action":"rate"}`})
	require.NoError(t, err)
	assert.Equal(t, int64(7), received.UserID)
	assert.Equal(t, `{"action":"rate"}`, received.Data)
}

func TestMessengerTransport_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bot offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	transport := NewMessengerTransport(srv.URL, 0, srv.Client())
	err := transport.Publish(context.Background(), domain.BridgeEnvelope{UserID: 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=503")
}

func signedInitData(t *testing.T, token string, authDate time.Time) string {
	t.Helper()
	values := url.Values{}
	values.Set("query_id", "AAHdF6IQAAAAAN0XohDhrOrc")
	values.Set("user", `{"id":279058397,"first_name":"Vladislav","username":"vdkfrost","language_code":"ru"}`)
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	values.Set("hash", SignInitData(values, token))
	return values.Encode()
}

func TestParseInitData(t *testing.T) {
	raw := signedInitData(t, "token", time.Unix(1662771648, 0))

	data, err := ParseInitData(raw)
	require.NoError(t, err)
	require.NotNil(t, data.User)
	assert.Equal(t, int64(279058397), data.User.ID)
	assert.Equal(t, "Vladislav", data.User.FirstName)
	assert.Equal(t, "ru", data.User.LanguageCode)
	assert.Equal(t, "AAHdF6IQAAAAAN0XohDhrOrc", data.QueryID)
	assert.Equal(t, int64(1662771648), data.AuthDate.Unix())

	_, err = ParseInitData("  ")
	assert.ErrorIs(t, err, ErrInitDataEmpty)

	_, err = ParseInitData("user=%7Bnot-json")
	assert.Error(t, err)
}

func TestValidateInitData(t *testing.T) {
	now := time.Unix(1700000000, 0)
	fresh := signedInitData(t, "123:secret", now.Add(-time.Hour))

	tests := []struct {
		name        string
		raw         string
		token       string
		maxAge      time.Duration
		expectedErr error
	}{
		{name: "valid", raw: fresh, token: "123:secret", maxAge: 24 * time.Hour},
		{name: "wrong_token", raw: fresh, token: "other", maxAge: 24 * time.Hour, expectedErr: ErrInitDataSignature},
		{name: "expired", raw: fresh, token: "123:secret", maxAge: time.Minute, expectedErr: ErrInitDataExpired},
		{name: "age_check_disabled", raw: fresh, token: "123:secret", maxAge: 0},
		{name: "tampered", raw: fresh + "&extra=1", token: "123:secret", expectedErr: ErrInitDataSignature},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			data, err := ValidateInitData(testCase.raw, testCase.token, testCase.maxAge, now)
			if testCase.expectedErr != nil {
				assert.ErrorIs(t, err, testCase.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Vladislav", data.User.FirstName)
		})
	}
}
