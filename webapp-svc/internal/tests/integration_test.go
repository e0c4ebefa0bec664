package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	httpapi "beerchek/webapp-svc/internal/api/http"
	"beerchek/webapp-svc/internal/catalog"
	"beerchek/webapp-svc/internal/domain"
	"beerchek/webapp-svc/internal/ratingclient"
	"beerchek/webapp-svc/internal/service"
	"beerchek/webapp-svc/internal/session"
	"beerchek/webapp-svc/internal/storage"
	"beerchek/webapp-svc/internal/web"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRatingService keeps every submitted rating and answers with their mean.
type fakeRatingService struct {
	mu      sync.Mutex
	ratings map[string][]int
}

func (s *fakeRatingService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		beer := r.URL.Query().Get("beer")
		values := s.ratings[beer]
		if len(values) == 0 {
			w.Write([]byte(`{"avg_rating":null}`))
			return
		}
		sum := 0
		for _, v := range values {
			sum += v
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"beer": beer, "avg_rating": float64(sum) / float64(len(values))})
	case http.MethodPost:
		var sub domain.RatingSubmission
		json.NewDecoder(r.Body).Decode(&sub)
		s.ratings[sub.Beer] = append(s.ratings[sub.Beer], sub.Rating)
		w.WriteHeader(http.StatusCreated)
	}
}

type recordingWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) actions(t *testing.T) []domain.BridgeMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []domain.BridgeMessage
	for _, m := range w.messages {
		var envelope domain.BridgeEnvelope
		require.NoError(t, json.Unmarshal(m.Value, &envelope))
		var msg domain.BridgeMessage
		require.NoError(t, json.Unmarshal([]byte(envelope.Data), &msg))
		out = append(out, msg)
	}
	return out
}

type appClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (c *appClient) post(path, contentType, body string, out interface{}) int {
	c.t.Helper()
	resp, err := c.client.Post(c.base+path, contentType, strings.NewReader(body))
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// TestFullRatingFlow drives one host session from launch to photo upload.
func TestFullRatingFlow(t *testing.T) {
	ratingSvc := httptest.NewServer(&fakeRatingService{ratings: map[string][]int{"Guinness": {6}}})
	defer ratingSvc.Close()

	cat, err := catalog.Parse([]byte(`[
		{"name": "Guinness", "country": "Ireland", "abv": "4,2", "rating": 8.1},
		{"name": "Guinness Extra", "country": "Ireland", "abv": 5.6, "rating": ""}
	]`))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	writer := &recordingWriter{}
	views := service.NewViewService(
		cat,
		ratingclient.New(ratingclient.Config{BaseURL: ratingSvc.URL, Timeout: time.Second}, ratingSvc.Client()),
		storage.NewRedisSessionStore(rdb, time.Hour),
		storage.NewKafkaPublisher(writer),
		service.DefaultQRGenerator{BaseURL: "https://beer.example.com"},
	)
	page, err := web.LoadPage()
	require.NoError(t, err)
	handler := httpapi.NewHandler(views, session.NewManager("integration", time.Hour, false), page, httpapi.Options{})

	app := httptest.NewServer(httpapi.NewRouter(handler, []string{"*"}))
	defer app.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &appClient{t: t, base: app.URL, client: &http.Client{Jar: jar}}

	t.Run("OpenInsideHost", func(t *testing.T) {
		initData := url.Values{
			"user":      {`{"id":42,"first_name":"Ivan"}`},
			"auth_date": {"1700000000"},
		}.Encode()
		var view service.View
		code := c.post("/session", "application/x-www-form-urlencoded", url.Values{"init_data": {initData}}.Encode(), &view)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Hello, Ivan!", view.Greeting)
		assert.True(t, view.BridgeAvailable)
	})

	t.Run("SearchShowsServiceAverage", func(t *testing.T) {
		var view service.View
		require.Equal(t, http.StatusOK, c.post("/api/search", "application/json", `{"query":"guin"}`, &view))
		require.NotNil(t, view.State.Result)
		assert.Equal(t, "Guinness", view.State.Result.Name)
		assert.Equal(t, "6", view.Rating)
	})

	t.Run("SearchFallsBackToPlaceholder", func(t *testing.T) {
		var view service.View
		require.Equal(t, http.StatusOK, c.post("/api/search", "application/json", `{"query":"EXTRA"}`, &view))
		assert.Equal(t, "Guinness Extra", view.State.Result.Name)
		assert.Equal(t, "-", view.Rating)
	})

	t.Run("RateRefreshesAverage", func(t *testing.T) {
		var view service.View
		require.Equal(t, http.StatusOK, c.post("/api/search", "application/json", `{"query":"guin"}`, &view))

		var rated struct {
			service.View
			service.RateOutcome
		}
		require.Equal(t, http.StatusOK, c.post("/api/rate", "application/json", `{"beer":"Guinness","rating":9}`, &rated))
		assert.True(t, rated.Bridged)
		assert.True(t, rated.Stored)
		assert.Equal(t, "7.5", rated.Rating)
		assert.Equal(t, 9, rated.State.SelectedRating)
		assert.Equal(t, service.MsgThanks, rated.State.Message)

		assert.Equal(t, http.StatusConflict, c.post("/api/rate", "application/json", `{"beer":"Guinness Extra","rating":9}`, nil))
		assert.Equal(t, http.StatusBadRequest, c.post("/api/rate", "application/json", `{"beer":"Guinness","rating":0}`, nil))
	})

	t.Run("PhotoGoesThroughBridge", func(t *testing.T) {
		var view service.View
		require.Equal(t, http.StatusOK, c.post("/api/photo", "application/json", `{"data_uri":"data:image/jpeg;base64,/9j/4A=="}`, &view))
		assert.Equal(t, service.MsgPhotoSending, view.State.Message)
	})

	t.Run("BridgeReceivedActions", func(t *testing.T) {
		actions := writer.actions(t)
		require.Len(t, actions, 2)
		assert.Equal(t, domain.BridgeMessage{Action: domain.ActionRate, Beer: "Guinness", Rating: 9}, actions[0])
		assert.Equal(t, domain.ActionProcessPhoto, actions[1].Action)
		assert.Equal(t, "/9j/4A==", actions[1].ImageBase64)
	})

	t.Run("GuestHasNoBridge", func(t *testing.T) {
		guest := &appClient{t: t, base: app.URL, client: &http.Client{}}
		assert.Equal(t, http.StatusServiceUnavailable, guest.post("/api/photo", "application/json", `{"image_base64":"/9j/4A=="}`, nil))
	})
}
