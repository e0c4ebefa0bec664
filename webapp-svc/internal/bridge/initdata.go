package bridge

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"beerchek/webapp-svc/internal/domain"
)

var (
	ErrInitDataEmpty     = errors.New("init data is empty")
	ErrInitDataSignature = errors.New("init data signature mismatch")
	ErrInitDataExpired   = errors.New("init data expired")
)

// InitData is the host's launch parameters (Telegram.WebApp.initData).
type InitData struct {
	QueryID  string
	User     *domain.HostUser
	AuthDate time.Time
	Hash     string
}

func ParseInitData(raw string) (InitData, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return InitData{}, ErrInitDataEmpty
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return InitData{}, fmt.Errorf("failed to parse init data: %w", err)
	}

	data := InitData{
		QueryID: values.Get("query_id"),
		Hash:    values.Get("hash"),
	}
	if rawUser := values.Get("user"); rawUser != "" {
		var user domain.HostUser
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			return InitData{}, fmt.Errorf("failed to parse init data user: %w", err)
		}
		data.User = &user
	}
	if rawDate := values.Get("auth_date"); rawDate != "" {
		secs, err := strconv.ParseInt(rawDate, 10, 64)
		if err != nil {
			return InitData{}, fmt.Errorf("invalid auth_date %q: %w", rawDate, err)
		}
		data.AuthDate = time.Unix(secs, 0).UTC()
	}
	return data, nil
}

// ValidateInitData checks the host signature of raw against botToken and
// rejects data older than maxAge (zero disables the age check).
func ValidateInitData(raw, botToken string, maxAge time.Duration, now time.Time) (InitData, error) {
	data, err := ParseInitData(raw)
	if err != nil {
		return InitData{}, err
	}
	values, _ := url.ParseQuery(strings.TrimSpace(raw))

	expected := SignInitData(values, botToken)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(data.Hash))) {
		return InitData{}, ErrInitDataSignature
	}
	if maxAge > 0 && (data.AuthDate.IsZero() || now.Sub(data.AuthDate) > maxAge) {
		return InitData{}, ErrInitDataExpired
	}
	return data, nil
}

// SignInitData computes the hex hash the host attaches to init data: the
// sorted key=value lines (hash excluded) signed with HMAC-SHA256 keyed by
// HMAC-SHA256("WebAppData", botToken).
func SignInitData(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
