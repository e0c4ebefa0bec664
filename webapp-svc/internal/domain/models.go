package domain

import (
	"strconv"
	"time"
)

type BeerRecord struct {
	Name        string         `json:"name"`
	Brand       string         `json:"brand,omitempty"`
	Country     string         `json:"country,omitempty"`
	ABV         OptionalNumber `json:"abv"`
	Style       string         `json:"style,omitempty"`
	Volume      DisplayText    `json:"volume,omitempty"`
	Package     string         `json:"package,omitempty"`
	Filtration  string         `json:"filtration,omitempty"`
	Imported    string         `json:"imported,omitempty"`
	Flavored    string         `json:"flavored,omitempty"`
	Description string         `json:"description,omitempty"`
	Rating      OptionalNumber `json:"rating"`
}

// AverageRating is owned by the remote rating service. Valid is false while
// nothing has been fetched or the service has no ratings for the beer.
type AverageRating struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

func NewAverage(v float64) AverageRating {
	return AverageRating{Value: v, Valid: true}
}

func (a AverageRating) String() string {
	if !a.Valid {
		return ""
	}
	return formatNumber(a.Value)
}

type RatingSubmission struct {
	Beer   string `json:"beer" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=10"`
}

// HostUser is the subset of the chat host's user object the page displays.
type HostUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// UiState is replaced, never mutated in place: every event returns a new value.
type UiState struct {
	Query          string        `json:"query"`
	Result         *BeerRecord   `json:"result,omitempty"`
	SelectedRating int           `json:"selected_rating"`
	Average        AverageRating `json:"average"`
	Message        string        `json:"message,omitempty"`
	User           *HostUser     `json:"user,omitempty"`
	FetchSeq       uint64        `json:"fetch_seq"`
}

const (
	ActionRate         = "rate"
	ActionProcessPhoto = "process_photo"
)

type BridgeMessage struct {
	Action      string `json:"action"`
	Beer        string `json:"beer,omitempty"`
	Rating      int    `json:"rating,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

// BridgeEnvelope is what a transport carries to the host side.
type BridgeEnvelope struct {
	UserID int64     `json:"user_id"`
	Data   string    `json:"data"`
	SentAt time.Time `json:"sent_at"`
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
