package service

import (
	"beerchek/webapp-svc/internal/domain"
)

const placeholder = "-"

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// View is everything the page shows for one UiState.
type View struct {
	State           domain.UiState `json:"state"`
	Greeting        string         `json:"greeting"`
	Rating          string         `json:"display_rating"`
	Fields          []Field        `json:"fields,omitempty"`
	Scale           []int          `json:"-"`
	BridgeAvailable bool           `json:"bridge_available"`
}

func NewView(state domain.UiState, bridgeAvailable bool) View {
	view := View{
		State:           state,
		Greeting:        Greeting(state.User),
		Rating:          DisplayRating(state),
		BridgeAvailable: bridgeAvailable,
		Scale:           []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	}
	if state.Result != nil {
		view.Fields = RecordFields(*state.Result)
	}
	return view
}

func Greeting(user *domain.HostUser) string {
	if user == nil || user.FirstName == "" {
		return "Hello, guest!"
	}
	return "Hello, " + user.FirstName + "!"
}

// DisplayRating prefers the service average, then the catalog's static
// rating, then the placeholder. A zero static rating counts as missing; a zero
// average is a real answer from the service.
func DisplayRating(state domain.UiState) string {
	if state.Average.Valid {
		return state.Average.String()
	}
	if state.Result != nil {
		if text := state.Result.Rating.Text(); text != "" {
			return text
		}
	}
	return placeholder
}

func RecordFields(rec domain.BeerRecord) []Field {
	abv := placeholder
	if text := rec.ABV.Text(); text != "" {
		abv = text + "%"
	}
	volume := placeholder
	if rec.Volume != "" {
		volume = string(rec.Volume) + " ml"
	}
	return []Field{
		{Label: "Brand", Value: orPlaceholder(rec.Brand)},
		{Label: "Country", Value: orPlaceholder(rec.Country)},
		{Label: "ABV", Value: abv},
		{Label: "Style", Value: orPlaceholder(rec.Style)},
		{Label: "Volume", Value: volume},
		{Label: "Package", Value: orPlaceholder(rec.Package)},
		{Label: "Filtration", Value: orPlaceholder(rec.Filtration)},
		{Label: "Imported", Value: orPlaceholder(rec.Imported)},
		{Label: "Flavored", Value: orPlaceholder(rec.Flavored)},
		{Label: "Description", Value: orPlaceholder(rec.Description)},
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
