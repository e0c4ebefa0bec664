package service

import (
	"errors"
	"fmt"
	"strings"

	"beerchek/webapp-svc/internal/domain"

	"github.com/go-playground/validator/v10"
)

const (
	MsgNotFound          = "Beer not found"
	MsgThanks            = "Thanks for your rating!"
	MsgPhotoSending      = "Sending photo for processing..."
	MsgPhotoFailed       = "Could not send the photo, please try again."
	MsgBridgeUnavailable = "Telegram Web App API not available."
)

var (
	ErrNoResult      = errors.New("no beer is displayed")
	ErrBeerMismatch  = errors.New("rated beer is not the displayed one")
	ErrInvalidRating = errors.New("rating must be an integer from 1 to 10")
)

// FetchRequest asks for the average of Beer. ID is the session's FetchSeq at
// the time it was issued; answers to older requests are dropped.
type FetchRequest struct {
	ID   uint64
	Beer string
}

// ApplySearch runs query against catalog. A blank query returns state as is.
// Any other query resets the selected rating and the average and supersedes
// in-flight fetches; a match also yields the fetch to issue.
func ApplySearch(state domain.UiState, catalog Catalog, query string) (domain.UiState, *FetchRequest) {
	if strings.TrimSpace(query) == "" {
		return state, nil
	}

	next := state
	next.Query = query
	next.SelectedRating = 0
	next.Average = domain.AverageRating{}
	next.FetchSeq = state.FetchSeq + 1

	rec, ok := catalog.Search(query)
	if !ok {
		next.Result = nil
		next.Message = MsgNotFound
		return next, nil
	}
	next.Result = &rec
	next.Message = ""
	return next, &FetchRequest{ID: next.FetchSeq, Beer: rec.Name}
}

// ApplyAverage stores the answer to req unless a later search superseded it.
// A failed fetch leaves the average null.
func ApplyAverage(state domain.UiState, req FetchRequest, avg domain.AverageRating, fetchErr error) domain.UiState {
	if req.ID != state.FetchSeq || state.Result == nil || state.Result.Name != req.Beer {
		return state
	}
	next := state
	if fetchErr != nil {
		next.Average = domain.AverageRating{}
	} else {
		next.Average = avg
	}
	return next
}

// PrepareRating checks that value may be submitted for beer in state. An
// empty beer means the displayed one.
func PrepareRating(state domain.UiState, beer string, value int, validate *validator.Validate) (domain.RatingSubmission, error) {
	if state.Result == nil {
		return domain.RatingSubmission{}, ErrNoResult
	}
	if beer != "" && beer != state.Result.Name {
		return domain.RatingSubmission{}, ErrBeerMismatch
	}

	submission := domain.RatingSubmission{Beer: state.Result.Name, Rating: value}
	if err := validate.Struct(submission); err != nil {
		return domain.RatingSubmission{}, fmt.Errorf("%w: %v", ErrInvalidRating, err)
	}
	return submission, nil
}

// ApplyRating re-runs the current search to refresh the average, keeping the
// submitted value selected and the thank-you message when the host got it.
func ApplyRating(state domain.UiState, catalog Catalog, submission domain.RatingSubmission, bridged bool) (domain.UiState, *FetchRequest) {
	query := state.Query
	if strings.TrimSpace(query) == "" {
		query = submission.Beer
	}

	next, req := ApplySearch(state, catalog, query)
	next.SelectedRating = submission.Rating
	if bridged {
		next.Message = MsgThanks
	}
	return next, req
}

func ApplyUser(state domain.UiState, user *domain.HostUser) domain.UiState {
	next := state
	next.User = user
	return next
}

func ApplyMessage(state domain.UiState, message string) domain.UiState {
	next := state
	next.Message = message
	return next
}
