package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"beerchek/webapp-svc/internal/bridge"
	"beerchek/webapp-svc/internal/domain"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnknownBeer    = errors.New("beer is not in the catalog")
	ErrInvalidDataURI = errors.New("invalid base64 image")
	ErrPhotoNotSent   = errors.New("photo was not sent")
)

// RateOutcome reports what happened on each channel of a rating submission.
type RateOutcome struct {
	Bridged   bool  `json:"bridged"`
	Stored    bool  `json:"stored"`
	BridgeErr error `json:"-"`
	StoreErr  error `json:"-"`
}

type ViewService struct {
	catalog   Catalog
	ratings   RatingClient
	sessions  SessionStore
	transport bridge.Transport
	qr        QRGenerator
	validate  *validator.Validate
}

// NewViewService wires the view-controller. transport may be nil, in which
// case every session sees an unavailable bridge.
func NewViewService(catalog Catalog, ratings RatingClient, sessions SessionStore, transport bridge.Transport, qr QRGenerator) *ViewService {
	return &ViewService{
		catalog:   catalog,
		ratings:   ratings,
		sessions:  sessions,
		transport: transport,
		qr:        qr,
		validate:  validator.New(),
	}
}

func (s *ViewService) State(ctx context.Context, sessionID string) (domain.UiState, error) {
	return s.sessions.Load(ctx, sessionID)
}

// Open binds the host user to the session and signals readiness on its bridge.
func (s *ViewService) Open(ctx context.Context, sessionID string, user *domain.HostUser) (domain.UiState, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(st domain.UiState) (domain.UiState, error) {
		return ApplyUser(st, user), nil
	})
	if err != nil {
		return domain.UiState{}, err
	}
	if err := s.bridgeFor(state).Ready(ctx); err != nil {
		log.Printf("Warning: bridge ready failed for session %s: %v", sessionID, err)
	}
	return state, nil
}

func (s *ViewService) Search(ctx context.Context, sessionID, query string) (domain.UiState, error) {
	var req *FetchRequest
	state, err := s.sessions.Update(ctx, sessionID, func(st domain.UiState) (domain.UiState, error) {
		next, r := ApplySearch(st, s.catalog, query)
		req = r
		return next, nil
	})
	if err != nil {
		return domain.UiState{}, err
	}
	if req == nil {
		return state, nil
	}
	return s.resolveAverage(ctx, sessionID, *req)
}

// Rate sends the rating to the host bridge (when present) and to the rating
// service, then refreshes the displayed average. A failed write is reported
// in the outcome but does not stop the refresh.
func (s *ViewService) Rate(ctx context.Context, sessionID, beer string, value int) (domain.UiState, RateOutcome, error) {
	var outcome RateOutcome

	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return domain.UiState{}, outcome, err
	}
	submission, err := PrepareRating(state, beer, value, s.validate)
	if err != nil {
		return state, outcome, err
	}

	b := s.bridgeFor(state)
	if b.Available() {
		err := bridge.Send(ctx, b, domain.BridgeMessage{
			Action: domain.ActionRate,
			Beer:   submission.Beer,
			Rating: submission.Rating,
		})
		if err != nil {
			log.Printf("Warning: failed to send rating through bridge: %v", err)
			outcome.BridgeErr = err
		} else {
			outcome.Bridged = true
		}
	}

	if err := s.ratings.Submit(ctx, submission); err != nil {
		log.Printf("Warning: failed to store rating %d for %q: %v", submission.Rating, submission.Beer, err)
		outcome.StoreErr = err
	} else {
		outcome.Stored = true
	}

	var req *FetchRequest
	state, err = s.sessions.Update(ctx, sessionID, func(st domain.UiState) (domain.UiState, error) {
		if st.Result == nil || st.Result.Name != submission.Beer {
			// another search replaced the result while the rating was in flight
			req = nil
			return st, nil
		}
		next, r := ApplyRating(st, s.catalog, submission, outcome.Bridged)
		req = r
		return next, nil
	})
	if err != nil {
		return domain.UiState{}, outcome, err
	}
	if req == nil {
		return state, outcome, nil
	}
	state, err = s.resolveAverage(ctx, sessionID, *req)
	return state, outcome, err
}

// SubmitPhoto sends image, base64 encoded, to the host for processing. An
// empty image only clears the status message.
func (s *ViewService) SubmitPhoto(ctx context.Context, sessionID string, image []byte) (domain.UiState, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return domain.UiState{}, err
	}

	var message string
	var sendErr error
	if len(image) > 0 {
		b := s.bridgeFor(state)
		sendErr = bridge.Send(ctx, b, domain.BridgeMessage{
			Action:      domain.ActionProcessPhoto,
			ImageBase64: base64.StdEncoding.EncodeToString(image),
		})
		switch {
		case sendErr == nil:
			message = MsgPhotoSending
		case errors.Is(sendErr, bridge.ErrBridgeUnavailable):
			message = MsgBridgeUnavailable
		default:
			log.Printf("Warning: failed to send photo through bridge: %v", sendErr)
			message = MsgPhotoFailed
		}
	}

	state, err = s.sessions.Update(ctx, sessionID, func(st domain.UiState) (domain.UiState, error) {
		return ApplyMessage(st, message), nil
	})
	if err != nil {
		return domain.UiState{}, err
	}
	if sendErr != nil {
		return state, fmt.Errorf("%w: %w", ErrPhotoNotSent, sendErr)
	}
	return state, nil
}

func (s *ViewService) BridgeAvailable(state domain.UiState) bool {
	return s.bridgeFor(state).Available()
}

func (s *ViewService) ShareQRCode(beer string) ([]byte, error) {
	rec, ok := s.catalog.Lookup(beer)
	if !ok {
		return nil, ErrUnknownBeer
	}
	return s.qr.Generate(rec.Name)
}

func (s *ViewService) Records() []domain.BeerRecord {
	return s.catalog.Records()
}

func (s *ViewService) CatalogSize() int {
	return s.catalog.Len()
}

func (s *ViewService) resolveAverage(ctx context.Context, sessionID string, req FetchRequest) (domain.UiState, error) {
	avg, fetchErr := s.ratings.Average(ctx, req.Beer)
	if fetchErr != nil {
		log.Printf("Warning: failed to fetch rating for %q: %v", req.Beer, fetchErr)
	}
	return s.sessions.Update(ctx, sessionID, func(st domain.UiState) (domain.UiState, error) {
		return ApplyAverage(st, req, avg, fetchErr), nil
	})
}

func (s *ViewService) bridgeFor(state domain.UiState) bridge.Bridge {
	return bridge.For(s.transport, state.User)
}

// DecodeDataURI accepts either a bare base64 string or a data URI and
// returns the decoded bytes.
func DecodeDataURI(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "data:") {
		idx := strings.Index(value, ",")
		if idx < 0 {
			return nil, ErrInvalidDataURI
		}
		value = value[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return data, nil
}
