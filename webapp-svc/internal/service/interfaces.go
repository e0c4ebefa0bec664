package service

import (
	"context"

	"beerchek/webapp-svc/internal/catalog"
	"beerchek/webapp-svc/internal/domain"
	"beerchek/webapp-svc/internal/ratingclient"
	"beerchek/webapp-svc/internal/storage"
)

type ViewServiceInterface interface {
	State(ctx context.Context, sessionID string) (domain.UiState, error)
	Open(ctx context.Context, sessionID string, user *domain.HostUser) (domain.UiState, error)
	Search(ctx context.Context, sessionID, query string) (domain.UiState, error)
	Rate(ctx context.Context, sessionID, beer string, value int) (domain.UiState, RateOutcome, error)
	SubmitPhoto(ctx context.Context, sessionID string, image []byte) (domain.UiState, error)
	BridgeAvailable(state domain.UiState) bool
	ShareQRCode(beer string) ([]byte, error)
	Records() []domain.BeerRecord
	CatalogSize() int
}

type Catalog interface {
	Search(query string) (domain.BeerRecord, bool)
	Lookup(name string) (domain.BeerRecord, bool)
	Records() []domain.BeerRecord
	Len() int
}

type RatingClient interface {
	Average(ctx context.Context, beer string) (domain.AverageRating, error)
	Submit(ctx context.Context, submission domain.RatingSubmission) error
}

type SessionStore interface {
	Load(ctx context.Context, id string) (domain.UiState, error)
	Save(ctx context.Context, id string, state domain.UiState) error
	Update(ctx context.Context, id string, fn func(domain.UiState) (domain.UiState, error)) (domain.UiState, error)
}

var (
	_ ViewServiceInterface = (*ViewService)(nil)
	_ Catalog              = (*catalog.Catalog)(nil)
	_ RatingClient         = (*ratingclient.Client)(nil)
	_ SessionStore         = (*storage.RedisSessionStore)(nil)
	_ SessionStore         = (*storage.MemorySessionStore)(nil)
)
