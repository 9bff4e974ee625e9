package connection

import (
	"context"
	"time"

	"github.com/kailas-cloud/lostfound/internal/domain/item"
	"github.com/kailas-cloud/lostfound/internal/domain/match"
)

// Repository defines the storage contract for persisted connections.
type Repository interface {
	Create(ctx context.Context, c *match.Candidate) error
	Get(ctx context.Context, id string) (match.Candidate, error)
	GetByPair(ctx context.Context, lostID, foundID string) (match.Candidate, error)
	List(ctx context.Context) ([]match.Candidate, error)
	// UpdateStatus writes to only while the stored status is still from;
	// otherwise it fails with domain.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, from, to match.Status, at time.Time) error
}

// ItemStore reads reports and applies the status cascade on acceptance.
type ItemStore interface {
	GetLost(ctx context.Context, id string) (item.Lost, error)
	GetFound(ctx context.Context, id string) (item.Found, error)
	ListLost(ctx context.Context) ([]item.Lost, error)
	ListFound(ctx context.Context) ([]item.Found, error)
	UpdateLostStatus(ctx context.Context, id string, status item.LostStatus) error
	UpdateFoundStatus(ctx context.Context, id string, status item.FoundStatus) error
}
