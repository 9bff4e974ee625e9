package report

import (
	"context"

	"github.com/kailas-cloud/lostfound/internal/domain/item"
)

// Repository defines the storage contract for lost and found reports.
type Repository interface {
	CreateLost(ctx context.Context, l *item.Lost) error
	GetLost(ctx context.Context, id string) (item.Lost, error)
	ListLost(ctx context.Context) ([]item.Lost, error)
	// RecordFinder and RecordClaimer write only while the report is still in
	// from; otherwise they fail with domain.ErrInvalidTransition.
	RecordFinder(ctx context.Context, id string, f *item.Finder, from, to item.LostStatus) error

	CreateFound(ctx context.Context, f *item.Found) error
	GetFound(ctx context.Context, id string) (item.Found, error)
	ListFound(ctx context.Context) ([]item.Found, error)
	RecordClaimer(ctx context.Context, id string, c *item.Claimer, from, to item.FoundStatus) error
}
