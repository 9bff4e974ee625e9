package contact

import (
	"context"

	"github.com/kailas-cloud/lostfound/internal/domain/message"
)

// Repository defines the storage contract for contact messages.
type Repository interface {
	Create(ctx context.Context, m *message.Message) error
	Get(ctx context.Context, id string) (message.Message, error)
	List(ctx context.Context) ([]message.Message, error)
	UpdateStatus(ctx context.Context, id string, from, to message.Status) error
}
