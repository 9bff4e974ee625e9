package ownership

import (
	"context"

	"github.com/kailas-cloud/lostfound/internal/domain/item"
)

// LostReader reads the lost report a claim is made against.
type LostReader interface {
	GetLost(ctx context.Context, id string) (item.Lost, error)
}
