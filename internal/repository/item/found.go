package item

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/lostfound/internal/domain"
	domitem "github.com/kailas-cloud/lostfound/internal/domain/item"
)

// CreateFound stores a new found report.
func (r *Repo) CreateFound(ctx context.Context, f *domitem.Found) error {
	return r.create(ctx, r.foundKey(f.ID), foundToHash(f), domain.ErrAlreadyExists)
}

// GetFound retrieves a found report by id.
func (r *Repo) GetFound(ctx context.Context, id string) (domitem.Found, error) {
	m, err := r.load(ctx, r.foundKey(id), domain.ErrItemNotFound)
	if err != nil {
		return domitem.Found{}, err
	}
	return foundFromHash(m)
}

// ListFound returns every found report, newest first.
func (r *Repo) ListFound(ctx context.Context) ([]domitem.Found, error) {
	keys, rows, err := r.loadAll(ctx, r.foundKey("*"))
	if err != nil {
		return nil, err
	}

	out := make([]domitem.Found, 0, len(rows))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		f, err := foundFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse found report %s: %w", keys[i], err)
		}
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateFoundStatus sets the status of an existing found report.
func (r *Repo) UpdateFoundStatus(ctx context.Context, id string, status domitem.FoundStatus) error {
	return r.update(ctx, r.foundKey(id), map[string]string{fieldStatus: string(status)}, domain.ErrItemNotFound)
}

// RecordClaimer stores claim details and moves the report from one status to
// another in one atomic write. A report no longer in from is left untouched.
func (r *Repo) RecordClaimer(ctx context.Context, id string, c *domitem.Claimer, from, to domitem.FoundStatus) error {
	fields := claimerToHash(c)
	fields[fieldStatus] = string(to)
	return r.transition(ctx, r.foundKey(id), string(from), fields, domain.ErrItemNotFound)
}
