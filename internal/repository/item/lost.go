package item

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/lostfound/internal/domain"
	domitem "github.com/kailas-cloud/lostfound/internal/domain/item"
)

// CreateLost stores a new lost report.
func (r *Repo) CreateLost(ctx context.Context, l *domitem.Lost) error {
	m, err := lostToHash(l)
	if err != nil {
		return err
	}
	return r.create(ctx, r.lostKey(l.ID), m, domain.ErrAlreadyExists)
}

// GetLost retrieves a lost report by id.
func (r *Repo) GetLost(ctx context.Context, id string) (domitem.Lost, error) {
	m, err := r.load(ctx, r.lostKey(id), domain.ErrItemNotFound)
	if err != nil {
		return domitem.Lost{}, err
	}
	return lostFromHash(m)
}

// ListLost returns every lost report, newest first.
func (r *Repo) ListLost(ctx context.Context) ([]domitem.Lost, error) {
	keys, rows, err := r.loadAll(ctx, r.lostKey("*"))
	if err != nil {
		return nil, err
	}

	out := make([]domitem.Lost, 0, len(rows))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		l, err := lostFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse lost report %s: %w", keys[i], err)
		}
		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateLostStatus sets the status of an existing lost report.
func (r *Repo) UpdateLostStatus(ctx context.Context, id string, status domitem.LostStatus) error {
	return r.update(ctx, r.lostKey(id), map[string]string{fieldStatus: string(status)}, domain.ErrItemNotFound)
}

// RecordFinder stores finder details and moves the report from one status to
// another in one atomic write. A report no longer in from is left untouched.
func (r *Repo) RecordFinder(ctx context.Context, id string, f *domitem.Finder, from, to domitem.LostStatus) error {
	fields := finderToHash(f)
	fields[fieldStatus] = string(to)
	return r.transition(ctx, r.lostKey(id), string(from), fields, domain.ErrItemNotFound)
}
