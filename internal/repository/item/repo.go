package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/lostfound/internal/db"
	"github.com/kailas-cloud/lostfound/internal/domain"
)

// store is the consumer interface for reports (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetIf(ctx context.Context, key, field, expected string, fields map[string]string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores lost and found reports as hashes.
// Key patterns: {prefix}lost:{id}, {prefix}found:{id}.
type Repo struct {
	store  store
	prefix string
}

// New creates a report repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) lostKey(id string) string  { return r.prefix + "lost:" + id }
func (r *Repo) foundKey(id string) string { return r.prefix + "found:" + id }

// create writes a fresh hash, refusing to overwrite an existing one.
func (r *Repo) create(ctx context.Context, key string, fields map[string]string, exists error) error {
	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if ok {
		return exists
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// load reads a hash, mapping an absent key to notFound.
func (r *Repo) load(ctx context.Context, key string, notFound error) (map[string]string, error) {
	m, err := r.store.HGetAll(ctx, key)
	if errors.Is(err, db.ErrKeyNotFound) || (err == nil && len(m) == 0) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return m, nil
}

// update sets fields on an existing hash only.
func (r *Repo) update(ctx context.Context, key string, fields map[string]string, notFound error) error {
	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !ok {
		return notFound
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// transition sets fields only while the stored status is still from.
func (r *Repo) transition(ctx context.Context, key, from string, fields map[string]string, notFound error) error {
	ok, err := r.store.HSetIf(ctx, key, fieldStatus, from, fields)
	if errors.Is(err, db.ErrKeyNotFound) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("%s is no longer %s: %w", key, from, domain.ErrInvalidTransition)
	}
	return nil
}

// loadAll scans a key pattern and fetches every hash in one round-trip.
func (r *Repo) loadAll(ctx context.Context, pattern string) ([]string, []map[string]string, error) {
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil, nil, nil
	}
	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, nil, fmt.Errorf("hgetall multi %s: %w", pattern, err)
	}
	return keys, rows, nil
}
