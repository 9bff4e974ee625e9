package connection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/kailas-cloud/lostfound/internal/db"
	"github.com/kailas-cloud/lostfound/internal/domain"
	"github.com/kailas-cloud/lostfound/internal/domain/match"
)

// store is the consumer interface for connections (ISP).
type store interface {
	HSetIf(ctx context.Context, key, field, expected string, fields map[string]string) (bool, error)
	HSetIndexed(ctx context.Context, key, indexKey string, fields map[string]string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
}

// Repo stores persisted connections.
// Key patterns: {prefix}connection:{id}, {prefix}connection-pair:{lostID}:{foundID}.
type Repo struct {
	store  store
	prefix string
}

// New creates a connection repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) key(id string) string { return r.prefix + "connection:" + id }

func (r *Repo) pairKey(lostID, foundID string) string {
	return r.prefix + "connection-pair:" + lostID + ":" + foundID
}

// Create persists a connection. The hash and its pair index are written
// together, so a lost/found pair is stored at most once.
func (r *Repo) Create(ctx context.Context, c *match.Candidate) error {
	ok, err := r.store.HSetIndexed(ctx, r.key(c.ID), r.pairKey(c.LostItemID, c.FoundItemID), toHash(c))
	if err != nil {
		return fmt.Errorf("create connection %s: %w", c.ID, err)
	}
	if !ok {
		return domain.ErrAlreadyExists
	}
	return nil
}

// Get retrieves a connection by id.
func (r *Repo) Get(ctx context.Context, id string) (match.Candidate, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if errors.Is(err, db.ErrKeyNotFound) || (err == nil && len(m) == 0) {
		return match.Candidate{}, domain.ErrConnectionNotFound
	}
	if err != nil {
		return match.Candidate{}, fmt.Errorf("hgetall connection %s: %w", id, err)
	}
	return fromHash(m)
}

// GetByPair retrieves the connection stored for a lost/found pair.
// An index entry whose connection is gone is released.
func (r *Repo) GetByPair(ctx context.Context, lostID, foundID string) (match.Candidate, error) {
	pk := r.pairKey(lostID, foundID)
	raw, err := r.store.Get(ctx, pk)
	if errors.Is(err, db.ErrKeyNotFound) {
		return match.Candidate{}, domain.ErrConnectionNotFound
	}
	if err != nil {
		return match.Candidate{}, fmt.Errorf("get pair %s/%s: %w", lostID, foundID, err)
	}

	m, err := r.store.HGetAll(ctx, string(raw))
	if errors.Is(err, db.ErrKeyNotFound) || (err == nil && len(m) == 0) {
		if delErr := r.store.Del(ctx, pk); delErr != nil {
			return match.Candidate{}, fmt.Errorf("release stale pair %s/%s: %w", lostID, foundID, delErr)
		}
		return match.Candidate{}, domain.ErrConnectionNotFound
	}
	if err != nil {
		return match.Candidate{}, fmt.Errorf("hgetall %s: %w", raw, err)
	}
	return fromHash(m)
}

// List returns every persisted connection, newest first.
func (r *Repo) List(ctx context.Context) ([]match.Candidate, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan connections: %w", err)
	}
	if len(keys) == 0 {
		return []match.Candidate{}, nil
	}

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi connections: %w", err)
	}

	out := make([]match.Candidate, 0, len(rows))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		c, err := fromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse connection %s: %w", keys[i], err)
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateStatus moves a connection from one status to another. The write is a
// compare-and-set on the stored status: if another writer got there first,
// nothing changes and ErrInvalidTransition is returned.
func (r *Repo) UpdateStatus(ctx context.Context, id string, from, to match.Status, at time.Time) error {
	fields := map[string]string{
		"status":     string(to),
		"updated_at": strconv.FormatInt(at.UnixMilli(), 10),
	}
	ok, err := r.store.HSetIf(ctx, r.key(id), "status", string(from), fields)
	if errors.Is(err, db.ErrKeyNotFound) {
		return domain.ErrConnectionNotFound
	}
	if err != nil {
		return fmt.Errorf("update connection %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("connection %s is no longer %s: %w", id, from, domain.ErrInvalidTransition)
	}
	return nil
}

func toHash(c *match.Candidate) map[string]string {
	m := map[string]string{
		"id":               c.ID,
		"lost_item_id":     c.LostItemID,
		"found_item_id":    c.FoundItemID,
		"match_percentage": strconv.Itoa(c.MatchPercentage),
		"status":           string(c.Status),
		"created_at":       strconv.FormatInt(c.CreatedAt.UnixMilli(), 10),
	}
	if !c.UpdatedAt.IsZero() {
		m["updated_at"] = strconv.FormatInt(c.UpdatedAt.UnixMilli(), 10)
	}
	return m
}

func fromHash(m map[string]string) (match.Candidate, error) {
	pct, err := strconv.Atoi(m["match_percentage"])
	if err != nil {
		return match.Candidate{}, fmt.Errorf("invalid match_percentage: %w", err)
	}
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return match.Candidate{}, fmt.Errorf("invalid created_at: %w", err)
	}

	c := match.Candidate{
		ID:              m["id"],
		LostItemID:      m["lost_item_id"],
		FoundItemID:     m["found_item_id"],
		MatchPercentage: pct,
		Status:          match.Status(m["status"]),
		CreatedAt:       time.UnixMilli(createdAt).UTC(),
	}
	if s := m["updated_at"]; s != "" {
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			c.UpdatedAt = time.UnixMilli(ms).UTC()
		}
	}
	return c, nil
}
