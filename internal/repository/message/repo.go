package message

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/kailas-cloud/lostfound/internal/db"
	"github.com/kailas-cloud/lostfound/internal/domain"
	"github.com/kailas-cloud/lostfound/internal/domain/message"
)

// store is the consumer interface for contact messages (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetIf(ctx context.Context, key, field, expected string, fields map[string]string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores contact messages as hashes.
// Key pattern: {prefix}message:{id}.
type Repo struct {
	store  store
	prefix string
}

// New creates a contact message repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) key(id string) string { return r.prefix + "message:" + id }

// Create stores a new message.
func (r *Repo) Create(ctx context.Context, m *message.Message) error {
	key := r.key(m.ID)
	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if ok {
		return domain.ErrAlreadyExists
	}
	if err := r.store.HSet(ctx, key, toHash(m)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Get retrieves a message by id.
func (r *Repo) Get(ctx context.Context, id string) (message.Message, error) {
	h, err := r.store.HGetAll(ctx, r.key(id))
	if errors.Is(err, db.ErrKeyNotFound) || (err == nil && len(h) == 0) {
		return message.Message{}, domain.ErrMessageNotFound
	}
	if err != nil {
		return message.Message{}, fmt.Errorf("hgetall message %s: %w", id, err)
	}
	return fromHash(h)
}

// List returns every message, newest first.
func (r *Repo) List(ctx context.Context) ([]message.Message, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan messages: %w", err)
	}
	if len(keys) == 0 {
		return []message.Message{}, nil
	}
	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi messages: %w", err)
	}

	out := make([]message.Message, 0, len(rows))
	for i, h := range rows {
		if len(h) == 0 {
			continue
		}
		m, err := fromHash(h)
		if err != nil {
			return nil, fmt.Errorf("parse message %s: %w", keys[i], err)
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateStatus moves a message from one status to another; a message no
// longer in from is left untouched and ErrInvalidTransition returned.
func (r *Repo) UpdateStatus(ctx context.Context, id string, from, to message.Status) error {
	ok, err := r.store.HSetIf(ctx, r.key(id), "status", string(from), map[string]string{"status": string(to)})
	if errors.Is(err, db.ErrKeyNotFound) {
		return domain.ErrMessageNotFound
	}
	if err != nil {
		return fmt.Errorf("update message %s: %w", id, err)
	}
	if !ok {
		return domain.NewTransitionError(string(from), string(to))
	}
	return nil
}

func toHash(m *message.Message) map[string]string {
	return map[string]string{
		"id":         m.ID,
		"name":       m.Name,
		"email":      m.Email,
		"subject":    m.Subject,
		"message":    m.Body,
		"status":     string(m.Status),
		"created_at": strconv.FormatInt(m.CreatedAt.UnixMilli(), 10),
	}
}

func fromHash(h map[string]string) (message.Message, error) {
	ms, err := strconv.ParseInt(h["created_at"], 10, 64)
	if err != nil {
		return message.Message{}, fmt.Errorf("invalid created_at: %w", err)
	}
	return message.Message{
		ID:        h["id"],
		Name:      h["name"],
		Email:     h["email"],
		Subject:   h["subject"],
		Body:      h["message"],
		Status:    message.Status(h["status"]),
		CreatedAt: time.UnixMilli(ms).UTC(),
	}, nil
}
