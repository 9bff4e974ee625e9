package message

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/lostfound/internal/db"
	"github.com/kailas-cloud/lostfound/internal/domain"
	"github.com/kailas-cloud/lostfound/internal/domain/message"
)

// mockStore implements the consumer interface on top of in-memory hashes.
type mockStore struct {
	data map[string]map[string]string

	scanErr error
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	h, ok := m.data[key]
	if !ok {
		h = map[string]string{}
		m.data[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *mockStore) HSetIf(_ context.Context, key, field, expected string, fields map[string]string) (bool, error) {
	h, ok := m.data[key]
	if !ok {
		return false, db.ErrKeyNotFound
	}
	if h[field] != expected {
		return false, nil
	}
	for k, v := range fields {
		h[k] = v
	}
	return true, nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	h, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return h, nil
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = m.data[k]
	}
	return out, nil
}

func (m *mockStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockStore) Scan(_ context.Context, pattern string) ([]string, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

var t0 = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestRepo() (*Repo, *mockStore) {
	ms := &mockStore{data: map[string]map[string]string{}}
	return New(ms, "lf:"), ms
}

func testMessage(id string, at time.Time) *message.Message {
	return &message.Message{
		ID: id, Name: "Ann", Email: "ann@example.com", Subject: "Lost keys",
		Body: "Any news?", Status: message.StatusUnread, CreatedAt: at,
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, testMessage("m1", t0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ms.data["lf:message:m1"]; !ok {
		t.Fatalf("unexpected keys: %v", ms.data)
	}
	got, err := repo.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Body != "Any news?" || got.Status != message.StatusUnread || !got.CreatedAt.Equal(t0) {
		t.Errorf("unexpected message: %+v", got)
	}

	if err := repo.Create(ctx, testMessage("m1", t0)); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo()
	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()
	_ = repo.Create(ctx, testMessage("old", t0))
	_ = repo.Create(ctx, testMessage("new", t0.Add(time.Hour)))

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "old" {
		t.Errorf("unexpected listing: %+v", got)
	}
}

func TestList_ScanError(t *testing.T) {
	repo, ms := newTestRepo()
	ms.scanErr = errors.New("down")
	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpdateStatus(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()
	_ = repo.Create(ctx, testMessage("m1", t0))

	if err := repo.UpdateStatus(ctx, "m1", message.StatusUnread, message.StatusRead); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.Get(ctx, "m1")
	if got.Status != message.StatusRead {
		t.Errorf("status = %s, want read", got.Status)
	}

	err := repo.UpdateStatus(ctx, "m1", message.StatusUnread, message.StatusRead)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	err = repo.UpdateStatus(ctx, "nope", message.StatusUnread, message.StatusRead)
	if !errors.Is(err, domain.ErrMessageNotFound) {
		t.Errorf("expected ErrMessageNotFound, got %v", err)
	}
}
