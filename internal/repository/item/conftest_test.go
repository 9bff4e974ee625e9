package item

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/lostfound/internal/db"
	domitem "github.com/kailas-cloud/lostfound/internal/domain/item"
)

const testPrefix = "lf:"

// mockStore implements the consumer interface for tests on top of an in-memory hash map.
type mockStore struct {
	data map[string]map[string]string

	hsetFn   func(ctx context.Context, key string, fields map[string]string) error
	existsFn func(ctx context.Context, key string) (bool, error)
	scanFn   func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
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

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
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

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{data: map[string]map[string]string{}}
	return New(ms, testPrefix), ms
}

func testLost(id string, createdAt time.Time) *domitem.Lost {
	return &domitem.Lost{
		ID:          id,
		Title:       "Black Wallet",
		Category:    "wallet",
		Location:    "Central Park",
		Date:        "2024-03-01",
		Description: "Leather, two cards inside",
		ContactInfo: "owner@example.com",
		Status:      domitem.LostPending,
		UserID:      "user-1",
		Attributes:  map[string]string{domitem.AttrItemBrand: "Gucci"},
		CreatedAt:   createdAt,
	}
}

func testFound(id string, createdAt time.Time) *domitem.Found {
	return &domitem.Found{
		ID:          id,
		Title:       "Black Wallet Found",
		Category:    "wallet",
		Location:    "Central Park",
		Date:        "2024-03-03",
		ContactInfo: "finder@example.com",
		Status:      domitem.FoundAvailable,
		CreatedAt:   createdAt,
	}
}
