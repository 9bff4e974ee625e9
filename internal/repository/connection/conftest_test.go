package connection

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/lostfound/internal/db"
	"github.com/kailas-cloud/lostfound/internal/domain/match"
)

// mockStore implements the consumer interface for tests on top of in-memory maps.
type mockStore struct {
	hashes map[string]map[string]string
	kv     map[string][]byte

	createFn func(ctx context.Context, key, indexKey string, fields map[string]string) (bool, error)
	delErr   error
	delKeys  []string
}

func (m *mockStore) HSetIndexed(ctx context.Context, key, indexKey string, fields map[string]string) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, key, indexKey, fields)
	}
	if _, ok := m.kv[indexKey]; ok {
		return false, nil
	}
	m.kv[indexKey] = []byte(key)
	m.hashes[key] = copyFields(fields)
	return true, nil
}

func (m *mockStore) HSetIf(_ context.Context, key, field, expected string, fields map[string]string) (bool, error) {
	h, ok := m.hashes[key]
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

func copyFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	h, ok := m.hashes[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return h, nil
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = m.hashes[k]
	}
	return out, nil
}

func (m *mockStore) Scan(_ context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	m.delKeys = append(m.delKeys, key)
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.kv, key)
	delete(m.hashes, key)
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{hashes: map[string]map[string]string{}, kv: map[string][]byte{}}
	return New(ms, "lf:"), ms
}

func testCandidate(id, lostID, foundID string, createdAt time.Time) *match.Candidate {
	return &match.Candidate{
		ID:              id,
		LostItemID:      lostID,
		FoundItemID:     foundID,
		MatchPercentage: 90,
		Status:          match.StatusPending,
		CreatedAt:       createdAt,
	}
}
