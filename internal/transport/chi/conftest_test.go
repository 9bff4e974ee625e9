package chi

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lostfound/internal/domain"
	"github.com/kailas-cloud/lostfound/internal/domain/item"
	"github.com/kailas-cloud/lostfound/internal/domain/match"
	"github.com/kailas-cloud/lostfound/internal/domain/message"
	connectionuc "github.com/kailas-cloud/lostfound/internal/usecase/connection"
	contactuc "github.com/kailas-cloud/lostfound/internal/usecase/contact"
	healthuc "github.com/kailas-cloud/lostfound/internal/usecase/health"
	ownershipuc "github.com/kailas-cloud/lostfound/internal/usecase/ownership"
	reportuc "github.com/kailas-cloud/lostfound/internal/usecase/report"
)

// memItems stores reports in memory; newest first on listing.
type memItems struct {
	mu    sync.Mutex
	lost  []item.Lost
	found []item.Found
}

func (m *memItems) CreateLost(_ context.Context, l *item.Lost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lost = append(m.lost, *l)
	return nil
}

func (m *memItems) GetLost(_ context.Context, id string) (item.Lost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.lost {
		if l.ID == id {
			return l, nil
		}
	}
	return item.Lost{}, domain.ErrItemNotFound
}

func (m *memItems) ListLost(_ context.Context) ([]item.Lost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]item.Lost, 0, len(m.lost))
	for i := len(m.lost) - 1; i >= 0; i-- {
		out = append(out, m.lost[i])
	}
	return out, nil
}

func (m *memItems) RecordFinder(_ context.Context, id string, f *item.Finder, from, to item.LostStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lost {
		if m.lost[i].ID == id {
			if m.lost[i].Status != from {
				return domain.ErrInvalidTransition
			}
			finder := *f
			m.lost[i].Finder = &finder
			m.lost[i].Status = to
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (m *memItems) UpdateLostStatus(_ context.Context, id string, status item.LostStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lost {
		if m.lost[i].ID == id {
			m.lost[i].Status = status
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (m *memItems) CreateFound(_ context.Context, f *item.Found) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.found = append(m.found, *f)
	return nil
}

func (m *memItems) GetFound(_ context.Context, id string) (item.Found, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.found {
		if f.ID == id {
			return f, nil
		}
	}
	return item.Found{}, domain.ErrItemNotFound
}

func (m *memItems) ListFound(_ context.Context) ([]item.Found, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]item.Found, 0, len(m.found))
	for i := len(m.found) - 1; i >= 0; i-- {
		out = append(out, m.found[i])
	}
	return out, nil
}

func (m *memItems) RecordClaimer(_ context.Context, id string, c *item.Claimer, from, to item.FoundStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.found {
		if m.found[i].ID == id {
			if m.found[i].Status != from {
				return domain.ErrInvalidTransition
			}
			claimer := *c
			m.found[i].Claimer = &claimer
			m.found[i].Status = to
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (m *memItems) UpdateFoundStatus(_ context.Context, id string, status item.FoundStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.found {
		if m.found[i].ID == id {
			m.found[i].Status = status
			return nil
		}
	}
	return domain.ErrItemNotFound
}

// memConns stores connections in memory and enforces pair uniqueness.
type memConns struct {
	mu    sync.Mutex
	byID  map[string]match.Candidate
	order []string
}

func newMemConns() *memConns { return &memConns{byID: map[string]match.Candidate{}} }

func (m *memConns) Create(_ context.Context, c *match.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.LostItemID == c.LostItemID && existing.FoundItemID == c.FoundItemID {
			return domain.ErrAlreadyExists
		}
	}
	m.byID[c.ID] = *c
	m.order = append(m.order, c.ID)
	return nil
}

func (m *memConns) Get(_ context.Context, id string) (match.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return match.Candidate{}, domain.ErrConnectionNotFound
	}
	return c, nil
}

func (m *memConns) GetByPair(_ context.Context, lostID, foundID string) (match.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.LostItemID == lostID && c.FoundItemID == foundID {
			return c, nil
		}
	}
	return match.Candidate{}, domain.ErrConnectionNotFound
}

func (m *memConns) List(_ context.Context) ([]match.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]match.Candidate, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out, nil
}

func (m *memConns) UpdateStatus(_ context.Context, id string, from, to match.Status, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return domain.ErrConnectionNotFound
	}
	if c.Status != from {
		return domain.ErrInvalidTransition
	}
	c.Status = to
	c.UpdatedAt = at
	m.byID[id] = c
	return nil
}

// memMessages stores contact messages in memory, newest first.
type memMessages struct {
	mu   sync.Mutex
	msgs []message.Message
}

func (m *memMessages) Create(_ context.Context, msg *message.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append([]message.Message{*msg}, m.msgs...)
	return nil
}

func (m *memMessages) Get(_ context.Context, id string) (message.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.msgs {
		if msg.ID == id {
			return msg, nil
		}
	}
	return message.Message{}, domain.ErrMessageNotFound
}

func (m *memMessages) List(_ context.Context) ([]message.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]message.Message(nil), m.msgs...), nil
}

func (m *memMessages) UpdateStatus(_ context.Context, id string, from, to message.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.msgs {
		if m.msgs[i].ID == id {
			if m.msgs[i].Status != from {
				return domain.NewTransitionError(string(from), string(to))
			}
			m.msgs[i].Status = to
			return nil
		}
	}
	return domain.ErrMessageNotFound
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

var errPingFailed = errors.New("connection refused")

type testEnv struct {
	handler http.Handler
	items   *memItems
	conns   *memConns
}

func newTestEnv(pingErr error) *testEnv {
	items := &memItems{}
	conns := newMemConns()

	server := NewServer(
		reportuc.New(items),
		connectionuc.New(conns, items),
		ownershipuc.New(items),
		healthuc.New(stubPinger{err: pingErr}),
		zap.NewNop(),
	).WithMessages(contactuc.New(&memMessages{}))

	r := chi.NewRouter()
	r.Use(BodyLimit(1 << 16))
	server.Routes(r)
	return &testEnv{handler: r, items: items, conns: conns}
}
