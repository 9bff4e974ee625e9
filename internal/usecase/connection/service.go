package connection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lostfound/internal/domain"
	"github.com/kailas-cloud/lostfound/internal/domain/item"
	"github.com/kailas-cloud/lostfound/internal/domain/match"
	"github.com/kailas-cloud/lostfound/internal/logger"
	"github.com/kailas-cloud/lostfound/internal/metrics"
)

// Connection is a candidate match joined to its reports.
// Lost or Found is nil when the report no longer exists.
type Connection struct {
	match.Candidate
	Lost  *item.Lost
	Found *item.Found
}

// Filter narrows a connection listing. Empty fields match everything.
type Filter struct {
	UserID string // owner of either report
	ItemID string // either side of the pair
	Status string
}

func (f Filter) match(c *Connection) bool {
	if f.Status != "" && string(c.Status) != f.Status {
		return false
	}
	if f.ItemID != "" && c.LostItemID != f.ItemID && c.FoundItemID != f.ItemID {
		return false
	}
	if f.UserID != "" {
		lostOwner := c.Lost != nil && c.Lost.UserID == f.UserID
		foundOwner := c.Found != nil && c.Found.UserID == f.UserID
		if !lostOwner && !foundOwner {
			return false
		}
	}
	return true
}

// Service lists connections and drives their lifecycle.
type Service struct {
	conns   Repository
	items   ItemStore
	weights match.Weights
	now     func() time.Time
	newID   func() string
}

// New creates a connection service with default scoring weights.
func New(conns Repository, items ItemStore) *Service {
	return &Service{
		conns:   conns,
		items:   items,
		weights: match.DefaultWeights(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// WithWeights configures the scorer used for computed connections.
func (s *Service) WithWeights(w match.Weights) *Service {
	s.weights = w
	return s
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// List returns the persisted connections, or candidates computed from all
// stored reports when nothing has been persisted yet.
func (s *Service) List(ctx context.Context, f Filter) ([]Connection, error) {
	persisted, err := s.conns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	lost, err := s.items.ListLost(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lost reports: %w", err)
	}
	found, err := s.items.ListFound(ctx)
	if err != nil {
		return nil, fmt.Errorf("list found reports: %w", err)
	}

	candidates := persisted
	if len(candidates) == 0 {
		candidates = match.Score(lost, found, s.weights)
		metrics.ObserveMatchRun(metrics.SourceListing, len(candidates))
	}

	lostByID := make(map[string]*item.Lost, len(lost))
	for i := range lost {
		lostByID[lost[i].ID] = &lost[i]
	}
	foundByID := make(map[string]*item.Found, len(found))
	for i := range found {
		foundByID[found[i].ID] = &found[i]
	}

	out := make([]Connection, 0, len(candidates))
	for _, c := range candidates {
		conn := Connection{Candidate: c, Lost: lostByID[c.LostItemID], Found: foundByID[c.FoundItemID]}
		if f.match(&conn) {
			out = append(out, conn)
		}
	}
	return out, nil
}

// UpdateStatus moves a connection to next. Computed (auto-) connections are
// persisted first. Accepting marks the lost report found and the found report
// claimed; if that fails the connection is put back to its previous status.
func (s *Service) UpdateStatus(ctx context.Context, id string, next match.Status) (Connection, error) {
	if !next.Valid() {
		return Connection{}, fmt.Errorf("unknown status %q: %w", next, domain.ErrValidation)
	}

	var (
		c   match.Candidate
		err error
	)
	if match.IsAutoID(id) {
		c, err = s.persistAuto(ctx, id)
	} else {
		c, err = s.conns.Get(ctx, id)
	}
	if err != nil {
		return Connection{}, err
	}

	if !c.Status.CanTransition(next) {
		return Connection{}, domain.NewTransitionError(string(c.Status), string(next))
	}

	prev := c.Status
	now := s.now().UTC()
	if err := s.conns.UpdateStatus(ctx, c.ID, prev, next, now); err != nil {
		return Connection{}, fmt.Errorf("update connection %s: %w", c.ID, err)
	}
	c.Status = next
	c.UpdatedAt = now

	if next == match.StatusAccepted {
		if err := s.cascadeAccept(ctx, &c); err != nil {
			if rbErr := s.conns.UpdateStatus(ctx, c.ID, next, prev, now); rbErr != nil {
				logger.FromContext(ctx).Error("Connection rollback failed",
					zap.String("connection_id", c.ID), zap.Error(rbErr))
				return Connection{}, errors.Join(err, rbErr)
			}
			return Connection{}, err
		}
	}
	metrics.ConnectionTransitionsTotal.WithLabelValues(string(next)).Inc()

	return s.join(ctx, c), nil
}

// persistAuto re-derives a computed connection from its two reports and stores it
// under a fresh id. A pair stored earlier is returned as is.
func (s *Service) persistAuto(ctx context.Context, id string) (match.Candidate, error) {
	l, f, err := s.resolveAuto(ctx, id)
	if err != nil {
		return match.Candidate{}, err
	}

	if existing, err := s.conns.GetByPair(ctx, l.ID, f.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrConnectionNotFound) {
		return match.Candidate{}, fmt.Errorf("lookup pair: %w", err)
	}

	if !match.Eligible(&l, &f) {
		return match.Candidate{}, domain.ErrConnectionNotFound
	}
	b, ok := match.Evaluate(&l, &f, s.weights)
	kept := ok && b.Percentage() >= s.weights.MinPercentage
	metrics.ObserveMatchRun(metrics.SourceAutoID, boolToInt(kept))
	if !kept {
		return match.Candidate{}, domain.ErrConnectionNotFound
	}

	c := match.Candidate{
		ID:              s.newID(),
		LostItemID:      l.ID,
		FoundItemID:     f.ID,
		MatchPercentage: b.Percentage(),
		Status:          match.StatusPending,
		CreatedAt:       s.now().UTC(),
	}
	err = s.conns.Create(ctx, &c)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// lost the race to another writer; use theirs
		existing, getErr := s.conns.GetByPair(ctx, l.ID, f.ID)
		if getErr != nil {
			return match.Candidate{}, fmt.Errorf("lookup pair: %w", getErr)
		}
		return existing, nil
	}
	if err != nil {
		return match.Candidate{}, fmt.Errorf("persist connection: %w", err)
	}

	logger.FromContext(ctx).Info("Connection persisted",
		zap.String("auto_id", id),
		zap.String("connection_id", c.ID),
		zap.Int("match_percentage", c.MatchPercentage),
	)
	return c, nil
}

// resolveAuto splits auto-<lostID>-<foundID>. Ids may contain '-', so the
// split is anchored on a stored lost report id.
func (s *Service) resolveAuto(ctx context.Context, id string) (item.Lost, item.Found, error) {
	lost, err := s.items.ListLost(ctx)
	if err != nil {
		return item.Lost{}, item.Found{}, fmt.Errorf("list lost reports: %w", err)
	}

	for _, l := range lost {
		prefix := match.AutoID(l.ID, "")
		if !strings.HasPrefix(id, prefix) || len(id) == len(prefix) {
			continue
		}
		f, err := s.items.GetFound(ctx, id[len(prefix):])
		if errors.Is(err, domain.ErrItemNotFound) {
			continue
		}
		if err != nil {
			return item.Lost{}, item.Found{}, fmt.Errorf("get found report: %w", err)
		}
		return l, f, nil
	}
	return item.Lost{}, item.Found{}, domain.ErrConnectionNotFound
}

// cascadeAccept marks both reports settled. A lost report already marked is
// restored when the found side cannot be updated.
func (s *Service) cascadeAccept(ctx context.Context, c *match.Candidate) error {
	log := logger.FromContext(ctx).With(zap.String("connection_id", c.ID))

	l, err := s.items.GetLost(ctx, c.LostItemID)
	if err != nil {
		return fmt.Errorf("get lost report: %w", err)
	}
	if err := s.items.UpdateLostStatus(ctx, c.LostItemID, item.LostFound); err != nil {
		log.Error("Accept cascade failed", zap.String("lost_item_id", c.LostItemID), zap.Error(err))
		return fmt.Errorf("mark lost report found: %w", err)
	}
	if err := s.items.UpdateFoundStatus(ctx, c.FoundItemID, item.FoundClaimed); err != nil {
		log.Error("Accept cascade failed", zap.String("found_item_id", c.FoundItemID), zap.Error(err))
		err = fmt.Errorf("mark found report claimed: %w", err)
		if rbErr := s.items.UpdateLostStatus(ctx, c.LostItemID, l.Status); rbErr != nil {
			return errors.Join(err, fmt.Errorf("restore lost report: %w", rbErr))
		}
		return err
	}
	return nil
}

// join attaches the current reports; missing ones stay nil.
func (s *Service) join(ctx context.Context, c match.Candidate) Connection {
	conn := Connection{Candidate: c}
	if l, err := s.items.GetLost(ctx, c.LostItemID); err == nil {
		conn.Lost = &l
	}
	if f, err := s.items.GetFound(ctx, c.FoundItemID); err == nil {
		conn.Found = &f
	}
	return conn
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
