package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lostfound/internal/domain"
	"github.com/kailas-cloud/lostfound/internal/domain/item"
	"github.com/kailas-cloud/lostfound/internal/logger"
	"github.com/kailas-cloud/lostfound/internal/metrics"
)

// Service handles lost and found report intake and listings.
type Service struct {
	repo            Repository
	now             func() time.Time
	newID           func() string
	defaultPageSize int
	maxPageSize     int
}

// New creates a report service.
func New(repo Repository) *Service {
	return &Service{
		repo:            repo,
		now:             time.Now,
		newID:           uuid.NewString,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// CreateLost validates and stores a new lost report in pending status.
func (s *Service) CreateLost(ctx context.Context, l item.Lost) (item.Lost, error) {
	now := s.now().UTC()
	trimLost(&l)
	if err := l.Validate(now); err != nil {
		return item.Lost{}, err
	}

	l.ID = s.newID()
	l.Status = item.LostPending
	l.Finder = nil
	l.CreatedAt = now

	if err := s.repo.CreateLost(ctx, &l); err != nil {
		return item.Lost{}, fmt.Errorf("create lost report: %w", err)
	}
	metrics.ReportsCreatedTotal.WithLabelValues("lost").Inc()
	return l, nil
}

// CreateFound validates and stores a new found report in available status.
func (s *Service) CreateFound(ctx context.Context, f item.Found) (item.Found, error) {
	now := s.now().UTC()
	trimFound(&f)
	if err := f.Validate(now); err != nil {
		return item.Found{}, err
	}

	f.ID = s.newID()
	f.Status = item.FoundAvailable
	f.Claimer = nil
	f.CreatedAt = now

	if err := s.repo.CreateFound(ctx, &f); err != nil {
		return item.Found{}, fmt.Errorf("create found report: %w", err)
	}
	metrics.ReportsCreatedTotal.WithLabelValues("found").Inc()
	return f, nil
}

// GetLost retrieves a lost report.
func (s *Service) GetLost(ctx context.Context, id string) (item.Lost, error) {
	l, err := s.repo.GetLost(ctx, id)
	if err != nil {
		return item.Lost{}, fmt.Errorf("get lost report: %w", err)
	}
	return l, nil
}

// GetFound retrieves a found report.
func (s *Service) GetFound(ctx context.Context, id string) (item.Found, error) {
	f, err := s.repo.GetFound(ctx, id)
	if err != nil {
		return item.Found{}, fmt.Errorf("get found report: %w", err)
	}
	return f, nil
}

// ListLost returns one page of lost reports matching the filter, newest first.
func (s *Service) ListLost(
	ctx context.Context, filter item.Filter, cursor string, limit int,
) ([]item.Lost, string, error) {
	offset, limit, err := s.page(cursor, limit)
	if err != nil {
		return nil, "", err
	}

	all, err := s.repo.ListLost(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list lost reports: %w", err)
	}

	matched := make([]item.Lost, 0, len(all))
	for i := range all {
		if filter.MatchLost(&all[i]) {
			matched = append(matched, all[i])
		}
	}

	start, end, next := window(len(matched), offset, limit)
	return matched[start:end], next, nil
}

// ListFound returns one page of found reports matching the filter, newest first.
func (s *Service) ListFound(
	ctx context.Context, filter item.Filter, cursor string, limit int,
) ([]item.Found, string, error) {
	offset, limit, err := s.page(cursor, limit)
	if err != nil {
		return nil, "", err
	}

	all, err := s.repo.ListFound(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list found reports: %w", err)
	}

	matched := make([]item.Found, 0, len(all))
	for i := range all {
		if filter.MatchFound(&all[i]) {
			matched = append(matched, all[i])
		}
	}

	start, end, next := window(len(matched), offset, limit)
	return matched[start:end], next, nil
}

// MarkLostFound records who located a pending lost item and moves it to found.
func (s *Service) MarkLostFound(ctx context.Context, id string, finder item.Finder) (item.Lost, error) {
	finder.Name = strings.TrimSpace(finder.Name)
	finder.Contact = strings.TrimSpace(finder.Contact)
	finder.Details = strings.TrimSpace(finder.Details)
	if finder.Name == "" {
		return item.Lost{}, fmt.Errorf("finder name is required: %w", domain.ErrValidation)
	}
	if err := item.ValidateContact(finder.Contact); err != nil {
		return item.Lost{}, fmt.Errorf("finder %w: %w", err, domain.ErrValidation)
	}

	l, err := s.repo.GetLost(ctx, id)
	if err != nil {
		return item.Lost{}, fmt.Errorf("get lost report: %w", err)
	}
	if l.Status != item.LostPending {
		return item.Lost{}, domain.NewTransitionError(string(l.Status), string(item.LostFound))
	}

	if finder.FoundAt.IsZero() {
		finder.FoundAt = s.now().UTC()
	}
	if err := s.repo.RecordFinder(ctx, id, &finder, item.LostPending, item.LostFound); err != nil {
		return item.Lost{}, fmt.Errorf("record finder: %w", err)
	}

	l.Status = item.LostFound
	l.Finder = &finder
	return l, nil
}

// ClaimFound records a claim on an available found item and moves it to
// pending until the owner is confirmed.
func (s *Service) ClaimFound(ctx context.Context, id string, claimer item.Claimer) (item.Found, error) {
	if err := claimer.Validate(); err != nil {
		return item.Found{}, err
	}

	f, err := s.repo.GetFound(ctx, id)
	if err != nil {
		return item.Found{}, fmt.Errorf("get found report: %w", err)
	}
	if f.Status != item.FoundAvailable {
		return item.Found{}, domain.NewTransitionError(string(f.Status), string(item.FoundPending))
	}

	if claimer.ClaimedAt.IsZero() {
		claimer.ClaimedAt = s.now().UTC()
	}
	if err := s.repo.RecordClaimer(ctx, id, &claimer, item.FoundAvailable, item.FoundPending); err != nil {
		return item.Found{}, fmt.Errorf("record claimer: %w", err)
	}

	logger.FromContext(ctx).Info("Found report claimed",
		zap.String("found_item_id", id),
	)
	f.Status = item.FoundPending
	f.Claimer = &claimer
	return f, nil
}

// page resolves an offset cursor and clamps the page size.
func (s *Service) page(cursor string, limit int) (offset, size int, err error) {
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	if cursor == "" {
		return 0, limit, nil
	}
	offset, err = strconv.Atoi(cursor)
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid cursor %q: %w", cursor, domain.ErrValidation)
	}
	return offset, limit, nil
}

// window returns slice bounds for a page and the cursor of the next one.
func window(total, offset, limit int) (start, end int, next string) {
	if offset > total {
		offset = total
	}
	end = offset + limit
	if end >= total {
		return offset, total, ""
	}
	return offset, end, strconv.Itoa(end)
}

func trimLost(l *item.Lost) {
	l.Title = strings.TrimSpace(l.Title)
	l.Category = strings.TrimSpace(l.Category)
	l.Location = strings.TrimSpace(l.Location)
	l.Date = strings.TrimSpace(l.Date)
	l.Description = strings.TrimSpace(l.Description)
	l.ContactInfo = strings.TrimSpace(l.ContactInfo)
}

func trimFound(f *item.Found) {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	f.Location = strings.TrimSpace(f.Location)
	f.Date = strings.TrimSpace(f.Date)
	f.Description = strings.TrimSpace(f.Description)
	f.ContactInfo = strings.TrimSpace(f.ContactInfo)
}
