package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lostfound/internal/domain"
	"github.com/kailas-cloud/lostfound/internal/domain/message"
	"github.com/kailas-cloud/lostfound/internal/logger"
	"github.com/kailas-cloud/lostfound/internal/metrics"
)

// Service accepts contact form messages and lets operators work through them.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// New creates a contact service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Submit validates and stores a message as unread.
func (s *Service) Submit(ctx context.Context, m message.Message) (message.Message, error) {
	if err := m.Validate(); err != nil {
		return message.Message{}, err
	}
	m.ID = s.newID()
	m.Status = message.StatusUnread
	m.CreatedAt = s.now().UTC()

	if err := s.repo.Create(ctx, &m); err != nil {
		return message.Message{}, fmt.Errorf("create message: %w", err)
	}
	metrics.ContactMessagesTotal.Inc()
	logger.FromContext(ctx).Info("Contact message received",
		zap.String("message_id", m.ID),
		zap.String("subject", m.Subject),
	)
	return m, nil
}

// List returns messages newest first, optionally narrowed to one status.
func (s *Service) List(ctx context.Context, status message.Status) ([]message.Message, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrValidation)
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if status == "" {
		return all, nil
	}
	out := make([]message.Message, 0, len(all))
	for _, m := range all {
		if m.Status == status {
			out = append(out, m)
		}
	}
	return out, nil
}

// MarkRead marks a message read. Marking a read message again is a no-op.
func (s *Service) MarkRead(ctx context.Context, id string) (message.Message, error) {
	err := s.repo.UpdateStatus(ctx, id, message.StatusUnread, message.StatusRead)
	if err != nil && !errors.Is(err, domain.ErrInvalidTransition) {
		return message.Message{}, fmt.Errorf("mark message read: %w", err)
	}
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return message.Message{}, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}
