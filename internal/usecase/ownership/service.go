package ownership

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lostfound/internal/domain"
	"github.com/kailas-cloud/lostfound/internal/domain/verify"
	"github.com/kailas-cloud/lostfound/internal/logger"
	"github.com/kailas-cloud/lostfound/internal/metrics"
)

// Service runs ownership questionnaires against stored lost reports.
type Service struct {
	lost       LostReader
	thresholds verify.Thresholds
}

// New creates an ownership service with default scoring thresholds.
func New(lost LostReader) *Service {
	return &Service{lost: lost, thresholds: verify.DefaultThresholds()}
}

// WithThresholds configures answer scoring.
func (s *Service) WithThresholds(t verify.Thresholds) *Service {
	s.thresholds = t
	return s
}

// Questions returns the questionnaire for a lost report, expected answers included.
// Callers facing a claimant should strip them with verify.Texts.
func (s *Service) Questions(ctx context.Context, lostID string) ([]verify.Question, error) {
	l, err := s.lost.GetLost(ctx, lostID)
	if err != nil {
		return nil, fmt.Errorf("get lost report: %w", err)
	}
	return verify.Questionnaire(&l), nil
}

// Verify scores a claimant's answers against the questionnaire of a lost report.
func (s *Service) Verify(ctx context.Context, lostID string, answers []string) (verify.Result, error) {
	qs, err := s.Questions(ctx, lostID)
	if err != nil {
		return verify.Result{}, err
	}
	if len(answers) > len(qs) {
		return verify.Result{}, fmt.Errorf(
			"got %d answers for %d questions: %w", len(answers), len(qs), domain.ErrValidation,
		)
	}

	res := verify.Verify(qs, answers, s.thresholds)
	metrics.ObserveVerification(res.Verified)

	logger.FromContext(ctx).Info("Ownership verification",
		zap.String("lost_item_id", lostID),
		zap.Int("confidence", res.Confidence),
		zap.Bool("verified", res.Verified),
	)
	return res, nil
}
