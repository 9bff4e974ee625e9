package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the store answers but above the latency budget.
	Degraded Status = "degraded"
	// Unhealthy indicates the store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckSlow indicates a passing check that exceeded the latency budget.
	CheckSlow CheckResult = "slow"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status  Status
	Checks  map[string]CheckResult
	Latency time.Duration
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	timeout time.Duration
	slow    time.Duration
	now     func() time.Time
}

// New creates a Service with a 2s ping timeout and a 250ms latency budget.
func New(db DBPinger) *Service {
	return &Service{db: db, timeout: 2 * time.Second, slow: 250 * time.Millisecond, now: time.Now}
}

// WithLimits overrides the ping timeout and latency budget.
func (s *Service) WithLimits(timeout, slow time.Duration) *Service {
	if timeout > 0 {
		s.timeout = timeout
	}
	if slow > 0 {
		s.slow = slow
	}
	return s
}

// Check pings the database and grades the answer.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := s.now()
	err := s.db.Ping(ctx)
	latency := s.now().Sub(start)

	r := Report{Status: Healthy, Checks: map[string]CheckResult{"database": CheckOK}, Latency: latency}
	switch {
	case err != nil:
		r.Status = Unhealthy
		r.Checks["database"] = CheckError
	case latency > s.slow:
		r.Status = Degraded
		r.Checks["database"] = CheckSlow
	}
	return r
}
