package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lostfound/internal/domain/item"
	"github.com/kailas-cloud/lostfound/internal/domain/match"
	"github.com/kailas-cloud/lostfound/internal/domain/message"
	"github.com/kailas-cloud/lostfound/internal/domain/verify"
	"github.com/kailas-cloud/lostfound/internal/metrics"
	connectionuc "github.com/kailas-cloud/lostfound/internal/usecase/connection"
	contactuc "github.com/kailas-cloud/lostfound/internal/usecase/contact"
	healthuc "github.com/kailas-cloud/lostfound/internal/usecase/health"
	ownershipuc "github.com/kailas-cloud/lostfound/internal/usecase/ownership"
	reportuc "github.com/kailas-cloud/lostfound/internal/usecase/report"
)

// Server serves the lost-and-found HTTP API.
type Server struct {
	reports       *reportuc.Service
	connections   *connectionuc.Service
	ownership     *ownershipuc.Service
	health        *healthuc.Service
	messages      *contactuc.Service
	weights       match.Weights
	thresholds    verify.Thresholds
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. The stateless scoring endpoints use
// the default weights and thresholds until WithScoring is called.
func NewServer(
	reports *reportuc.Service,
	connections *connectionuc.Service,
	ownership *ownershipuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		reports:       reports,
		connections:   connections,
		ownership:     ownership,
		health:        health,
		weights:       match.DefaultWeights(),
		thresholds:    verify.DefaultThresholds(),
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// WithScoring configures the stateless /match and /verify endpoints.
func (s *Server) WithScoring(w match.Weights, t verify.Thresholds) *Server {
	s.weights = w
	s.thresholds = t
	return s
}

// WithMessages enables the contact message endpoints.
func (s *Server) WithMessages(messages *contactuc.Service) *Server {
	s.messages = messages
	return s
}

// Routes registers every endpoint on r. Health and metrics also live at the root.
func (s *Server) Routes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.HealthCheck)

		r.Route("/lost-items", func(r chi.Router) {
			r.Post("/", s.CreateLostItem)
			r.Get("/", s.ListLostItems)
			r.Get("/{id}", s.GetLostItem)
			r.Post("/{id}/found", s.MarkLostItemFound)
			r.Get("/{id}/questionnaire", s.GetQuestionnaire)
			r.Post("/{id}/verify", s.VerifyOwnership)
		})

		r.Route("/found-items", func(r chi.Router) {
			r.Post("/", s.CreateFoundItem)
			r.Get("/", s.ListFoundItems)
			r.Get("/{id}", s.GetFoundItem)
			r.Post("/{id}/claim", s.ClaimFoundItem)
		})

		r.Get("/connections", s.ListConnections)
		r.Patch("/connections/{id}", s.UpdateConnectionStatus)

		r.Post("/match", s.Match)
		r.Post("/verify", s.Verify)

		if s.messages != nil {
			r.Route("/contact-messages", func(r chi.Router) {
				r.Post("/", s.SubmitContactMessage)
				r.Get("/", s.ListContactMessages)
				r.Post("/{id}/read", s.MarkContactMessageRead)
			})
		}
	})
}

// CreateLostItem handles POST /lost-items.
func (s *Server) CreateLostItem(w http.ResponseWriter, r *http.Request) {
	var req lostItemRequest
	if !s.decode(w, r, &req) {
		return
	}
	l, err := s.reports.CreateLost(r.Context(), req.toDomain())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lostToResponse(&l))
}

// ListLostItems handles GET /lost-items.
func (s *Server) ListLostItems(w http.ResponseWriter, r *http.Request) {
	filter, cursor, limit, ok := listParams(w, r)
	if !ok {
		return
	}
	items, next, err := s.reports.ListLost(r.Context(), filter, cursor, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	out := make([]lostItemResponse, len(items))
	for i := range items {
		out[i] = lostToResponse(&items[i])
	}
	writeJSON(w, http.StatusOK, newListResponse(out, next))
}

// GetLostItem handles GET /lost-items/{id}.
func (s *Server) GetLostItem(w http.ResponseWriter, r *http.Request) {
	l, err := s.reports.GetLost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lostToResponse(&l))
}

// MarkLostItemFound handles POST /lost-items/{id}/found.
func (s *Server) MarkLostItemFound(w http.ResponseWriter, r *http.Request) {
	var req finderRequest
	if !s.decode(w, r, &req) {
		return
	}
	l, err := s.reports.MarkLostFound(r.Context(), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lostToResponse(&l))
}

// GetQuestionnaire handles GET /lost-items/{id}/questionnaire.
// Expected answers never leave the server.
func (s *Server) GetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	qs, err := s.ownership.Questions(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questionnaireResponse{LostItemID: id, Questions: verify.Texts(qs)})
}

// VerifyOwnership handles POST /lost-items/{id}/verify.
func (s *Server) VerifyOwnership(w http.ResponseWriter, r *http.Request) {
	var req answersRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.ownership.Verify(r.Context(), chi.URLParam(r, "id"), req.Answers)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyToResponse(res))
}

// CreateFoundItem handles POST /found-items.
func (s *Server) CreateFoundItem(w http.ResponseWriter, r *http.Request) {
	var req foundItemRequest
	if !s.decode(w, r, &req) {
		return
	}
	f, err := s.reports.CreateFound(r.Context(), req.toDomain())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, foundToResponse(&f))
}

// ListFoundItems handles GET /found-items.
func (s *Server) ListFoundItems(w http.ResponseWriter, r *http.Request) {
	filter, cursor, limit, ok := listParams(w, r)
	if !ok {
		return
	}
	items, next, err := s.reports.ListFound(r.Context(), filter, cursor, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	out := make([]foundItemResponse, len(items))
	for i := range items {
		out[i] = foundToResponse(&items[i])
	}
	writeJSON(w, http.StatusOK, newListResponse(out, next))
}

// GetFoundItem handles GET /found-items/{id}.
func (s *Server) GetFoundItem(w http.ResponseWriter, r *http.Request) {
	f, err := s.reports.GetFound(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foundToResponse(&f))
}

// ClaimFoundItem handles POST /found-items/{id}/claim.
func (s *Server) ClaimFoundItem(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if !s.decode(w, r, &req) {
		return
	}
	f, err := s.reports.ClaimFound(r.Context(), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foundToResponse(&f))
}

// SubmitContactMessage handles POST /contact-messages.
func (s *Server) SubmitContactMessage(w http.ResponseWriter, r *http.Request) {
	var req contactMessageRequest
	if !s.decode(w, r, &req) {
		return
	}
	m, err := s.messages.Submit(r.Context(), req.toDomain())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageToResponse(&m))
}

// ListContactMessages handles GET /contact-messages.
func (s *Server) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.messages.List(r.Context(), message.Status(r.URL.Query().Get("status")))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	out := make([]contactMessageResponse, len(msgs))
	for i := range msgs {
		out[i] = messageToResponse(&msgs[i])
	}
	writeJSON(w, http.StatusOK, newListResponse(out, ""))
}

// MarkContactMessageRead handles POST /contact-messages/{id}/read.
func (s *Server) MarkContactMessageRead(w http.ResponseWriter, r *http.Request) {
	m, err := s.messages.MarkRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageToResponse(&m))
}

// ListConnections handles GET /connections.
func (s *Server) ListConnections(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := connectionuc.Filter{
		UserID: q.Get("user_id"),
		ItemID: q.Get("item_id"),
		Status: q.Get("status"),
	}
	if filter.Status != "" && !match.Status(filter.Status).Valid() {
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Sprintf("unknown status %q", filter.Status))
		return
	}

	conns, err := s.connections.List(r.Context(), filter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	out := make([]connectionResponse, len(conns))
	for i := range conns {
		out[i] = connectionToResponse(&conns[i])
	}
	writeJSON(w, http.StatusOK, newListResponse(out, ""))
}

// UpdateConnectionStatus handles PATCH /connections/{id}.
func (s *Server) UpdateConnectionStatus(w http.ResponseWriter, r *http.Request) {
	var req connectionStatusRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "status is required")
		return
	}
	c, err := s.connections.UpdateStatus(r.Context(), chi.URLParam(r, "id"), match.Status(req.Status))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, connectionToResponse(&c))
}

// Match handles POST /match: scores the posted reports without storing anything.
func (s *Server) Match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !s.decode(w, r, &req) {
		return
	}
	weights := s.weights
	if req.MinPercentage != nil {
		if *req.MinPercentage < 0 || *req.MinPercentage > 100 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "min_percentage must be between 0 and 100")
			return
		}
		weights.MinPercentage = *req.MinPercentage
	}

	lost, found := req.items()
	candidates := match.Score(lost, found, weights)
	metrics.ObserveMatchRun(metrics.SourceAPI, len(candidates))
	writeJSON(w, http.StatusOK, candidatesToResponse(candidates))
}

// Verify handles POST /verify: scores answers against posted questions.
func (s *Server) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Answers) > len(req.Questions) {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("got %d answers for %d questions", len(req.Answers), len(req.Questions)))
		return
	}
	res := verify.Verify(req.questions(), req.Answers, s.thresholds)
	metrics.ObserveVerification(res.Verified)
	writeJSON(w, http.StatusOK, verifyToResponse(res))
}

// HealthCheck handles GET /health. Degraded still answers 200.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:    string(report.Status),
		Checks:    checks,
		LatencyMs: report.Latency.Milliseconds(),
	})
}

func listParams(w http.ResponseWriter, r *http.Request) (item.Filter, string, int, bool) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be a non-negative integer")
			return item.Filter{}, "", 0, false
		}
		limit = n
	}
	filter := item.Filter{
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Query:    q.Get("q"),
	}
	return filter, q.Get("cursor"), limit, true
}

// decode reads a JSON body into v, answering 400 (or 413) itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return false
	}
	s.logger.Debug("invalid request body", zap.Error(err))
	writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
	return false
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
