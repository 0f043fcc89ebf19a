package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/healthcalc/calcchain/internal/logging"
	"github.com/healthcalc/calcchain/pkg/chain"
	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/healthcalc/calcchain/pkg/session"
)

const (
	// DefaultCookieName holds the visitor's session id.
	DefaultCookieName = "calcchain_session"
	// DefaultResultsPath is where a finished chain sends the visitor.
	DefaultResultsPath = "/results"

	maxBodyBytes = 64 << 10
)

// Navigation statuses.
const (
	StatusStarted   = "started"
	StatusAdvanced  = "advanced"
	StatusCompleted = "completed"
	StatusExited    = "exited"
	StatusIgnored   = "ignored"
)

// NavigationResponse tells the routing layer where to go next.
// Redirect is empty when the visitor should stay on the current page.
type NavigationResponse struct {
	Status   string `json:"status"`
	Next     string `json:"next,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// StateResponse describes the chain in progress, if any.
type StateResponse struct {
	Active         bool              `json:"active"`
	ChainID        string            `json:"chainId,omitempty"`
	ChainName      string            `json:"chainName,omitempty"`
	CurrentStep    *domain.Step      `json:"currentStep,omitempty"`
	CompletedSlugs []string          `json:"completedSlugs,omitempty"`
	SharedData     domain.SharedData `json:"sharedData,omitempty"`
	Completed      int               `json:"completed"`
	Total          int               `json:"total"`
	Percent        int               `json:"percent"`
}

// StartRequest is the body of POST /chain/start.
type StartRequest struct {
	ChainID string `json:"chainId"`
}

// AdvanceRequest is the body of POST /chain/advance.
type AdvanceRequest struct {
	Slug string         `json:"slug"`
	Data map[string]any `json:"data"`
}

// Server exposes chain operations to calculator pages.
type Server struct {
	sessions *session.Manager
	streams  *StreamManager
	logger   *slog.Logger

	resultsPath    string
	calculatorPath string
	cookieName     string
	cookieSecure   bool
	allowedOrigins map[string]bool
	sessionTTL     time.Duration
	version        string

	metrics http.Handler
	health  func(context.Context) error
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithResultsPath sets the destination of completed chains.
func WithResultsPath(p string) Option {
	return func(s *Server) {
		s.resultsPath = p
	}
}

// WithCalculatorPath sets the prefix of calculator pages (default "/").
func WithCalculatorPath(prefix string) Option {
	return func(s *Server) {
		s.calculatorPath = prefix
	}
}

// WithCookie configures the session cookie. A zero ttl makes it a browser-session cookie.
func WithCookie(name string, secure bool, ttl time.Duration) Option {
	return func(s *Server) {
		s.cookieName = name
		s.cookieSecure = secure
		s.sessionTTL = ttl
	}
}

// WithMetricsHandler mounts h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithHealthCheck makes /healthz report check failures as 503.
func WithHealthCheck(check func(context.Context) error) Option {
	return func(s *Server) {
		s.health = check
	}
}

// WithAllowedOrigins lists the origins that may call the API with the
// visitor's cookie. Other origins get no CORS headers.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if s.allowedOrigins == nil {
			s.allowedOrigins = make(map[string]bool, len(origins))
		}
		for _, o := range origins {
			s.allowedOrigins[o] = true
		}
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a Server over the session manager.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:       sessions,
		logger:         logging.NewNop(),
		resultsPath:    DefaultResultsPath,
		calculatorPath: "/",
		cookieName:     DefaultCookieName,
		version:        "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for the session manager.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(sessions, opts...).Routes()
}

// Streams returns the SSE fan-out of the server.
func (s *Server) Streams() *StreamManager {
	return s.streams
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.enableCORS)

	r.Get("/healthz", s.getHealth)
	r.Get("/info", s.getInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Get("/chains", s.listChains)
	r.Get("/chains/{id}", s.getChain)
	r.Get("/calculators/{slug}/chains", s.listChainsForCalculator)

	r.Route("/chain", func(r chi.Router) {
		r.Get("/", s.getState)
		r.Post("/start", s.startChain)
		r.Get("/auto-start", s.autoStart)
		r.Post("/advance", s.advanceStep)
		r.Post("/exit", s.exitChain)
		r.Get("/events", s.subscribeEvents)
	})
	return r
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Add("Vary", "Origin")
		}
		if origin != "" && s.allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Warn("Health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "calcchain-http",
		"version": s.version,
	})
}

func (s *Server) listChains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.Catalog().Chains())
}

func (s *Server) getChain(w http.ResponseWriter, r *http.Request) {
	ch, err := s.sessions.Catalog().Chain(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrChainNotFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("Chain lookup failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "chain lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) listChainsForCalculator(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	related := []domain.Chain{}
	for _, ch := range s.sessions.Catalog().Chains() {
		if ch.Contains(slug) {
			related = append(related, ch)
		}
	}
	writeJSON(w, http.StatusOK, related)
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(w, r)
	var resp StateResponse
	err := s.sessions.WithSession(r.Context(), sessionID, func(ctx context.Context, store *chain.Store) error {
		resp = stateOf(ctx, store)
		return nil
	})
	if err != nil {
		s.sessionFailed(w, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) startChain(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if err := s.decode(w, r, &body); err != nil {
		s.logger.Warn("Start: invalid request body", "err", err)
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.start(w, r, func(ctx context.Context, store *chain.Store) (string, bool) {
		return store.Start(ctx, body.ChainID)
	})
}

func (s *Server) autoStart(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("chain")
	s.start(w, r, func(ctx context.Context, store *chain.Store) (string, bool) {
		return store.ResolveAutoStart(ctx, query)
	})
}

func (s *Server) start(w http.ResponseWriter, r *http.Request, op func(context.Context, *chain.Store) (string, bool)) {
	sessionID := s.sessionID(w, r)
	resp := NavigationResponse{Status: StatusIgnored}
	var state StateResponse
	err := s.sessions.WithSession(r.Context(), sessionID, func(ctx context.Context, store *chain.Store) error {
		if next, ok := op(ctx, store); ok {
			resp = NavigationResponse{Status: StatusStarted, Next: next, Redirect: s.calculatorURL(next)}
			state = stateOf(ctx, store)
		}
		return nil
	})
	if err != nil {
		s.sessionFailed(w, sessionID, err)
		return
	}
	if resp.Status == StatusStarted {
		s.broadcast(sessionID, state)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) advanceStep(w http.ResponseWriter, r *http.Request) {
	var body AdvanceRequest
	if err := s.decode(w, r, &body); err != nil || body.Slug == "" {
		s.logger.Warn("Advance: invalid request body", "err", err)
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := s.sessionID(w, r)
	resp := NavigationResponse{Status: StatusIgnored}
	var state StateResponse
	err := s.sessions.WithSession(r.Context(), sessionID, func(ctx context.Context, store *chain.Store) error {
		// Only the current step may finish the chain; checked under the session lock.
		progress, current := store.Progress(ctx)
		current = current && progress.CurrentStep.Slug == body.Slug

		next, ok := store.Advance(ctx, body.Slug, body.Data)
		switch {
		case ok:
			resp = NavigationResponse{Status: StatusAdvanced, Next: next, Redirect: s.calculatorURL(next)}
		case current && progress.IsLastStep():
			// A failed Remove leaves the final step current; the client retries.
			if _, still := store.Active(ctx); still {
				s.logger.Warn("Advance: final step not cleared", "session_id", sessionID, "slug", body.Slug)
				return nil
			}
			resp = NavigationResponse{Status: StatusCompleted, Redirect: s.resultsPath}
		default:
			return nil
		}
		state = stateOf(ctx, store)
		return nil
	})
	if err != nil {
		s.sessionFailed(w, sessionID, err)
		return
	}
	if resp.Status != StatusIgnored {
		s.broadcast(sessionID, state)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) exitChain(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(w, r)
	err := s.sessions.WithSession(r.Context(), sessionID, func(ctx context.Context, store *chain.Store) error {
		store.Exit(ctx)
		return nil
	})
	if err != nil {
		s.sessionFailed(w, sessionID, err)
		return
	}
	s.broadcast(sessionID, StateResponse{})
	writeJSON(w, http.StatusOK, NavigationResponse{Status: StatusExited})
}

// sessionID returns the visitor's session, issuing a new cookie when the
// request carries none or a malformed one.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(s.cookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	cookie := &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if s.sessionTTL > 0 {
		cookie.MaxAge = int(s.sessionTTL.Seconds())
	}
	http.SetCookie(w, cookie)
	return id
}

func (s *Server) calculatorURL(slug string) string {
	return path.Join(s.calculatorPath, slug)
}

func (s *Server) broadcast(sessionID string, state StateResponse) {
	if s.streams.Subscribers(sessionID) == 0 {
		return
	}
	payload, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("State encode failed", "session_id", sessionID, "err", err)
		return
	}
	s.streams.Broadcast(sessionID, string(payload))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	return dec.Decode(v)
}

// sessionFailed reports lock failures. Chain operations themselves never fail.
func (s *Server) sessionFailed(w http.ResponseWriter, sessionID string, err error) {
	s.logger.Error("Session operation failed", "session_id", sessionID, "err", err)
	s.writeError(w, http.StatusServiceUnavailable, "session busy")
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func stateOf(ctx context.Context, store *chain.Store) StateResponse {
	p, ok := store.Progress(ctx)
	if !ok {
		return StateResponse{}
	}
	step := p.CurrentStep
	return StateResponse{
		Active:         true,
		ChainID:        p.Chain.ID,
		ChainName:      p.Chain.Name,
		CurrentStep:    &step,
		CompletedSlugs: p.State.CompletedSlugs,
		SharedData:     p.State.SharedData,
		Completed:      p.Completed,
		Total:          p.Total,
		Percent:        p.Percent(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}
