package rpc

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"stallion/config"
	"stallion/core"
	corestate "stallion/core/state"
	"stallion/core/types"
	"stallion/native/bounty"
	"stallion/native/params"
	"stallion/native/project"
	"stallion/observability"
	"stallion/observability/eventlog"
)

// Backend is the node surface served over HTTP.
type Backend interface {
	CreateBounty(ctx context.Context, p bounty.CreateParams) (*bounty.Bounty, error)
	UpdateBounty(ctx context.Context, id uint32, p bounty.UpdateParams) ([]string, error)
	DeleteBounty(ctx context.Context, id uint32) (*big.Int, error)
	CloseBounty(ctx context.Context, id uint32) (*big.Int, error)
	ApplyToBounty(ctx context.Context, id uint32, reference string) error
	UpdateSubmission(ctx context.Context, id uint32, reference string) error
	SelectWinners(ctx context.Context, id uint32, winners []types.Address) (*bounty.Settlement, error)
	CheckJudgingDeadline(ctx context.Context, id uint32) (*bounty.AutoSettlement, error)
	Bounty(id uint32) (*bounty.Bounty, error)
	Bounties(f core.BountyFilter) ([]*bounty.Bounty, error)

	CreateGig(ctx context.Context, p project.GigParams) (*project.Project, error)
	CreateJob(ctx context.Context, p project.JobParams) (*project.Project, error)
	ReleaseMilestone(ctx context.Context, id, order uint32, contributor types.Address, amount *big.Int) (*project.Project, error)
	CancelGig(ctx context.Context, id uint32) (*big.Int, error)
	Project(id uint32) (*project.Project, error)
	ProjectsByOwner(owner types.Address) ([]*project.Project, error)

	UpdateAdmin(ctx context.Context, next types.Address) (params.Platform, error)
	UpdateFeeAccount(ctx context.Context, next types.Address) (params.Platform, error)
	UpdatePauses(ctx context.Context, pauses config.Pauses) error
	Platform() (params.Platform, error)
	Balance(token string, addr types.Address) (*big.Int, error)
	Tokens() ([]corestate.TokenMetadata, error)
	Token(symbol string) (corestate.TokenMetadata, error)
}

// EventSource lists persisted events.
type EventSource interface {
	List(ctx context.Context, q eventlog.Query) ([]eventlog.Record, error)
}

type ServerConfig struct {
	Backend   Backend
	Events    EventSource
	Auth      AuthConfig
	RateLimit RateLimit
	Logger    *slog.Logger
}

type Server struct {
	backend Backend
	events  EventSource
	auth    *Authenticator
	limiter *RateLimiter
	logger  *slog.Logger
	handler http.Handler
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("rpc: backend required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		backend: cfg.Backend,
		events:  cfg.Events,
		auth:    NewAuthenticator(cfg.Auth, logger),
		limiter: NewRateLimiter(cfg.RateLimit),
		logger:  logger,
	}
	s.handler = otelhttp.NewHandler(s.routes(), "stallion-rpc")
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(s.auth.Middleware(false))

		v1.Group(func(pub chi.Router) {
			pub.Use(s.limiter.Middleware("query"), observe("query"))
			pub.Get("/bounties", s.handleListBounties)
			pub.Get("/bounties/{id}", s.handleGetBounty)
			pub.Get("/projects", s.handleListProjects)
			pub.Get("/projects/{id}", s.handleGetProject)
			pub.Get("/tokens", s.handleTokens)
			pub.Get("/balances/{token}/{address}", s.handleBalance)
			pub.Get("/platform", s.handlePlatform)
			pub.Get("/events", s.handleEvents)
			// Deadline settlement is open to anyone.
			pub.Post("/bounties/{id}/check", s.handleCheckJudgingDeadline)
		})

		v1.Group(func(b chi.Router) {
			b.Use(requireCaller, s.limiter.Middleware("bounty"), observe("bounty"))
			b.Post("/bounties", s.handleCreateBounty)
			b.Patch("/bounties/{id}", s.handleUpdateBounty)
			b.Delete("/bounties/{id}", s.handleDeleteBounty)
			b.Post("/bounties/{id}/close", s.handleCloseBounty)
			b.Post("/bounties/{id}/submissions", s.handleApply)
			b.Put("/bounties/{id}/submissions", s.handleUpdateSubmission)
			b.Post("/bounties/{id}/winners", s.handleSelectWinners)
		})

		v1.Group(func(p chi.Router) {
			p.Use(requireCaller, s.limiter.Middleware("project"), observe("project"))
			p.Post("/projects/gig", s.handleCreateGig)
			p.Post("/projects/job", s.handleCreateJob)
			p.Post("/projects/{id}/milestones/{order}/release", s.handleReleaseMilestone)
			p.Post("/projects/{id}/cancel", s.handleCancelGig)
		})

		v1.Group(func(a chi.Router) {
			a.Use(requireCaller, s.limiter.Middleware("admin"), observe("admin"))
			a.Post("/admin/admin", s.handleUpdateAdmin)
			a.Post("/admin/fee-account", s.handleUpdateFeeAccount)
			a.Post("/admin/pauses", s.handleUpdatePauses)
		})
	})
	return r
}

func requireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if core.CallerFrom(r.Context()).IsZero() {
			writeProblem(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func observe(group string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := observability.RPC().Begin(group)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			done(r.Method+" "+route, rec.status)
		})
	}
}
