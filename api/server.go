// Package api exposes the HTTP surface of the server: the versioned
// JSON API, the delivery webhooks and the health endpoint.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"mailvault/observability"
	"mailvault/ratelimit"
	"mailvault/services"

	"github.com/gorilla/mux"
)

// Server wires the services behind the HTTP routes. It holds no
// request state; everything mutable lives in the services.
type Server struct {
	auth    services.IAuthService
	profile services.IProfileService
	beta    services.IBetaService
	billing services.IBillingService
	mail    services.IMailService
	inbound services.IInboundService

	limiter         *ratelimit.Limiter
	rateLimitMax    int
	rateLimitWindow time.Duration
	maintenanceMode bool
	defaultPriceRef string

	monitor *observability.Monitor
	log     *slog.Logger
}

// Options carries the non-service knobs of the HTTP layer.
type Options struct {
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
	MaintenanceMode      bool
	// DefaultPriceRef is used when a checkout request names no price.
	DefaultPriceRef string
	// Limiter overrides the default limiter, letting tests drive the
	// window clock. Nil gets a wall-clock limiter.
	Limiter *ratelimit.Limiter
}

func NewServer(
	auth services.IAuthService,
	profile services.IProfileService,
	beta services.IBetaService,
	billing services.IBillingService,
	mail services.IMailService,
	inbound services.IInboundService,
	monitor *observability.Monitor,
	opts Options,
	log *slog.Logger,
) *Server {
	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.New()
	}
	return &Server{
		auth:            auth,
		profile:         profile,
		beta:            beta,
		billing:         billing,
		mail:            mail,
		inbound:         inbound,
		limiter:         limiter,
		rateLimitMax:    opts.RateLimitMaxRequests,
		rateLimitWindow: opts.RateLimitWindow,
		maintenanceMode: opts.MaintenanceMode,
		defaultPriceRef: opts.DefaultPriceRef,
		monitor:         monitor,
		log:             log,
	}
}

// Router builds the full route table. The middleware order matters:
// logging wraps everything, maintenance cuts in before any work, rate
// limiting runs before authentication so unauthenticated floods are
// cheap to reject.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware, s.maintenanceMiddleware, s.rateLimitMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.authMiddleware)
	protected.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/profile", s.handleUpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/beta/redeem", s.handleBetaRedeem).Methods(http.MethodPost)
	protected.HandleFunc("/billing/checkout", s.handleCheckout).Methods(http.MethodPost)
	protected.HandleFunc("/mail/send", s.handleSend).Methods(http.MethodPost)
	protected.HandleFunc("/mail/messages/{folder}", s.handleListMessages).Methods(http.MethodGet)

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/profiles", s.handleListProfiles).Methods(http.MethodGet)
	admin.HandleFunc("/beta/codes", s.handleGenerateCodes).Methods(http.MethodPost)
	admin.HandleFunc("/beta/codes", s.handleListCodes).Methods(http.MethodGet)
	admin.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	webhooks := r.PathPrefix("/webhooks/inbound").Subrouter()
	webhooks.HandleFunc("/simple", s.handleInboundSimple).Methods(http.MethodPost)
	webhooks.HandleFunc("/timestamped", s.handleInboundTimestamped).Methods(http.MethodPost)

	return r
}
