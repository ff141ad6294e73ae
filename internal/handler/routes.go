package handler

import (
	"net/http"

	"github.com/aurasat/backend/internal/catalog"
	"github.com/aurasat/backend/internal/repository"
	"github.com/aurasat/backend/internal/service"
)

// RouterConfig carries everything NewRouter wires into the mux.
type RouterConfig struct {
	DB          repository.DB
	FrontendURL string
	Contacts    service.ContactService
	Catalog     *catalog.Catalog
	SpeedTest   SpeedTester
	// ContactLimiter throttles POST /api/contact; nil disables it.
	ContactLimiter *RateLimiter
	// AdminAuth guards the contact triage routes, e.g. auth.RequireAdmin or auth.DevAuth.
	AdminAuth func(http.Handler) http.Handler
}

// NewRouter builds the API handler with its middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	h := New(cfg.DB, cfg.FrontendURL)
	contactHandler := NewContactHandler(cfg.Contacts)
	coverageHandler := NewCoverageHandler(cfg.Catalog)
	speedTestHandler := NewSpeedTestHandler(cfg.SpeedTest)

	adminAuth := cfg.AdminAuth
	if adminAuth == nil {
		adminAuth = func(next http.Handler) http.Handler { return next }
	}
	var submit http.Handler = http.HandlerFunc(contactHandler.Submit)
	if cfg.ContactLimiter != nil {
		submit = cfg.ContactLimiter.Middleware(submit)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)

	mux.Handle("POST /api/contact", submit)

	// Admin triage
	mux.Handle("GET /api/contact", adminAuth(http.HandlerFunc(contactHandler.List)))
	mux.Handle("PATCH /api/contact/{id}", adminAuth(http.HandlerFunc(contactHandler.UpdateStatus)))
	mux.Handle("DELETE /api/contact/{id}", adminAuth(http.HandlerFunc(contactHandler.Delete)))

	mux.HandleFunc("GET /api/coverage", coverageHandler.List)
	mux.HandleFunc("GET /api/coverage/{id}", coverageHandler.Get)

	mux.HandleFunc("GET /api/speedtest/servers", speedTestHandler.Servers)
	mux.HandleFunc("GET /api/speedtest/run", speedTestHandler.Run)

	return SecurityHeaders(RequestLogger(h.CORS(mux)))
}
