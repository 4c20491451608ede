package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/toshilabs/toshiref/api/refdash" // Swagger docs
	"github.com/toshilabs/toshiref/internal/refdash/service"
	"github.com/toshilabs/toshiref/internal/refdash/store"
	"github.com/toshilabs/toshiref/pkg/httpx"
	"github.com/toshilabs/toshiref/pkg/slogx"
)

const (
	checkAuthPrefix = "/api/check-auth/"
	approvalsPrefix = "/api/approvals/"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	pending store.PendingAuthorizations

	Broker           *service.Broker
	SessionService   *service.SessionService
	DashboardService *service.DashboardService
	SettingsService  *service.SettingsService

	// ApproverToken enables POST /api/approvals/{code}/{decision}. Empty
	// disables the endpoint.
	ApproverToken string

	// StaticDir holds the built dashboard. Empty disables SPA hosting.
	StaticDir   string
	CORSOrigins []string
}

func NewRouter(
	buildVersion string,
	st store.Store,
	pending store.PendingAuthorizations,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		pending:      pending,
		logger:       logger,
	}
}

func (r *Router) ApplyRoutes() {
	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger, slogx.MiddlewareOptions{
			QuietPrefixes:  []string{checkAuthPrefix, "/livez", "/readyz"},
			RedactPrefixes: []string{checkAuthPrefix, approvalsPrefix},
		}),
		httpx.SecurityHeaders(),
	}
	if len(r.CORSOrigins) > 0 {
		r.middlewares = append(r.middlewares, httpx.CORS(r.CORSOrigins))
	}

	r.registerAuth()
	r.registerDashboard()
	r.registerSettings()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())

	if r.StaticDir != "" {
		r.Mux.Handle("GET /", httpx.Chain(SPAHandler(r.StaticDir),
			httpx.RateLimitByIP(httpx.PublicLimit),
		))
	}
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			ToshiRef Referral Dashboard API
//	@version		0.1.0
//	@description	Backend for the referral dashboard. Sign-in is approved out of band through Telegram:
//	@description	POST /api/telegram-auth returns an authorization code, poll GET /api/check-auth/{code}
//	@description	until it reports accepted and carries a session token.
//
//	@contact.name				Toshi Labs
//	@contact.url				https://github.com/toshilabs/toshiref
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token from the status endpoint. Format: "Bearer {token}".
//
//	@securityDefinitions.apikey	ApproverAuth
//	@in							header
//	@name						Authorization
//	@description				Static approver token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Broker: r.Broker}

	// POST /api/telegram-auth - strict limit, this is where keys are guessed
	r.Mux.Handle("POST /api/telegram-auth",
		httpx.Chain(http.HandlerFunc(h.HandleBegin),
			httpx.RateLimitByIP(httpx.IssueLimit),
		),
	)

	// GET /api/check-auth/{code} - polled every two seconds
	r.Mux.Handle("GET /api/check-auth/{code}",
		httpx.Chain(http.HandlerFunc(h.HandleCheck),
			httpx.RateLimitByIP(httpx.PollLimit),
		),
	)

	// POST /api/approvals/{code}/{decision} - approver automation. The limiter
	// sits outside the token check so failed guesses are counted too.
	r.Mux.Handle("POST /api/approvals/{code}/{decision}",
		httpx.Chain(http.HandlerFunc(h.HandleDecide),
			httpx.RateLimitByIP(httpx.APILimit),
			httpx.StaticTokenAuth(r.ApproverToken),
		),
	)
	r.Mux.Handle("GET /api/approvals/{code}",
		httpx.Chain(http.HandlerFunc(h.HandleLookup),
			httpx.RateLimitByIP(httpx.APILimit),
			httpx.StaticTokenAuth(r.ApproverToken),
		),
	)

	logout := &LogoutHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /api/logout",
		httpx.Chain(logout,
			httpx.SessionAuth(r.SessionService),
			httpx.RateLimitByUser(httpx.APILimit),
		),
	)
}

func (r *Router) registerDashboard() {
	h := &DashboardHandler{DashboardService: r.DashboardService}

	r.Mux.Handle("GET /api/dashboard",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.SessionAuth(r.SessionService),
			httpx.RateLimitByUser(httpx.APILimit),
		),
	)
	r.Mux.Handle("POST /api/update-solana-address",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateSolanaAddress),
			httpx.SessionAuth(r.SessionService),
			httpx.RateLimitByUser(httpx.APILimit),
		),
	)
}

func (r *Router) registerSettings() {
	h := &SettingsHandler{SettingsService: r.SettingsService}

	r.Mux.Handle("GET /api/settings",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.SessionAuth(r.SessionService),
			httpx.RateLimitByUser(httpx.APILimit),
		),
	)
	r.Mux.Handle("POST /api/settings",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			httpx.SessionAuth(r.SessionService),
			httpx.RateLimitByUser(httpx.APILimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.pending),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /api/test",
		httpx.Chain(TestHandler(),
			httpx.RateLimitByIP(httpx.APILimit),
		),
	)
}
