package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/internal/shop/service"
	"github.com/tillroom/shopd/internal/shop/store"
	"github.com/tillroom/shopd/pkg/httpx"
	"github.com/tillroom/shopd/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	gate         *service.Gate
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	sessionTTL   time.Duration

	store            store.Store
	AuthService      *service.AuthService
	UserService      *service.UserService
	CompanyService   *service.CompanyService
	InventoryService *service.InventoryService
	OrderService     *service.OrderService
}

func NewRouter(
	gate *service.Gate,
	buildVersion string,
	sessionTTL time.Duration,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		gate:         gate,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		sessionTTL:   sessionTTL,
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerCompanies()
	r.registerInventory()
	r.registerOrders()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService: r.AuthService,
		UserService: r.UserService,
		SessionTTL:  r.sessionTTL,
	}

	// Both login steps sit behind the strict per-IP limit; this is the
	// brute-force backstop for credentials and one-time codes alike.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/mfa",
		httpx.Chain(http.HandlerFunc(h.HandleMFA),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			Authenticated(r.gate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/userinfo",
		httpx.Chain(http.HandlerFunc(h.HandleUserInfo),
			Authenticated(r.gate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("POST /v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			Authenticated(r.gate, domain.RoleAdmin),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/users/{id}/status",
		httpx.Chain(http.HandlerFunc(h.HandleSetStatus),
			Authenticated(r.gate, domain.RoleAdmin),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerCompanies() {
	h := &CompaniesHandler{CompanyService: r.CompanyService}

	r.Mux.Handle("POST /v1/companies",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			Authenticated(r.gate, domain.RoleAdmin),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/companies",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			Authenticated(r.gate, domain.RoleAdmin),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerInventory() {
	h := &InventoryHandler{InventoryService: r.InventoryService}

	// Reads are open to every authenticated role; writes are staff-only.
	r.Mux.Handle("GET /v1/inventory",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			Authenticated(r.gate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/inventory",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			Authenticated(r.gate, domain.RoleAdmin, domain.RoleClerk),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/inventory/{id}/quantity",
		httpx.Chain(http.HandlerFunc(h.HandleSetQuantity),
			Authenticated(r.gate, domain.RoleAdmin, domain.RoleClerk),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerOrders() {
	h := &OrdersHandler{OrderService: r.OrderService}

	r.Mux.Handle("POST /v1/orders",
		httpx.Chain(http.HandlerFunc(h.HandlePlace),
			Authenticated(r.gate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/orders",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			Authenticated(r.gate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/orders/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			Authenticated(r.gate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/orders/{id}/status",
		httpx.Chain(http.HandlerFunc(h.HandleSetStatus),
			Authenticated(r.gate, domain.RoleAdmin, domain.RoleClerk),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
