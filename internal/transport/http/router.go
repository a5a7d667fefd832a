// Package httptransport assembles the HTTP surface: the shared middleware
// stack, the public login and health endpoints, and the role-prefixed API
// groups. Handlers live in their bounded contexts; this package only mounts
// them behind the permission each route demands, so the route table below
// doubles as the access matrix.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fieldpos/internal/authz"
	cataloghandler "fieldpos/internal/catalog/handler"
	customerhandler "fieldpos/internal/customer/handler"
	mainthandler "fieldpos/internal/maintenance/handler"
	"fieldpos/internal/platform/health"
	reporthandler "fieldpos/internal/report/handler"
	salehandler "fieldpos/internal/sale/handler"
	staffhandler "fieldpos/internal/staff/handler"
	tenanthandler "fieldpos/internal/tenant/handler"
	"fieldpos/pkg/platform/middleware/admin"
	"fieldpos/pkg/platform/middleware/auth"
	"fieldpos/pkg/platform/middleware/metadata"
	"fieldpos/pkg/platform/middleware/request"
	"fieldpos/pkg/platform/middleware/requesttime"
)

const (
	requestTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

// Handlers bundles the per-context handlers the router mounts.
type Handlers struct {
	Health      *health.Handler
	Tenants     *tenanthandler.Handler
	Staff       *staffhandler.Handler
	Catalog     *cataloghandler.Handler
	Customers   *customerhandler.Handler
	Sales       *salehandler.Handler
	Maintenance *mainthandler.Handler
	Reports     *reporthandler.Handler
}

// Config carries the cross-cutting dependencies of the middleware stack.
type Config struct {
	// TokenValidator checks bearer tokens on the staff-facing prefixes.
	TokenValidator auth.JWTValidator

	// TenantGate blocks staff of deactivated tenants. Nil skips the check.
	TenantGate auth.TenantGate

	// AdminToken is the bootstrap token accepted on /api/admin before any
	// admin account exists. Empty leaves only the bearer token path.
	AdminToken string

	// Metrics records per-endpoint latency. Nil disables recording.
	Metrics *request.Metrics

	// Metadata configures client IP extraction behind trusted proxies.
	Metadata *metadata.Config
}

// NewRouter wires middleware, the public endpoints, and the five role
// prefixes. Within a prefix, routes are grouped by required permission.
func NewRouter(h Handlers, cfg Config, logger *slog.Logger) http.Handler {
	meta := metadata.NewMiddleware(cfg.Metadata)
	requireAuth := auth.RequireAuth(cfg.TokenValidator, cfg.TenantGate, logger)

	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(meta.Handler)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(logger))
	r.Use(request.LatencyMiddleware(cfg.Metrics))
	r.Use(request.Timeout(requestTimeout))
	r.Use(request.BodyLimit(maxBodyBytes))
	r.Use(request.ContentTypeJSON)

	h.Health.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Login is the only unauthenticated API endpoint.
	r.Route("/api/auth", func(r chi.Router) {
		h.Staff.RegisterAuth(r)
	})

	// Platform operator surface: tenant lifecycle and the manual sweep
	// trigger. Guarded by the bootstrap admin token or an admin bearer token.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(admin.RequireAdmin(cfg.AdminToken, cfg.TokenValidator, logger))
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermTenantsManage, logger))
			h.Tenants.RegisterAdmin(r)
			h.Maintenance.RegisterSweep(r)
		})
	})

	// Owner back office.
	r.Route("/api/business", func(r chi.Router) {
		r.Use(requireAuth)
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermBranchesManage, logger))
			h.Tenants.RegisterBusiness(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermStaffManage, logger))
			h.Staff.RegisterBusiness(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermCatalogManage, logger))
			h.Catalog.RegisterBusiness(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermCustomersManage, logger))
			h.Customers.RegisterBusiness(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermReportsRead, logger))
			h.Reports.RegisterReports(r)
		})
	})

	// Cashier register.
	r.Route("/api/pos", func(r chi.Router) {
		r.Use(requireAuth)
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermSalesCreate, logger))
			h.Sales.RegisterCreate(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermSalesRead, logger))
			h.Sales.RegisterRead(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermSalesVoid, logger))
			h.Sales.RegisterVoid(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermCatalogRead, logger))
			h.Catalog.RegisterRead(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermCustomersManage, logger))
			h.Customers.RegisterPOS(r)
		})
	})

	// Maintenance desk. Catalog and customer reads ride along so the desk
	// can look up units and owners while booking contracts.
	r.Route("/api/maintenance", func(r chi.Router) {
		r.Use(requireAuth)
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermContractsRead, logger))
			h.Maintenance.RegisterContractRead(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermContractsManage, logger))
			h.Maintenance.RegisterContractManage(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermVisitsManage, logger))
			h.Maintenance.RegisterVisitManage(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermCatalogRead, logger))
			h.Catalog.RegisterRead(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermCustomersRead, logger))
			h.Customers.RegisterRead(r)
		})
	})

	// Technician field app: the day's route and visit completion.
	r.Route("/api/technician", func(r chi.Router) {
		r.Use(requireAuth)
		r.Group(func(r chi.Router) {
			r.Use(authz.Require(authz.PermVisitsWork, logger))
			h.Maintenance.RegisterTechnician(r)
		})
	})

	return r
}
