package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assokit/assokit/pkg/orgchart"
	"github.com/assokit/assokit/pkg/rbac"
)

// DefaultMemberHeader carries the caller's member id.
const DefaultMemberHeader = "X-Member-ID"

// Handler serves the rbac management API.
type Handler struct {
	engine *rbac.Engine
	chart  *orgchart.Manager
	guard  rbac.Guard
	log    *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithMetrics records guard decisions.
func WithMetrics(m *rbac.Metrics) Option {
	return func(h *Handler) { h.guard.Metrics = m }
}

// New panics if engine or chart is nil.
func New(engine *rbac.Engine, chart *orgchart.Manager, opts ...Option) *Handler {
	if engine == nil {
		panic("httpapi: engine is required")
	}
	if chart == nil {
		panic("httpapi: org chart manager is required")
	}
	h := &Handler{
		engine: engine,
		chart:  chart,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.guard.Authorizer = engine
	h.guard.Logger = h.log
	return h
}

// MountRoutes registers every route on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/me/permissions", h.myPermissions)
	r.Post("/admin/transfer", h.transferAdmin)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireCapability(rbac.CanViewMembers))
		r.Get("/roles", h.listRoles)
		r.Get("/roles/{roleID}", h.getRole)
		r.Get("/members", h.listMembers)
		r.Get("/members/{memberID}", h.getMember)
		r.Get("/completeness", h.completeness)
		r.Get("/orgchart", h.listTitles)
		r.Get("/orgchart/{titleID}", h.getTitle)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireCapability(rbac.CanManageRoles))
		r.Post("/roles", h.createRole)
		r.Put("/roles/{roleID}", h.updateRole)
		r.Delete("/roles/{roleID}", h.deleteRole)
		r.Put("/members/{memberID}/roles", h.assignRoles)
		r.Delete("/members/{memberID}/roles/{roleID}", h.removeRole)
		r.Put("/members/{memberID}/permissions/{permissionID}", h.overridePermission)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireCapability(rbac.CanManageMembers))
		r.Post("/members", h.addMember)
		r.Put("/members/{memberID}/status", h.changeStatus)
		r.Post("/orgchart", h.createTitle)
		r.Put("/orgchart/{titleID}", h.updateTitle)
		r.Delete("/orgchart/{titleID}", h.deleteTitle)
		r.Put("/orgchart/{titleID}/assignee", h.assignTitle)
		r.Delete("/orgchart/{titleID}/assignee", h.unassignTitle)
	})
}

// Router returns a chi router with the API mounted at its root.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

// MemberFromHeader stores the value of header as the caller's member id.
func MemberFromHeader(header string) func(http.Handler) http.Handler {
	if header == "" {
		header = DefaultMemberHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := r.Header.Get(header); id != "" {
				r = r.WithContext(rbac.WithMember(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}
