package rbac

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/assokit/assokit/pkg/logger"
	"github.com/assokit/assokit/pkg/permission"
	"github.com/assokit/assokit/pkg/tenant"
)

// Authorizer resolves effective permissions. *Engine implements it.
type Authorizer interface {
	GetEffectivePermissions(ctx context.Context, associationID, memberID string) (PermissionSet, error)
}

// IdentityFunc extracts the association and member ids from a request.
type IdentityFunc func(r *http.Request) (associationID, memberID string, ok bool)

// ContextIdentity reads the association from tenant.IDFromContext and the
// member from MemberIDFromContext.
func ContextIdentity(r *http.Request) (string, string, bool) {
	associationID, ok := tenant.IDFromContext(r.Context())
	if !ok {
		return "", "", false
	}
	memberID, ok := MemberIDFromContext(r.Context())
	if !ok {
		return "", "", false
	}
	return associationID, memberID, true
}

// Guard builds HTTP middleware that authorizes requests against the engine.
//
// Requests without an identity get 401, denied requests 403 and resolution
// failures 500. A member unknown to the association is denied.
type Guard struct {
	Authorizer Authorizer
	Logger     *slog.Logger
	Metrics    *Metrics
	// Resolve defaults to ContextIdentity.
	Resolve IdentityFunc
}

// RequirePermission allows members holding id.
func (g Guard) RequirePermission(id permission.ID) func(http.Handler) http.Handler {
	return g.require(string(id), func(set PermissionSet) bool { return set.Has(id) })
}

// RequireAny allows members holding at least one of ids.
func (g Guard) RequireAny(ids ...permission.ID) func(http.Handler) http.Handler {
	return g.require("any", func(set PermissionSet) bool { return set.HasAny(ids...) })
}

// RequireAll allows members holding every id.
func (g Guard) RequireAll(ids ...permission.ID) func(http.Handler) http.Handler {
	return g.require("all", func(set PermissionSet) bool { return set.HasAll(ids...) })
}

// RequireCapability allows members for which c holds.
func (g Guard) RequireCapability(c Capability) func(http.Handler) http.Handler {
	return g.require(c.Name, c.Allows)
}

func (g Guard) require(rule string, allow func(PermissionSet) bool) func(http.Handler) http.Handler {
	resolve := g.Resolve
	if resolve == nil {
		resolve = ContextIdentity
	}
	log := g.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			associationID, memberID, ok := resolve(r)
			if !ok {
				g.Metrics.observeDecision(decisionDeny)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			set, err := g.Authorizer.GetEffectivePermissions(ctx, associationID, memberID)
			switch {
			case err == nil:
			case errors.Is(err, ErrNotFound):
				set = nil
			default:
				g.Metrics.observeDecision(decisionError)
				log.ErrorContext(ctx, "Failed to resolve permissions",
					logger.AssociationID(associationID),
					logger.MemberID(memberID),
					logger.Error(err),
				)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if set == nil || !allow(set) {
				g.Metrics.observeDecision(decisionDeny)
				log.InfoContext(ctx, "Access denied",
					logger.AssociationID(associationID),
					logger.MemberID(memberID),
					slog.String("rule", rule),
				)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			g.Metrics.observeDecision(decisionAllow)
			next.ServeHTTP(w, r)
		})
	}
}
