// Package rbac resolves and manages role-based permissions of association members.
//
// Each association owns a Tenant aggregate: a role catalog, its members and a
// single administrator. Permissions come from a closed permission.Catalog.
//
// # Resolution
//
// EffectivePermissions is pure and never fails:
//
//  1. the administrator gets the whole catalog;
//  2. otherwise the permissions of every assigned role are united, ignoring
//     role ids that no longer exist;
//  3. explicit grants are added;
//  4. explicit revokes are removed, whatever granted them.
//
// # Engine
//
// Engine serves reads from an immutable snapshot per association and applies
// mutations under a per-association Locker, with optimistic versioning on
// Store.Commit. Committed changes are published as Event values to an
// EventPublisher, for example a BroadcastPublisher feeding an AuditListener.
//
//	engine := rbac.New(rbac.NewMemoryStore(),
//	    rbac.WithLogger(log),
//	    rbac.WithPublisher(rbac.BroadcastPublisher{Broadcaster: hub}),
//	)
//	ok, err := engine.Can(ctx, associationID, memberID, rbac.CanValidateExpenses)
//
// # HTTP
//
// Guard turns permission checks into net/http middleware:
//
//	guard := rbac.Guard{Authorizer: engine, Logger: log}
//	mux.Handle("/finances", guard.RequireCapability(rbac.CanViewFinances)(handler))
package rbac
