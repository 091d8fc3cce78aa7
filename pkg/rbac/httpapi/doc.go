// Package httpapi exposes the rbac engine and the org chart as a JSON API
// mounted on a chi router.
//
// Every route runs behind tenant.Middleware, which puts the association in
// the request context, and an identity middleware that stores the caller with
// rbac.WithMember. MemberFromHeader is provided for deployments where an
// authenticating proxy sets the member id; it trusts the header blindly.
//
//	r := chi.NewRouter()
//	r.Use(tenant.Middleware(tenant.NewHeaderResolver(""), provider))
//	r.Use(httpapi.MemberFromHeader(httpapi.DefaultMemberHeader))
//	httpapi.New(engine, chart, httpapi.WithLogger(log)).MountRoutes(r)
package httpapi
