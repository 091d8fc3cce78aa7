// Package tenant resolves the association a request belongs to and carries
// it in the request context.
//
// A Resolver extracts an identifier (header, subdomain or path segment), a
// Provider loads the Association, and Middleware stores it in the context
// after checking that it is active. Lookups are cached in an expirable LRU.
//
//	mw := tenant.Middleware(
//	    tenant.NewCompositeResolver(tenant.NewHeaderResolver(""), tenant.NewSubdomainResolver(".assokit.fr")),
//	    provider,
//	    tenant.WithCacheTTL(time.Minute),
//	)
//
// Downstream code reads the id with IDFromContext.
package tenant
