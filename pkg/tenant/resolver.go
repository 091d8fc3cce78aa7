package tenant

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Resolver extracts the association identifier from a request.
// An empty identifier with a nil error means the request is not scoped.
type Resolver interface {
	Resolve(r *http.Request) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(r *http.Request) (string, error)

func (f ResolverFunc) Resolve(r *http.Request) (string, error) {
	return f(r)
}

// DefaultHeader carries the association id when HeaderResolver is built with an empty name.
const DefaultHeader = "X-Association-ID"

// HeaderResolver reads the identifier from a request header.
type HeaderResolver struct {
	HeaderName string
}

func NewHeaderResolver(headerName string) *HeaderResolver {
	if headerName == "" {
		headerName = DefaultHeader
	}
	return &HeaderResolver{HeaderName: headerName}
}

func (r *HeaderResolver) Resolve(req *http.Request) (string, error) {
	return strings.TrimSpace(req.Header.Get(r.HeaderName)), nil
}

// SubdomainResolver reads the association slug from the host, e.g. "rugby"
// from "rugby.assokit.fr" with Suffix ".assokit.fr". The base domain and a
// leading "www" are not associations.
type SubdomainResolver struct {
	Suffix string
}

func NewSubdomainResolver(suffix string) *SubdomainResolver {
	return &SubdomainResolver{Suffix: suffix}
}

func (r *SubdomainResolver) Resolve(req *http.Request) (string, error) {
	host := req.Host
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	host = strings.ToLower(host)

	if r.Suffix != "" {
		suffix := strings.ToLower(r.Suffix)
		if !strings.HasSuffix(host, suffix) || len(host) == len(suffix) {
			return "", nil
		}
		host = strings.TrimSuffix(host, suffix)
	} else if strings.Count(host, ".") < 2 {
		return "", nil
	}

	parts := strings.Split(host, ".")
	if parts[0] == "www" {
		parts = parts[1:]
	}
	if len(parts) == 0 || parts[0] == "" {
		return "", nil
	}
	return parts[0], nil
}

// PathResolver reads the identifier from a 1-based path segment, e.g.
// Position 2 for /associations/{id}/roles.
type PathResolver struct {
	Position int
}

func NewPathResolver(position int) *PathResolver {
	return &PathResolver{Position: position}
}

func (r *PathResolver) Resolve(req *http.Request) (string, error) {
	if r.Position < 1 {
		return "", fmt.Errorf("%w: path position %d", ErrInvalidIdentifier, r.Position)
	}

	path := strings.Trim(req.URL.Path, "/")
	if path == "" {
		return "", nil
	}
	parts := strings.Split(path, "/")
	if r.Position > len(parts) {
		return "", nil
	}
	return parts[r.Position-1], nil
}

// CompositeResolver returns the first non-empty identifier of its resolvers.
type CompositeResolver struct {
	Resolvers []Resolver
}

func NewCompositeResolver(resolvers ...Resolver) *CompositeResolver {
	return &CompositeResolver{Resolvers: resolvers}
}

func (c *CompositeResolver) Resolve(r *http.Request) (string, error) {
	var errs []error
	for _, resolver := range c.Resolvers {
		id, err := resolver.Resolve(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if id != "" {
			return id, nil
		}
	}
	return "", errors.Join(errs...)
}
