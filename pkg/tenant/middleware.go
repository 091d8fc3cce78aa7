package tenant

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/assokit/assokit/pkg/logger"
)

// ErrorHandler writes the response for a failed resolution.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	cache         Cache
	cacheTTL      time.Duration
	errorHandler  ErrorHandler
	skipPaths     []string
	requireActive bool
	log           *slog.Logger
}

// Option configures Middleware.
type Option func(*config)

func WithCache(cache Cache) Option {
	return func(c *config) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithCacheTTL sets the lifetime of entries in the default cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) { c.cacheTTL = ttl }
}

func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithSkipPaths lists path prefixes served without resolution.
func WithSkipPaths(paths ...string) Option {
	return func(c *config) { c.skipPaths = append(c.skipPaths, paths...) }
}

// WithRequireActive rejects inactive associations. Enabled by default.
func WithRequireActive(require bool) Option {
	return func(c *config) { c.requireActive = require }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrAssociationNotFound):
		http.Error(w, "Association not found", http.StatusNotFound)
	case errors.Is(err, ErrInactiveAssociation):
		http.Error(w, "Association is inactive", http.StatusForbidden)
	case errors.Is(err, ErrInvalidIdentifier):
		http.Error(w, "Invalid association identifier", http.StatusBadRequest)
	case errors.Is(err, ErrNoAssociationInContext):
		http.Error(w, "Association required", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Middleware resolves the association of each request and stores it in the
// request context. Requests without an identifier pass through unscoped.
func Middleware(resolver Resolver, provider Provider, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		cacheTTL:      5 * time.Minute,
		errorHandler:  defaultErrorHandler,
		requireActive: true,
		log:           slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.cache == nil {
		cfg.cache = NewLRUCache(DefaultCacheSize, cfg.cacheTTL)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			identifier, err := resolver.Resolve(r)
			if err != nil {
				cfg.errorHandler(w, r, errors.Join(ErrInvalidIdentifier, err))
				return
			}
			if identifier == "" {
				next.ServeHTTP(w, r)
				return
			}

			a, ok := cfg.cache.Get(identifier)
			if !ok {
				a, err = provider.GetByIdentifier(r.Context(), identifier)
				if err != nil {
					if !errors.Is(err, ErrAssociationNotFound) {
						cfg.log.ErrorContext(r.Context(), "Failed to load association",
							slog.String("identifier", identifier),
							logger.Error(err),
						)
					}
					cfg.errorHandler(w, r, err)
					return
				}
				cfg.cache.Add(identifier, a)
			}

			if cfg.requireActive && !a.Active {
				cfg.errorHandler(w, r, ErrInactiveAssociation)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAssociation(r.Context(), a)))
		})
	}
}

// RequireAssociation rejects requests whose context carries no association.
func RequireAssociation(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoAssociationInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
