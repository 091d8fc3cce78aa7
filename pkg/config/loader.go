package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type options struct {
	files       []string
	prefix      string
	environment map[string]string
}

// Option configures Load.
type Option func(*options)

// WithEnvFiles reads the given dotenv files in order. Missing files are skipped.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) { o.files = append(o.files, paths...) }
}

// WithPrefix prepends prefix to every variable name.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvironment parses vars instead of the process environment.
// Dotenv files are not read in that case.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) { o.environment = vars }
}

// Load parses the environment into a new T.
func Load[T any](opts ...Option) (T, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var cfg T
	if o.environment == nil {
		for _, path := range o.files {
			if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return cfg, errors.Join(ErrEnvFile, fmt.Errorf("%s: %w", path, err))
			}
		}
	}

	envOpts := env.Options{Prefix: o.prefix, Environment: o.environment}
	if o.environment == nil {
		envOpts.Environment = env.ToMap(os.Environ())
	}
	if err := env.ParseWithOptions(&cfg, envOpts); err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}
