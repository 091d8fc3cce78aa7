package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assokit/assokit/pkg/config"
)

type appConfig struct {
	Name    string        `env:"NAME" envDefault:"assokit"`
	Workers int           `env:"WORKERS" envDefault:"4"`
	Strict  bool          `env:"STRICT"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Load[appConfig](config.WithEnvironment(map[string]string{}))
		require.NoError(t, err)
		assert.Equal(t, "assokit", cfg.Name)
		assert.Equal(t, 4, cfg.Workers)
		assert.False(t, cfg.Strict)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("values and prefix", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Load[appConfig](
			config.WithPrefix("ASSOKIT_"),
			config.WithEnvironment(map[string]string{
				"ASSOKIT_NAME":    "bureau",
				"ASSOKIT_WORKERS": "8",
				"ASSOKIT_STRICT":  "true",
				"NAME":            "ignored",
			}),
		)
		require.NoError(t, err)
		assert.Equal(t, "bureau", cfg.Name)
		assert.Equal(t, 8, cfg.Workers)
		assert.True(t, cfg.Strict)
	})

	t.Run("missing required", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load[requiredConfig](config.WithEnvironment(map[string]string{}))
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load[appConfig](config.WithEnvironment(map[string]string{"WORKERS": "many"}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CONFIG_TEST_DATABASE_URL=postgres://localhost/asso\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CONFIG_TEST_DATABASE_URL") })

	cfg, err := config.Load[requiredConfig](
		config.WithPrefix("CONFIG_TEST_"),
		config.WithEnvFiles(filepath.Join(dir, "missing.env"), path),
	)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/asso", cfg.DatabaseURL)
}

func TestMustLoadPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		config.MustLoad[requiredConfig](config.WithEnvironment(map[string]string{}))
	})
}
