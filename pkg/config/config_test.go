package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := FromEnv(lookupFrom(nil))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:3000", cfg.APIURL)
		assert.Equal(t, 5000*time.Millisecond, cfg.Timeout)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("Overrides", func(t *testing.T) {
		cfg, err := FromEnv(lookupFrom(map[string]string{
			"QUIZ_API_URL":     "https://quiz.example.com/api/",
			"QUIZ_API_TIMEOUT": "1500",
			"LOG_LEVEL":        "debug",
		}))
		require.NoError(t, err)
		assert.Equal(t, "https://quiz.example.com/api", cfg.APIURL)
		assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("DurationTimeout", func(t *testing.T) {
		cfg, err := FromEnv(lookupFrom(map[string]string{"QUIZ_API_TIMEOUT": "2s"}))
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, cfg.Timeout)
	})

	t.Run("InvalidTimeout", func(t *testing.T) {
		for _, v := range []string{"soon", "0", "-5", "-1s"} {
			_, err := FromEnv(lookupFrom(map[string]string{"QUIZ_API_TIMEOUT": v}))
			assert.ErrorIs(t, err, ErrInvalidConfig, v)
		}
	})

	t.Run("RelativeURL", func(t *testing.T) {
		_, err := FromEnv(lookupFrom(map[string]string{"QUIZ_API_URL": "localhost:3000"}))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestRaw_Resolve(t *testing.T) {
	t.Run("FlagOverridesInvalidEnv", func(t *testing.T) {
		raw := RawFromEnv(lookupFrom(map[string]string{"QUIZ_API_TIMEOUT": "soon"}))
		assert.Equal(t, "soon", raw.Timeout)

		raw.Timeout = "250"
		cfg, err := raw.Resolve()
		require.NoError(t, err)
		assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	})

	t.Run("DefaultsResolve", func(t *testing.T) {
		cfg, err := RawFromEnv(lookupFrom(nil)).Resolve()
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("InvalidAfterOverride", func(t *testing.T) {
		raw := RawFromEnv(lookupFrom(nil))
		raw.APIURL = "ftp://quiz.example.com"
		_, err := raw.Resolve()
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestStubFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := StubFromEnv(lookupFrom(nil))
		require.NoError(t, err)
		assert.Equal(t, ":3000", cfg.Addr)
		assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
		assert.Empty(t, cfg.SeedFile)
	})

	t.Run("Origins", func(t *testing.T) {
		cfg, err := StubFromEnv(lookupFrom(map[string]string{
			"STUB_ADDR":            "127.0.0.1:4000",
			"STUB_SEED_FILE":       "db.json",
			"STUB_ALLOWED_ORIGINS": "http://localhost:5173, http://localhost:8080",
		}))
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:4000", cfg.Addr)
		assert.Equal(t, "db.json", cfg.SeedFile)
		assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.AllowedOrigins)
	})

	t.Run("EmptyOrigins", func(t *testing.T) {
		_, err := StubFromEnv(lookupFrom(map[string]string{"STUB_ALLOWED_ORIGINS": " , "}))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
