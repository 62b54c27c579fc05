// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL   = "http://localhost:3000"
	DefaultTimeout  = 5000 * time.Millisecond
	DefaultStubAddr = ":3000"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is what the quiz data client needs to reach the API.
type Config struct {
	APIURL   string
	Timeout  time.Duration
	LogLevel string
}

// Default returns the reference deployment settings.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		Timeout:  DefaultTimeout,
		LogLevel: "info",
	}
}

// Validate reports whether the base address is an absolute http(s) URL and
// the timeout is positive.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("%w: api url %q: %v", ErrInvalidConfig, c.APIURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api url %q must be absolute http(s)", ErrInvalidConfig, c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, c.Timeout)
	}
	return nil
}

// StubConfig configures the in-memory development API.
type StubConfig struct {
	Addr           string
	SeedFile       string
	AllowedOrigins []string
	LogLevel       string
}

// Raw holds settings as read, before parsing or validation, so a caller can
// layer flags over the environment and resolve once.
type Raw struct {
	APIURL   string
	Timeout  string
	LogLevel string
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	return LoadRaw().Resolve()
}

// LoadRaw reads an optional .env file and the environment without validating.
func LoadRaw() Raw {
	loadDotEnv()
	return RawFromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function, starting from Default.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	return RawFromEnv(lookup).Resolve()
}

// RawFromEnv starts from Default and applies every non-empty variable.
func RawFromEnv(lookup func(string) (string, bool)) Raw {
	def := Default()
	raw := Raw{
		APIURL:   def.APIURL,
		Timeout:  strconv.FormatInt(def.Timeout.Milliseconds(), 10),
		LogLevel: def.LogLevel,
	}
	if v, ok := lookup("QUIZ_API_URL"); ok && v != "" {
		raw.APIURL = v
	}
	if v, ok := lookup("QUIZ_API_TIMEOUT"); ok && v != "" {
		raw.Timeout = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		raw.LogLevel = v
	}
	return raw
}

// Resolve parses the timeout and validates the result.
func (r Raw) Resolve() (Config, error) {
	timeout, err := ParseTimeout(strings.TrimSpace(r.Timeout))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		APIURL:   strings.TrimRight(r.APIURL, "/"),
		Timeout:  timeout,
		LogLevel: r.LogLevel,
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = Default().LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadStub reads the stub server settings.
func LoadStub() (StubConfig, error) {
	loadDotEnv()
	return StubFromEnv(os.LookupEnv)
}

func StubFromEnv(lookup func(string) (string, bool)) (StubConfig, error) {
	cfg := StubConfig{
		Addr:           DefaultStubAddr,
		AllowedOrigins: []string{"*"},
		LogLevel:       "info",
	}
	if v, ok := lookup("STUB_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("STUB_SEED_FILE"); ok {
		cfg.SeedFile = v
	}
	if v, ok := lookup("STUB_ALLOWED_ORIGINS"); ok && v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			return StubConfig{}, fmt.Errorf("%w: STUB_ALLOWED_ORIGINS has no origins", ErrInvalidConfig)
		}
		cfg.AllowedOrigins = origins
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// ParseTimeout accepts a Go duration ("5s", "1500ms") or bare milliseconds ("5000").
func ParseTimeout(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("%w: timeout %q must be positive", ErrInvalidConfig, v)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout %q: %v", ErrInvalidConfig, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout %q must be positive", ErrInvalidConfig, v)
	}
	return d, nil
}

func loadDotEnv() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
}
