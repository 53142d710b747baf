package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

type Config struct {
	Port     string
	LogLevel string

	// Root is the deployment root the data file is resolved against.
	Root        string
	Source      string
	DatabaseURL string
	SQLitePath  string
	Seed        int64

	CORSOrigins     []string
	RateLimitPerMin int
	// TrustProxy keys the rate limit on X-Forwarded-For.
	TrustProxy bool

	MetricsEnabled bool
	MetricsToken   string
}

// Load reads the configuration from the environment. A .env file, if any,
// has already been merged into the environment by the CLI.
func Load() (Config, error) {
	c := Config{
		Port:         getenv("PORT", "4000"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		Root:         getenv("CATALOG_ROOT", "."),
		Source:       strings.ToLower(getenv("CATALOG_SOURCE", SourceFile)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SQLitePath:   os.Getenv("SQLITE_PATH"),
		CORSOrigins:  splitList(getenv("CORS_ORIGINS", "http://localhost:3000")),
		MetricsToken: os.Getenv("METRICS_TOKEN"),
	}

	var errs []error
	var err error

	if c.Seed, err = parseInt64("CATALOG_SEED", 0); err != nil {
		errs = append(errs, err)
	}
	if c.RateLimitPerMin, err = parseInt("RATE_LIMIT_PER_MIN", 0); err != nil {
		errs = append(errs, err)
	} else if c.RateLimitPerMin < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MIN must be >= 0, got %d", c.RateLimitPerMin))
	}
	if c.TrustProxy, err = parseBool("TRUST_PROXY", false); err != nil {
		errs = append(errs, err)
	}
	if c.MetricsEnabled, err = parseBool("METRICS_ENABLED", false); err != nil {
		errs = append(errs, err)
	}

	switch c.Source {
	case SourceFile:
	case SourcePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when CATALOG_SOURCE=postgres"))
		}
	case SourceSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required when CATALOG_SOURCE=sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("CATALOG_SOURCE %q: want file, postgres or sqlite", c.Source))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func parseInt64(k string, def int64) (int64, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func parseBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
