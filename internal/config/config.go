package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"oneof=debug info warn error"`

	// CatalogSource selects where products come from: "http" or "postgres".
	CatalogSource string        `validate:"oneof=http postgres"`
	CatalogURL    string        `validate:"required,url"`
	DatabaseURL   string        `validate:"required_if=CatalogSource postgres"`
	FetchTimeout  time.Duration `validate:"gt=0"`

	MetricsEnabled bool
	MetricsToken   string `validate:"required_if=MetricsEnabled true"`
	ReloadToken    string

	ChatBaseURL string        `validate:"omitempty,url"`
	ChatToken   string
	ChatTimeout time.Duration `validate:"gt=0"`
}

var validate = validator.New()

// Load reads the optional env files (".env" when none is given) and then the
// process environment. A missing env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	var errs []error

	fetchTimeout, err := time.ParseDuration(get("CATALOG_FETCH_TIMEOUT", "2s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("CATALOG_FETCH_TIMEOUT: %w", err))
	}
	chatTimeout, err := time.ParseDuration(get("CHAT_TIMEOUT", "10s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("CHAT_TIMEOUT: %w", err))
	}
	metricsEnabled, err := strconv.ParseBool(get("METRICS_ENABLED", "false"))
	if err != nil {
		errs = append(errs, fmt.Errorf("METRICS_ENABLED: %w", err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cfg := &Config{
		Port:           get("PORT", "8082"),
		LogLevel:       strings.ToLower(get("LOG_LEVEL", "info")),
		CatalogSource:  strings.ToLower(get("CATALOG_SOURCE", "http")),
		CatalogURL:     get("CATALOG_URL", "https://closet-recruiting-api.azurewebsites.net/api/data"),
		DatabaseURL:    get("DATABASE_URL", ""),
		FetchTimeout:   fetchTimeout,
		MetricsEnabled: metricsEnabled,
		MetricsToken:   get("METRICS_TOKEN", ""),
		ReloadToken:    get("RELOAD_TOKEN", ""),
		ChatBaseURL:    get("CHAT_BASE_URL", ""),
		ChatToken:      get("CHAT_TOKEN", ""),
		ChatTimeout:    chatTimeout,
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
