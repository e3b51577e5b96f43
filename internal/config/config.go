package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv     string `env:"APP_ENV" env-default:"dev"`
	Client     ClientConfig
	CLI        CLIConfig
	DevBackend DevBackendConfig
}

// ClientConfig configures the API client and the repositories built on top of it.
type ClientConfig struct {
	BaseURL        string        `env:"API_BASE_URL" env-default:"http://localhost:8000/v1"`
	LoginURL       string        `env:"LOGIN_URL" env-default:"/login"`
	CSRFCookieName string        `env:"CSRF_COOKIE_NAME" env-default:"csrftoken"`
	CSRFHeaderName string        `env:"CSRF_HEADER_NAME" env-default:"X-CSRFToken"`
	Timeout        time.Duration `env:"API_TIMEOUT" env-default:"30s"`

	// Users queried when a comparison finds nothing for both requested users.
	// Empty disables the fallback.
	FallbackUserIDs []int `env:"ANNOTATION_FALLBACK_USER_IDS" env-default:"1,38" env-separator:","`
	// Return empty annotation lists instead of failing.
	DegradeOnError bool `env:"ANNOTATION_DEGRADE_ON_ERROR" env-default:"false"`
}

// CLIConfig holds the credentials the annotator CLI logs in with.
type CLIConfig struct {
	Username string `env:"ANNOTATOR_USERNAME"`
	Password string `env:"ANNOTATOR_PASSWORD"`
	// Relative --out paths and default export names resolve here.
	ExportDir string `env:"ANNOTATOR_EXPORT_DIR" env-default:"."`
}

// DevBackendConfig configures the in-memory development backend.
type DevBackendConfig struct {
	HTTPAddr      string        `env:"DEV_HTTP_ADDR" env-default:":8000"`
	SessionSecret string        `env:"DEV_SESSION_SECRET"`
	SessionTTL    time.Duration `env:"DEV_SESSION_TTL" env-default:"12h"`
	BcryptCost    int           `env:"DEV_BCRYPT_COST" env-default:"10"`
	AllowOrigins  []string      `env:"DEV_ALLOW_ORIGINS" env-default:"http://localhost:3000" env-separator:","`
	AdminUsername string        `env:"DEV_ADMIN_USERNAME" env-default:"admin"`
	AdminPassword string        `env:"DEV_ADMIN_PASSWORD" env-default:"password"`
	HistoryDelay  time.Duration `env:"DEV_HISTORY_DELAY" env-default:"2s"`
}

// IsProduction reports whether APP_ENV is "prod".
func (c *Config) IsProduction() bool {
	return c.AppEnv == PROD_STRING
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}

	if cfg.Client.Timeout <= 0 {
		return nil, fmt.Errorf("API_TIMEOUT must be positive, got %s", cfg.Client.Timeout)
	}

	return &cfg, nil
}

// ValidateDevBackend checks the settings only the dev backend needs.
func (c *Config) ValidateDevBackend() error {
	// Session secret is required for signing session cookies
	if c.DevBackend.SessionSecret == "" {
		return fmt.Errorf("DEV_SESSION_SECRET is required")
	}

	if c.IsProduction() && c.DevBackend.AdminPassword == "password" {
		return fmt.Errorf("DEV_ADMIN_PASSWORD must be changed when APP_ENV=%s", PROD_STRING)
	}

	if c.DevBackend.BcryptCost < 4 || c.DevBackend.BcryptCost > 31 {
		return fmt.Errorf("invalid DEV_BCRYPT_COST: %d", c.DevBackend.BcryptCost)
	}

	if c.DevBackend.HistoryDelay < 0 {
		return fmt.Errorf("DEV_HISTORY_DELAY must not be negative, got %s", c.DevBackend.HistoryDelay)
	}

	return nil
}

// ValidateCLI checks the credentials the annotator CLI needs.
func (c *Config) ValidateCLI() error {
	if c.CLI.Username == "" || c.CLI.Password == "" {
		return fmt.Errorf("ANNOTATOR_USERNAME and ANNOTATOR_PASSWORD are required")
	}
	return nil
}
