package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"salon_crm_backend/internal/models"
)

// Storage backends.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	Port      string `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	HTTPReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"60s"`

	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"postgres"`
	DBHost         string `envconfig:"DB_HOST" default:"localhost"`
	DBPort         string `envconfig:"DB_PORT" default:"5432"`
	DBUser         string `envconfig:"DB_USER" default:"salon_user"`
	DBPassword     string `envconfig:"DB_PASSWORD" default:"salon_password"`
	DBName         string `envconfig:"DB_NAME" default:"salon_crm_db"`
	DBSSLMode      string `envconfig:"DB_SSLMODE" default:"disable"`
	DBSchemaPath   string `envconfig:"DB_SCHEMA_PATH"`
	DBAutoMigrate  bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:3001"`

	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiration time.Duration `envconfig:"JWT_EXPIRATION" default:"72h"`

	AdminEmail        string `envconfig:"ADMIN_EMAIL"`
	AdminPassword     string `envconfig:"ADMIN_PASSWORD"`
	ReceptionEmail    string `envconfig:"RECEPTION_EMAIL"`
	ReceptionPassword string `envconfig:"RECEPTION_PASSWORD"`

	UploadDir      string `envconfig:"UPLOAD_DIR" default:"public/uploads"`
	UploadMaxBytes int64  `envconfig:"UPLOAD_MAX_BYTES" default:"5242880"`

	Timezone           string `envconfig:"APP_TIMEZONE" default:"Local"`
	ServiceAttribution string `envconfig:"REPORT_SERVICE_ATTRIBUTION" default:"full"`
	ReportMaxDays      int    `envconfig:"REPORT_MAX_DAYS" default:"1830"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must be provided")
	}
	switch c.StorageBackend {
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (want %s or %s)", c.StorageBackend, BackendPostgres, BackendMemory)
	}
	switch models.ServiceAttribution(strings.ToLower(c.ServiceAttribution)) {
	case models.AttributionFull, models.AttributionSplit:
	default:
		return fmt.Errorf("unknown REPORT_SERVICE_ATTRIBUTION %q", c.ServiceAttribution)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.ReportMaxDays <= 0 {
		return errors.New("REPORT_MAX_DAYS must be positive")
	}
	if c.UploadMaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

// Location resolves APP_TIMEZONE.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Attribution returns the configured service attribution mode.
func (c *Config) Attribution() models.ServiceAttribution {
	return models.ServiceAttribution(strings.ToLower(c.ServiceAttribution))
}

// AccountConfig is a login read from the environment.
type AccountConfig struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Accounts returns the configured logins. Entries missing an email or password are disabled.
func (c *Config) Accounts() []AccountConfig {
	candidates := []AccountConfig{
		{Email: c.AdminEmail, Password: c.AdminPassword, Name: "Super Admin", Role: models.RoleSuperAdmin},
		{Email: c.ReceptionEmail, Password: c.ReceptionPassword, Name: "Receptionist", Role: models.RoleReceptionist},
	}
	var accounts []AccountConfig
	for _, cand := range candidates {
		cand.Email = strings.TrimSpace(cand.Email)
		if cand.Email == "" || cand.Password == "" {
			continue
		}
		accounts = append(accounts, cand)
	}
	return accounts
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
