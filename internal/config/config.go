package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the whole service configuration.
type Config struct {
	Port             string
	AppEnv           string
	JWTSecret        string
	JWTTTL           time.Duration
	DatabaseURL      string
	DatabaseConfig   DatabaseConfig
	TelegramConfig   TelegramConfig
	StorageConfig    StorageConfig
	CloudinaryConfig CloudinaryConfig
	CORSOrigins      []string
	AdminUserIDs     []string
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int32
	MinConns     int32
	QueryTimeout time.Duration
}

// TelegramConfig configures the Telegram Mini App identity provider.
type TelegramConfig struct {
	BotToken   string
	AuthMaxAge time.Duration
}

// StorageConfig selects where uploaded listing images go.
type StorageConfig struct {
	Driver    string // local or cloudinary
	UploadDir string
	URLPrefix string
}

// CloudinaryConfig contains Cloudinary credentials.
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadFolder string
	UploadPreset string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is fine, the environment is used as is.
	_ = godotenv.Load()

	maxConns, err := getInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	minConns, err := getInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, err
	}
	queryTimeout, err := getDuration("DB_QUERY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	jwtTTL, err := getDuration("JWT_TTL", 72*time.Hour)
	if err != nil {
		return nil, err
	}
	authMaxAge, err := getDuration("TELEGRAM_AUTH_MAX_AGE", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	dbConfig := DatabaseConfig{
		Host:         getEnv("PGHOST", "localhost"),
		Port:         getEnv("PGPORT", "5432"),
		User:         getEnv("PGUSER", "terranav"),
		Password:     getEnv("PGPASSWORD", "terranav"),
		Name:         getEnv("PGDATABASE", "terranav"),
		SSLMode:      getEnv("PGSSLMODE", "disable"),
		MaxConns:     int32(maxConns),
		MinConns:     int32(minConns),
		QueryTimeout: queryTimeout,
	}

	// DATABASE_URL wins over the PG* parts
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode)
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AppEnv:         getEnv("APP_ENV", "production"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTTTL:         jwtTTL,
		DatabaseURL:    dbURL,
		DatabaseConfig: dbConfig,
		TelegramConfig: TelegramConfig{
			BotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
			AuthMaxAge: authMaxAge,
		},
		StorageConfig: StorageConfig{
			Driver:    getEnv("STORAGE_DRIVER", "local"),
			UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
			URLPrefix: getEnv("UPLOAD_URL_PREFIX", "/uploads"),
		},
		CloudinaryConfig: CloudinaryConfig{
			CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
			UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "terranav/listings"),
			UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
		},
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
		AdminUserIDs: splitList(getEnv("ADMIN_USER_IDS", "")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	switch c.StorageConfig.Driver {
	case "local":
	case "cloudinary":
		cc := c.CloudinaryConfig
		if cc.CloudName == "" || cc.APIKey == "" || cc.APISecret == "" {
			return errors.New("config: cloudinary storage needs CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageConfig.Driver)
	}
	return nil
}

// IsAdminID reports whether the user id is listed in ADMIN_USER_IDS.
func (c *Config) IsAdminID(userID string) bool {
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// getEnv returns the variable or the default when it is unset.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a duration: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
