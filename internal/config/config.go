package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type FilesConfig struct {
	UploadDir          string
	MaxPhotoSize       int64
	MaxPhotosPerReport int
}

type GeocodeConfig struct {
	NominatimURL string
	ContactEmail string
	Timeout      time.Duration
}

type ReportsConfig struct {
	DeleteWindow time.Duration
}

type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Files       FilesConfig
	Geocode     GeocodeConfig
	Reports     ReportsConfig
	RateLimit   RateLimitConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("JWT_TTL"),
		},
		Files: FilesConfig{
			UploadDir:          v.GetString("UPLOAD_DIR"),
			MaxPhotoSize:       v.GetInt64("MAX_PHOTO_SIZE"),
			MaxPhotosPerReport: v.GetInt("MAX_PHOTOS_PER_REPORT"),
		},
		Geocode: GeocodeConfig{
			NominatimURL: v.GetString("NOMINATIM_URL"),
			ContactEmail: v.GetString("NOMINATIM_EMAIL"),
			Timeout:      v.GetDuration("GEOCODE_TIMEOUT"),
		},
		Reports: ReportsConfig{
			DeleteWindow: v.GetDuration("DELETE_WINDOW"),
		},
		RateLimit: RateLimitConfig{
			Window:      v.GetDuration("RATE_LIMIT_WINDOW"),
			MaxRequests: v.GetInt("RATE_LIMIT_MAX"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 3001
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.Files.UploadDir == "" {
		cfg.Files.UploadDir = "./uploads"
	}
	if cfg.Files.MaxPhotoSize <= 0 {
		cfg.Files.MaxPhotoSize = 5 * 1024 * 1024
	}
	if cfg.Files.MaxPhotosPerReport <= 0 {
		cfg.Files.MaxPhotosPerReport = 5
	}
	if cfg.Geocode.NominatimURL == "" {
		cfg.Geocode.NominatimURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Geocode.Timeout <= 0 {
		cfg.Geocode.Timeout = 5 * time.Second
	}
	if cfg.Reports.DeleteWindow <= 0 {
		cfg.Reports.DeleteWindow = 24 * time.Hour
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = time.Minute
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		cfg.RateLimit.MaxRequests = 10
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}
