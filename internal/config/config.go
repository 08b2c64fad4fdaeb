package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	LogLevel               string
	LogFormat              string
	DatabaseURL            string
	AutoMigrate            bool
	RedisURL               string
	NATSURL                string
	EventsChannel          string
	JWTSecret              string
	JWTTTL                 time.Duration
	StatisticsCacheTTL     time.Duration
	CompaniesCacheTTL      time.Duration
	AdminUsername          string
	AdminEmail             string
	AdminPassword          string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	UploadMaxMB            int
	LoginRateLimitMax      int
	LoginRateLimitWindow   time.Duration
	CORSAllowOrigins       string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PORTAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Placement Portal API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("events.channel", "portal")
	v.SetDefault("jwt.ttl", "720h")
	v.SetDefault("cache.statistics_ttl", "5m")
	v.SetDefault("cache.companies_ttl", "10m")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.email", "placements@college.edu")
	v.SetDefault("cloudinary.folder", "placement/resumes")
	v.SetDefault("upload.max_mb", 5)
	v.SetDefault("ratelimit.login_max", 10)
	v.SetDefault("ratelimit.login_window", "1m")
	v.SetDefault("cors.allow_origins", "*")

	jwtTTL, err := duration(v, "jwt.ttl")
	if err != nil {
		return Config{}, err
	}
	statsTTL, err := duration(v, "cache.statistics_ttl")
	if err != nil {
		return Config{}, err
	}
	companiesTTL, err := duration(v, "cache.companies_ttl")
	if err != nil {
		return Config{}, err
	}
	loginWindow, err := duration(v, "ratelimit.login_window")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		LogLevel:               v.GetString("log.level"),
		LogFormat:              v.GetString("log.format"),
		DatabaseURL:            v.GetString("database.url"),
		AutoMigrate:            v.GetBool("database.auto_migrate"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		EventsChannel:          v.GetString("events.channel"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTTTL:                 jwtTTL,
		StatisticsCacheTTL:     statsTTL,
		CompaniesCacheTTL:      companiesTTL,
		AdminUsername:          strings.ToLower(strings.TrimSpace(v.GetString("admin.username"))),
		AdminEmail:             v.GetString("admin.email"),
		AdminPassword:          v.GetString("admin.password"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		UploadMaxMB:            v.GetInt("upload.max_mb"),
		LoginRateLimitMax:      v.GetInt("ratelimit.login_max"),
		LoginRateLimitWindow:   loginWindow,
		CORSAllowOrigins:       v.GetString("cors.allow_origins"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 5
	}

	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return parsed, nil
}
