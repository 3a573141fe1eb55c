package config

import "time"

// ProfileSync selects how local profile edits reach the user service.
type ProfileSync string

const (
	// ProfileSyncLocal keeps edits as a local draft until an explicit save.
	ProfileSyncLocal ProfileSync = "local"
	// ProfileSyncWriteThrough sends every edit to the user service immediately.
	ProfileSyncWriteThrough ProfileSync = "write_through"
)

// Valid reports whether p names a known policy.
func (p ProfileSync) Valid() bool {
	return p == ProfileSyncLocal || p == ProfileSyncWriteThrough
}

// Config holds client and demo backend configuration values.
type Config struct {
	UserServiceURL    string        `mapstructure:"user_service_url" yaml:"user_service_url"`
	RoomServiceURL    string        `mapstructure:"room_service_url" yaml:"room_service_url"`
	ContentServiceURL string        `mapstructure:"content_service_url" yaml:"content_service_url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	StatePath         string        `mapstructure:"state_path" yaml:"state_path"`
	OfflineFallback   bool          `mapstructure:"offline_fallback" yaml:"offline_fallback"`
	ProfileSync       ProfileSync   `mapstructure:"profile_sync" yaml:"profile_sync"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// Demo backend.
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	JWTSecret         string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer         string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTTTL            time.Duration `mapstructure:"jwt_ttl" yaml:"jwt_ttl"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	RateLimitPerMin   int           `mapstructure:"rate_limit_per_min" yaml:"rate_limit_per_min"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		UserServiceURL:    "http://localhost:8081/api",
		RoomServiceURL:    "http://localhost:8082/api",
		ContentServiceURL: "http://localhost:8083/api",
		RequestTimeout:    5 * time.Second,
		StatePath:         "skillhub-state.db",
		OfflineFallback:   true,
		ProfileSync:       ProfileSyncLocal,
		LogLevel:          "info",

		Addr:              ":8081",
		DatabasePath:      "skillhub-demo.db",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		JWTSecret:         "change-me",
		JWTIssuer:         "skillhub-demo",
		JWTTTL:            24 * time.Hour,
		AllowedOrigins:    []string{"*"},
		RateLimitPerMin:   600,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
// Booleans cannot be told apart from their zero value and are left alone.
func (c *Config) UpdateFrom(other Config) {
	if other.UserServiceURL != "" {
		c.UserServiceURL = other.UserServiceURL
	}
	if other.RoomServiceURL != "" {
		c.RoomServiceURL = other.RoomServiceURL
	}
	if other.ContentServiceURL != "" {
		c.ContentServiceURL = other.ContentServiceURL
	}
	if other.RequestTimeout != 0 {
		c.RequestTimeout = other.RequestTimeout
	}
	if other.StatePath != "" {
		c.StatePath = other.StatePath
	}
	if other.ProfileSync != "" {
		c.ProfileSync = other.ProfileSync
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.JWTSecret != "" {
		c.JWTSecret = other.JWTSecret
	}
	if other.JWTIssuer != "" {
		c.JWTIssuer = other.JWTIssuer
	}
	if other.JWTTTL != 0 {
		c.JWTTTL = other.JWTTTL
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.RateLimitPerMin != 0 {
		c.RateLimitPerMin = other.RateLimitPerMin
	}
}
