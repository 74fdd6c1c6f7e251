// Package config loads taskflow's YAML configuration.
//
// A missing file yields Defaults. Values from the file override defaults and
// a small set of environment variables override the file, so deployments can
// inject secrets without writing them to disk.
package config

import (
	"time"
)

// Environment variables that override file values.
const (
	EnvJWTKey      = "TASKFLOW_JWT_KEY"
	EnvJWTIssuer   = "TASKFLOW_JWT_ISSUER"
	EnvJWTAudience = "TASKFLOW_JWT_AUDIENCE"
	EnvFrontendURL = "TASKFLOW_FRONTEND_URL"
	EnvAddress     = "TASKFLOW_ADDRESS"
)

// MinSigningKeyBytes is the shortest HMAC key Validate accepts.
const MinSigningKeyBytes = 32

// Config is the complete taskflow configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Store     StoreConfig     `yaml:"store"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// AuthConfig controls token issuance and validation.
type AuthConfig struct {
	SigningKey string        `yaml:"signingKey"`
	Issuer     string        `yaml:"issuer"`
	Audience   string        `yaml:"audience"`
	TokenTTL   time.Duration `yaml:"tokenTTL"`
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// LogConfig selects log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRate  float64 `yaml:"sampleRate"`
	Environment string  `yaml:"environment"`
}

// StoreConfig controls persistence of the in-memory store. An empty
// SnapshotPath keeps all data in memory only.
type StoreConfig struct {
	SnapshotPath     string        `yaml:"snapshotPath"`
	SnapshotInterval time.Duration `yaml:"snapshotInterval"`
}

// Defaults returns the configuration used when no file is present. The
// signing key is empty and must be supplied by the file or TASKFLOW_JWT_KEY.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Auth: AuthConfig{
			Issuer:   "taskflow",
			Audience: "taskflow-clients",
			TokenTTL: 7 * 24 * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			SampleRate:  1.0,
			Environment: "development",
		},
		Store: StoreConfig{
			SnapshotInterval: time.Minute,
		},
	}
}

// Redacted returns a copy safe to print: the signing key is masked.
func (c Config) Redacted() Config {
	out := c
	out.CORS.AllowedOrigins = append([]string(nil), c.CORS.AllowedOrigins...)
	if out.Auth.SigningKey != "" {
		out.Auth.SigningKey = "<redacted>"
	}
	return out
}
