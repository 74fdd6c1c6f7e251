package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	tferrors "github.com/felixgeelhaar/taskflow/internal/errors"
)

// DefaultPath is the file Load reads when no path is given.
const DefaultPath = "taskflow.yaml"

// Load reads path over Defaults and applies environment overrides. A missing
// file is not an error. The result is not validated.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Defaults()

	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, tferrors.Wrap(tferrors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read config file: %s", path), err)
	default:
		if err := decode(data, &cfg); err != nil {
			return Config{}, tferrors.NewFileUnmarshalError(path, "YAML", err)
		}
	}

	applyEnv(&cfg, lookup)
	return cfg, nil
}

// decode rejects unknown keys so typos surface instead of silently keeping
// defaults.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvJWTKey); ok && v != "" {
		cfg.Auth.SigningKey = v
	}
	if v, ok := lookup(EnvJWTIssuer); ok && v != "" {
		cfg.Auth.Issuer = v
	}
	if v, ok := lookup(EnvJWTAudience); ok && v != "" {
		cfg.Auth.Audience = v
	}
	if v, ok := lookup(EnvAddress); ok && v != "" {
		cfg.Server.Address = v
	}
	if v, ok := lookup(EnvFrontendURL); ok {
		v = strings.TrimRight(strings.TrimSpace(v), "/")
		if v != "" && !slices.Contains(cfg.CORS.AllowedOrigins, v) {
			cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, v)
		}
	}
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
