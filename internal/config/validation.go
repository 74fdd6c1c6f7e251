package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/taskflow/internal/log"
)

// ValidationError is one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 1 {
		return ve[0].Error()
	}

	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Error()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

func (ve *ValidationErrors) add(field, format string, args ...any) {
	*ve = append(*ve, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks cfg and returns every problem found, or nil.
func (c Config) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(c.Server.Address) == "" {
		errs.add("server.address", "is required")
	}
	for _, d := range []struct {
		field string
		value time.Duration
	}{
		{"server.readTimeout", c.Server.ReadTimeout},
		{"server.writeTimeout", c.Server.WriteTimeout},
		{"server.idleTimeout", c.Server.IdleTimeout},
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
		{"auth.tokenTTL", c.Auth.TokenTTL},
	} {
		if d.value <= 0 {
			errs.add(d.field, "must be positive, got %s", d.value)
		}
	}

	if len(c.Auth.SigningKey) < MinSigningKeyBytes {
		errs.add("auth.signingKey", "must be at least %d bytes (set it in the file or %s)", MinSigningKeyBytes, EnvJWTKey)
	}
	if c.Auth.Issuer == "" {
		errs.add("auth.issuer", "is required")
	}
	if c.Auth.Audience == "" {
		errs.add("auth.audience", "is required")
	}

	for i, origin := range c.CORS.AllowedOrigins {
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs.add(fmt.Sprintf("cors.allowedOrigins[%d]", i), "%q is not an absolute origin", origin)
		}
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs.add("log.level", "%v", err)
	}
	if _, err := log.ParseFormat(c.Log.Format); err != nil {
		errs.add("log.format", "%v", err)
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		errs.add("telemetry.sampleRate", "must be between 0 and 1, got %g", c.Telemetry.SampleRate)
	}

	if c.Store.SnapshotPath != "" && c.Store.SnapshotInterval <= 0 {
		errs.add("store.snapshotInterval", "must be positive when store.snapshotPath is set, got %s", c.Store.SnapshotInterval)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
