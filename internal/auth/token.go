package auth

import (
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/taskflow/internal/store"
)

// Claims are the JWT claims taskflow issues. The subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims

	// Email is the user's email address
	Email string `json:"email"`
}

// UserID returns the authenticated user's ID.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenService issues and validates HMAC-signed access tokens.
type TokenService struct {
	signingKey []byte
	issuer     string
	audience   string
	ttl        time.Duration

	now func() time.Time
}

// NewTokenService creates a token service. A non-positive ttl means one hour.
func NewTokenService(signingKey []byte, issuer, audience string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{
		signingKey: signingKey,
		issuer:     issuer,
		audience:   audience,
		ttl:        ttl,
		now:        time.Now,
	}
}

// TTL returns how long issued tokens stay valid.
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Issue signs a new access token for user.
func (ts *TokenService) Issue(user store.User) (string, time.Time, error) {
	if user.ID == "" {
		return "", time.Time{}, NewError(ErrTokenSigningFailed, "user ID cannot be empty", nil)
	}

	now := ts.now()
	expiresAt := now.Add(ts.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{ts.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Email: user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", time.Time{}, WrapError(ErrTokenSigningFailed, "failed to sign token", err, map[string]any{
			"user_id": user.ID,
		})
	}
	return signed, expiresAt, nil
}

// Validate parses tokenString and checks its signature, signing method,
// issuer, audience and expiry.
func (ts *TokenService) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, NewError(ErrTokenMissing, "token cannot be empty", nil)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(ts.issuer),
		jwt.WithAudience(ts.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return ts.signingKey, nil
	})

	switch {
	case err == nil && token.Valid:
		return claims, nil
	case stderrors.Is(err, jwt.ErrTokenExpired):
		return nil, WrapError(ErrTokenExpired, "token has expired", err, nil)
	case stderrors.Is(err, jwt.ErrTokenMalformed):
		return nil, WrapError(ErrTokenMalformed, "failed to parse token", err, nil)
	case stderrors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, WrapError(ErrTokenInvalid, "invalid token signature", err, nil)
	default:
		return nil, WrapError(ErrTokenInvalid, "invalid token", err, nil)
	}
}
