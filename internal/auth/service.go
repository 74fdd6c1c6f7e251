package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/felixgeelhaar/taskflow/internal/log"
	"github.com/felixgeelhaar/taskflow/internal/metrics"
	"github.com/felixgeelhaar/taskflow/internal/store"
)

// Result is what a successful register or login returns to the client.
type Result struct {
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Service registers users and logs them in.
type Service struct {
	users   store.UserStore
	tokens  *TokenService
	metrics *metrics.Metrics
	logger  *log.Logger
}

// NewService creates an account service. metrics may be nil.
func NewService(users store.UserStore, tokens *TokenService, m *metrics.Metrics, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Service{users: users, tokens: tokens, metrics: m, logger: logger.With("component", "auth")}
}

// Register creates an account and returns a token for it.
func (s *Service) Register(ctx context.Context, email, password string) (*Result, error) {
	res, err := s.register(ctx, email, password)
	s.record("register", err)
	return res, err
}

func (s *Service) register(ctx context.Context, email, password string) (*Result, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, store.User{Email: email, PasswordHash: hash})
	if stderrors.Is(err, store.ErrEmailTaken) {
		return nil, NewError(ErrEmailTaken, "an account with this email already exists", map[string]any{
			"email": email,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login verifies the credentials and returns a fresh token. An unknown email
// and a wrong password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	res, err := s.login(ctx, email, password)
	s.record("login", err)
	return res, err
}

func (s *Service) login(ctx context.Context, email, password string) (*Result, error) {
	invalid := NewError(ErrInvalidCredentials, "invalid email or password", nil)

	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		s.logger.WarnContext(ctx, "login rejected", "user_id", user.ID)
		return nil, invalid
	}

	return s.issue(user)
}

func (s *Service) issue(user store.User) (*Result, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Result{UserID: user.ID, Email: user.Email, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) record(event string, err error) {
	if s.metrics != nil {
		s.metrics.RecordAuth(event, err == nil)
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", WrapError(ErrInvalidEmail, "email address is not valid", err, nil)
	}
	return email, nil
}
