package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/snipurl/snipurl/internal/auth"
	"github.com/snipurl/snipurl/internal/metrics"
	"github.com/snipurl/snipurl/internal/model"
	"github.com/snipurl/snipurl/internal/storage"
)

// UserStore is the persistence the auth service depends on.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// TokenIssuer issues and validates bearer tokens.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
	Validate(token string) (string, error)
}

// AuthService handles registration, login and token resolution.
type AuthService struct {
	store    UserStore
	hasher   *auth.Hasher
	tokens   TokenIssuer
	tokenTTL time.Duration
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService. A non-positive tokenTTL defers
// to the token issuer's default.
func NewAuthService(store UserStore, hasher *auth.Hasher, tokens TokenIssuer, tokenTTL time.Duration, recorder metrics.Recorder, logger *slog.Logger) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store:    store,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		metrics:  recorder,
		logger:   logger,
	}
}

// Register creates a new user.
//
// The existence check and the insert are separate round trips; the unique
// index on email turns a lost race into ErrUserExists as well.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	_, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("%w: lookup user: %v", ErrStorage, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrStorage, err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// Login verifies credentials and issues an access token with sub = email.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.metrics.IncLogin(metrics.LoginFailure)
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("%w: lookup user: %v", ErrStorage, err)
	}

	match, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash unusable",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		s.metrics.IncLogin(metrics.LoginFailure)
		return "", ErrInvalidCredentials
	}
	if !match {
		s.metrics.IncLogin(metrics.LoginFailure)
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLogin(metrics.LoginSuccess)

	return token, nil
}

// ResolveCurrentUser validates token and loads its subject. Every failure,
// including a subject that no longer exists, is ErrUnauthorized.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, token string) (*model.User, error) {
	subject, err := s.tokens.Validate(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.store.GetUserByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: lookup user: %v", ErrStorage, err)
	}

	return user, nil
}
