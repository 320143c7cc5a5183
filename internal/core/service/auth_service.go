package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cashback-api/cashback-system/internal/core/domain"
	"github.com/cashback-api/cashback-system/internal/core/ports"
	"github.com/cashback-api/cashback-system/internal/metrics"
)

// AuthService implements user provisioning, login and token-owner
// resolution. Hashing and signing are delegated to the hasher and signer.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	signer   ports.TokenSigner
	tokenTTL time.Duration
	logger   zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	signer ports.TokenSigner,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = domain.DefaultTokenLifetime
	}
	return &AuthService{
		users:    users,
		hasher:   hasher,
		signer:   signer,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Register stores a new enabled user with a hashed password.
func (s *AuthService) Register(ctx context.Context, in ports.NewUserInput) (domain.User, error) {
	if in.Username == "" || in.Password == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	user, err := domain.NewUser(in.Username, in.FullName, in.Email, domain.Some(false))
	if err != nil {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("register: %w", err)
	}
	stored, err := domain.NewUserInDB(user, hash)
	if err != nil {
		return domain.User{}, fmt.Errorf("register: %w", err)
	}

	if err := s.users.Create(ctx, stored); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login checks the credentials and returns a bearer token whose payload
// expires tokenTTL from now.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Token, error) {
	if username == "" || password == "" {
		return domain.Token{}, s.loginFailed(username, domain.ErrInvalidCredentials)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Token{}, s.loginFailed(username, domain.ErrInvalidCredentials)
		}
		return domain.Token{}, s.loginFailed(username, fmt.Errorf("login: %w", err))
	}

	if !s.hasher.Verify(user.HashedPassword, password) {
		return domain.Token{}, s.loginFailed(username, domain.ErrInvalidCredentials)
	}
	if !user.Active() {
		return domain.Token{}, s.loginFailed(username, domain.ErrUserDisabled)
	}

	payload, err := domain.NewJWTPayload(user.Username)
	if err != nil {
		return domain.Token{}, s.loginFailed(username, fmt.Errorf("login: %w", err))
	}
	payload.UpdateExpDateAfter(s.tokenTTL)

	access, err := s.signer.Sign(payload)
	if err != nil {
		return domain.Token{}, s.loginFailed(username, fmt.Errorf("login: sign token: %w", err))
	}

	token, err := domain.NewToken(access, domain.TokenTypeBearer)
	if err != nil {
		return domain.Token{}, s.loginFailed(username, fmt.Errorf("login: %w", err))
	}

	metrics.TokensIssuedTotal.Inc()
	s.logger.Info().Str("username", user.Username).Msg("token issued")
	return token, nil
}

// CurrentUser resolves the active user owning accessToken.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (domain.User, error) {
	owner, err := s.signer.Owner(accessToken)
	if err != nil {
		s.logger.Debug().Err(err).Msg("token rejected")
		return domain.User{}, domain.ErrInvalidCredentials
	}

	username, ok := owner.Username().Get()
	if !ok || username == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("current user: %w", err)
	}
	if !user.Active() {
		return domain.User{}, domain.ErrUserDisabled
	}
	return user.User, nil
}

func (s *AuthService) loginFailed(username string, err error) error {
	reason := "error"
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		reason = "invalid_credentials"
	case errors.Is(err, domain.ErrUserDisabled):
		reason = "user_disabled"
	}
	metrics.LoginFailuresTotal.WithLabelValues(reason).Inc()

	evt := s.logger.Warn()
	if reason == "error" {
		evt = s.logger.Error()
	}
	evt.Err(err).Str("username", username).Msg("login failed")
	return err
}
