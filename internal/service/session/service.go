package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"vibestation/internal/config"
	"vibestation/internal/domain"
	"vibestation/internal/logging"
	"vibestation/internal/repository/record"
)

var (
	// ErrInvalidCredentials is returned when user/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginDisabled is returned when no admin password is configured.
	ErrLoginDisabled = errors.New("login disabled")
)

const activeFlag = "true"

// Service toggles the launcher's single session flag. The flag is global to
// the store, not per client, so it gates the UI rather than securing it.
type Service struct {
	store  record.Repository
	user   string
	hash   []byte
	logger *zap.Logger
}

// New builds a Service from the admin config. A plain password is hashed once
// here; a configured hash takes precedence.
func New(store record.Repository, admin config.AdminConfig, logger *zap.Logger) (*Service, error) {
	s := &Service{
		store:  store,
		user:   strings.TrimSpace(admin.User),
		logger: logging.OrNop(logger),
	}

	switch {
	case admin.PasswordHash != "":
		if _, err := bcrypt.Cost([]byte(admin.PasswordHash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		s.hash = []byte(admin.PasswordHash)
	case admin.Password != "":
		hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		s.hash = hashed
	default:
		s.logger.Warn("no admin password configured, login disabled")
	}

	return s, nil
}

// Status reports whether the session flag is set.
func (s *Service) Status(ctx context.Context) (bool, error) {
	v, err := s.store.Load(ctx, record.KeySession)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == activeFlag, nil
}

// Login sets the session flag when user and password match.
func (s *Service) Login(ctx context.Context, user, password string) error {
	if s.hash == nil {
		return ErrLoginDisabled
	}

	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(user)), []byte(s.user)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.hash, []byte(password))
	if !userOK || passErr != nil {
		s.logger.Info("login rejected", zap.String("user", user))
		return ErrInvalidCredentials
	}

	if err := s.store.Save(ctx, record.KeySession, activeFlag); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.logger.Info("session started", zap.String("user", s.user))
	return nil
}

// Logout clears the session flag.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, record.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Info("session ended")
	return nil
}
