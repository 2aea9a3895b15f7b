package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/event-desk/internal/persistence"
)

// CredentialChecker exposes the credential verification performed at login.
type CredentialChecker interface {
	Authenticate(ctx context.Context, username, password string) (persistence.User, error)
}

// SessionRepository captures the bookkeeping for issued sessions.
type SessionRepository interface {
	Create(session Session) (Session, error)
	Get(token string) (Session, error)
	Update(session Session) (Session, error)
	Revoke(token string, revokedAt time.Time) (Session, error)
	DeleteExpired(reference time.Time) error
}

// AuthService coordinates sign-in flows and session lifecycle on top of the
// user service's plain credential check.
type AuthService struct {
	credentials    CredentialChecker
	sessions       SessionRepository
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(credentials CredentialChecker, sessions SessionRepository, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration) *AuthService {
	return NewAuthServiceWithLogger(credentials, sessions, tokenGenerator, now, sessionTTL, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(credentials CredentialChecker, sessions SessionRepository, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &AuthService{
		credentials:    credentials,
		sessions:       sessions,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login verifies credentials and issues a new session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (result LoginResult, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.credentials == nil {
		err = fmt.Errorf("credential checker not configured")
		return
	}

	username = strings.TrimSpace(username)
	logger := s.loggerWith(ctx, "Login", "username", username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("session_id", result.Session.ID).InfoContext(ctx, "login succeeded")
	}()

	if username == "" || password == "" {
		err = ErrInvalidCredentials
		return
	}

	var user persistence.User
	user, err = s.credentials.Authenticate(ctx, username, password)
	if err != nil {
		return
	}

	session, issueErr := s.issueSession(user.Username, user.Role)
	if issueErr != nil {
		err = issueErr
		return
	}

	result = LoginResult{User: user, Session: session}
	return
}

// GuestLogin issues a session for the synthesized guest identity. No stored
// account backs the guest; the principal exists only for the session's
// lifetime.
func (s *AuthService) GuestLogin(ctx context.Context) (Session, error) {
	if s == nil {
		return Session{}, fmt.Errorf("AuthService is nil")
	}

	logger := s.loggerWith(ctx, "GuestLogin")
	session, err := s.issueSession("guest", persistence.RoleGuest)
	if err != nil {
		logger.ErrorContext(ctx, "guest login failed", "error", err)
		return Session{}, err
	}
	logger.With("session_id", session.ID).InfoContext(ctx, "guest session issued")
	return session, nil
}

func (s *AuthService) issueSession(username string, role persistence.Role) (Session, error) {
	now := s.now()
	id := s.tokenGenerator()
	token := s.tokenGenerator()
	if token == "" {
		token = id
	}

	session := Session{
		ID:        id,
		Username:  username,
		Role:      role,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if s.sessions == nil {
		return session, nil
	}

	if err := s.sessions.DeleteExpired(now); err != nil {
		return Session{}, err
	}
	return s.sessions.Create(session)
}

// Validate verifies that token corresponds to an active session and returns
// its principal.
func (s *AuthService) Validate(ctx context.Context, token string) (Principal, error) {
	if s == nil || s.sessions == nil {
		return Principal{}, fmt.Errorf("session repository not configured")
	}

	session, err := s.activeSession(token)
	if err != nil {
		return Principal{}, err
	}
	return Principal{Username: session.Username, Role: session.Role}, nil
}

// Refresh rotates the session token and extends its validity window.
func (s *AuthService) Refresh(ctx context.Context, token string) (Session, error) {
	if s == nil || s.sessions == nil {
		return Session{}, fmt.Errorf("session repository not configured")
	}

	logger := s.loggerWith(ctx, "Refresh")

	session, err := s.activeSession(token)
	if err != nil {
		logger.InfoContext(ctx, "session refresh rejected", "error_kind", ErrorKind(err))
		return Session{}, err
	}

	now := s.now()
	if rotated := s.tokenGenerator(); rotated != "" {
		session.Token = rotated
	}
	session.ExpiresAt = now.Add(s.sessionTTL)

	updated, err := s.sessions.Update(session)
	if err != nil {
		logger.ErrorContext(ctx, "session refresh failed", "error", err)
		return Session{}, err
	}
	logger.With("session_id", updated.ID).InfoContext(ctx, "session refreshed")
	return updated, nil
}

// Logout revokes the session identified by token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ErrInvalidCredentials
	}

	logger := s.loggerWith(ctx, "Logout")
	if _, err := s.sessions.Revoke(trimmed, s.now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCredentials
		}
		logger.ErrorContext(ctx, "logout failed", "error", err)
		return err
	}

	logger.InfoContext(ctx, "session revoked")
	return s.sessions.DeleteExpired(s.now())
}

func (s *AuthService) activeSession(token string) (Session, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Session{}, ErrInvalidCredentials
	}

	session, err := s.sessions.Get(trimmed)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrUnauthorized
		}
		return Session{}, err
	}

	now := s.now()
	if session.RevokedAt != nil && !session.RevokedAt.IsZero() {
		return Session{}, ErrSessionRevoked
	}
	if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(now) {
		return Session{}, ErrSessionExpired
	}
	return session, nil
}
