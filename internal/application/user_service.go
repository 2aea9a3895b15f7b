package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/event-desk/internal/persistence"
)

// DefaultAdminUsername and DefaultAdminPassword identify the account created
// at first run when the user store is empty.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// UserService enforces uniqueness and lifecycle rules for accounts on top of
// the user store.
type UserService struct {
	users  persistence.UserRepository
	logger *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(users persistence.UserRepository) *UserService {
	return NewUserServiceWithLogger(users, nil)
}

// NewUserServiceWithLogger constructs a UserService with a specified logger.
func NewUserServiceWithLogger(users persistence.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: defaultLogger(logger)}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// Authenticate resolves the user registered under username and compares the
// stored password exactly. The comparison is plain text by design of the
// persisted format; there is no hashing, rate limiting, or lockout.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (persistence.User, error) {
	if s == nil || s.users == nil {
		return persistence.User{}, fmt.Errorf("user repository not configured")
	}

	logger := s.loggerWith(ctx, "Authenticate", "username", username)

	user, ok := s.users.Get(username)
	if !ok || user.Password != password {
		logger.InfoContext(ctx, "authentication rejected", "error_kind", ErrorKind(ErrInvalidCredentials))
		return persistence.User{}, ErrInvalidCredentials
	}

	logger.InfoContext(ctx, "authentication succeeded", "role", user.Role)
	return user, nil
}

// Register creates a new account. Registration is refused with
// ErrAlreadyExists when the username is taken; the stored record of the
// original account is left untouched.
func (s *UserService) Register(ctx context.Context, username, password string, role persistence.Role) (persistence.User, error) {
	if s == nil || s.users == nil {
		return persistence.User{}, fmt.Errorf("user repository not configured")
	}
	if role == "" {
		role = persistence.RoleUser
	}

	logger := s.loggerWith(ctx, "Register", "username", username, "role", role)

	vErr := &ValidationError{}
	if strings.TrimSpace(username) == "" {
		vErr.add("username", "username is required")
	}
	if !role.Valid() {
		vErr.add("role", "role must be admin, user, or guest")
	}
	if vErr.HasErrors() {
		logger.InfoContext(ctx, "registration rejected", "error_kind", ErrorKind(vErr))
		return persistence.User{}, vErr
	}

	if s.users.Exists(username) {
		logger.InfoContext(ctx, "registration refused", "error_kind", ErrorKind(ErrAlreadyExists))
		return persistence.User{}, ErrAlreadyExists
	}

	user, err := s.users.Create(username, password, role)
	if err != nil {
		logger.ErrorContext(ctx, "registration failed", "error", err)
		return persistence.User{}, err
	}

	logger.InfoContext(ctx, "user registered")
	return user, nil
}

// Get returns the user registered under username.
func (s *UserService) Get(ctx context.Context, username string) (persistence.User, error) {
	if s == nil || s.users == nil {
		return persistence.User{}, fmt.Errorf("user repository not configured")
	}
	user, ok := s.users.Get(username)
	if !ok {
		return persistence.User{}, ErrNotFound
	}
	return user, nil
}

// All returns the username keyed mapping of every account.
func (s *UserService) All(ctx context.Context) map[string]persistence.User {
	if s == nil || s.users == nil {
		return nil
	}
	return s.users.All()
}

// Update replaces the password and role of an existing account while
// preserving its assigned events. Absent usernames report ErrNotFound.
func (s *UserService) Update(ctx context.Context, username, password string, role persistence.Role) (persistence.User, error) {
	if s == nil || s.users == nil {
		return persistence.User{}, fmt.Errorf("user repository not configured")
	}

	logger := s.loggerWith(ctx, "Update", "username", username)

	existing, ok := s.users.Get(username)
	if !ok {
		logger.InfoContext(ctx, "update refused", "error_kind", ErrorKind(ErrNotFound))
		return persistence.User{}, ErrNotFound
	}

	vErr := &ValidationError{}
	if !role.Valid() {
		vErr.add("role", "role must be admin, user, or guest")
	}
	if vErr.HasErrors() {
		return persistence.User{}, vErr
	}

	updated := persistence.User{
		Username:       username,
		Password:       password,
		Role:           role,
		AssignedEvents: existing.AssignedEvents,
	}

	persisted, err := s.users.Update(updated)
	if err != nil {
		logger.ErrorContext(ctx, "update failed", "error", err)
		return persistence.User{}, err
	}

	logger.InfoContext(ctx, "user updated", "role", role)
	return persisted, nil
}

// Delete removes an account. Absent usernames report false. Deleting a user
// does not cascade into events' assignee lists; stale references remain by
// contract.
func (s *UserService) Delete(ctx context.Context, username string) (bool, error) {
	if s == nil || s.users == nil {
		return false, fmt.Errorf("user repository not configured")
	}

	logger := s.loggerWith(ctx, "Delete", "username", username)

	if !s.users.Exists(username) {
		return false, nil
	}

	deleted, err := s.users.Delete(username)
	if err != nil {
		logger.ErrorContext(ctx, "delete failed", "error", err)
		return false, err
	}

	logger.InfoContext(ctx, "user deleted")
	return deleted, nil
}

// Exists reports whether an account is registered under username.
func (s *UserService) Exists(ctx context.Context, username string) bool {
	if s == nil || s.users == nil {
		return false
	}
	return s.users.Exists(username)
}

// EnsureDefaultAdmin registers the built-in administrator account iff the
// user store is empty. The bootstrap is idempotent across restarts.
func (s *UserService) EnsureDefaultAdmin(ctx context.Context) error {
	if s == nil || s.users == nil {
		return fmt.Errorf("user repository not configured")
	}
	if len(s.users.All()) > 0 {
		return nil
	}

	logger := s.loggerWith(ctx, "EnsureDefaultAdmin")
	if _, err := s.users.Create(DefaultAdminUsername, DefaultAdminPassword, persistence.RoleAdmin); err != nil {
		logger.ErrorContext(ctx, "bootstrap failed", "error", err)
		return err
	}
	logger.InfoContext(ctx, "default admin created", "username", DefaultAdminUsername)
	return nil
}
