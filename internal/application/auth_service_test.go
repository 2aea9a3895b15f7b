package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/event-desk/internal/persistence"
	"github.com/example/event-desk/internal/testfixtures"
)

// credentialStub scripts the user service's credential check.
type credentialStub struct {
	user persistence.User
	err  error
}

func (c *credentialStub) Authenticate(ctx context.Context, username, password string) (persistence.User, error) {
	if c.err != nil {
		return persistence.User{}, c.err
	}
	return c.user, nil
}

// sessionRepoStub implements SessionRepository over a token keyed map.
type sessionRepoStub struct {
	sessions  map[string]Session
	createErr error
}

func newSessionRepoStub() *sessionRepoStub {
	return &sessionRepoStub{sessions: make(map[string]Session)}
}

func (s *sessionRepoStub) Create(session Session) (Session, error) {
	if s.createErr != nil {
		return Session{}, s.createErr
	}
	s.sessions[session.Token] = session
	return session, nil
}

func (s *sessionRepoStub) Get(token string) (Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (s *sessionRepoStub) Update(session Session) (Session, error) {
	for token, existing := range s.sessions {
		if existing.ID == session.ID {
			delete(s.sessions, token)
		}
	}
	s.sessions[session.Token] = session
	return session, nil
}

func (s *sessionRepoStub) Revoke(token string, revokedAt time.Time) (Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	session.RevokedAt = &revokedAt
	s.sessions[token] = session
	return session, nil
}

func (s *sessionRepoStub) DeleteExpired(reference time.Time) error { return nil }

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	t.Run("issues sessions for valid credentials", func(t *testing.T) {
		t.Parallel()

		now := testfixtures.ReferenceTime()
		clock := testfixtures.NewClock(now)
		creds := &credentialStub{user: persistence.User{Username: "alice", Role: persistence.RoleAdmin}}
		repo := newSessionRepoStub()
		tokens := testfixtures.NewTokenGenerator("tok")

		svc := NewAuthService(creds, repo, tokens.NextFunc(), clock.NowFunc(), time.Hour)

		result, err := svc.Login(context.Background(), "alice", "pw")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if result.Session.Username != "alice" || result.Session.Role != persistence.RoleAdmin {
			t.Fatalf("unexpected session: %#v", result.Session)
		}
		if !result.Session.ExpiresAt.Equal(now.Add(time.Hour)) {
			t.Fatalf("unexpected expiry: %v", result.Session.ExpiresAt)
		}
		if _, err := repo.Get(result.Session.Token); err != nil {
			t.Fatalf("session was not persisted: %v", err)
		}
	})

	t.Run("empty input is rejected before the credential check", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(&credentialStub{err: errors.New("must not be called")}, newSessionRepoStub(), nil, nil, time.Hour)
		if _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("credential failures propagate", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(&credentialStub{err: ErrInvalidCredentials}, newSessionRepoStub(), nil, nil, time.Hour)
		if _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("session persistence failures propagate", func(t *testing.T) {
		t.Parallel()

		expected := errors.New("boom")
		repo := newSessionRepoStub()
		repo.createErr = expected
		svc := NewAuthService(&credentialStub{user: persistence.User{Username: "alice"}}, repo, testfixtures.NewTokenGenerator("").NextFunc(), nil, time.Hour)

		if _, err := svc.Login(context.Background(), "alice", "pw"); !errors.Is(err, expected) {
			t.Fatalf("expected %v, got %v", expected, err)
		}
	})
}

func TestAuthService_GuestLogin(t *testing.T) {
	t.Parallel()

	repo := newSessionRepoStub()
	svc := NewAuthService(nil, repo, testfixtures.NewTokenGenerator("guest").NextFunc(), nil, time.Hour)

	session, err := svc.GuestLogin(context.Background())
	if err != nil {
		t.Fatalf("GuestLogin failed: %v", err)
	}
	if session.Role != persistence.RoleGuest || session.Username != "guest" {
		t.Fatalf("unexpected guest session: %#v", session)
	}

	principal, err := svc.Validate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !principal.IsGuest() {
		t.Fatalf("expected guest principal, got %#v", principal)
	}
}

func TestAuthService_Validate(t *testing.T) {
	t.Parallel()

	now := testfixtures.ReferenceTime()

	seed := func(repo *sessionRepoStub, session Session) {
		repo.sessions[session.Token] = session
	}

	t.Run("active sessions resolve to their principal", func(t *testing.T) {
		t.Parallel()

		repo := newSessionRepoStub()
		seed(repo, Session{ID: "s1", Username: "alice", Role: persistence.RoleUser, Token: "tok", ExpiresAt: now.Add(time.Hour)})
		svc := NewAuthService(nil, repo, nil, func() time.Time { return now }, time.Hour)

		principal, err := svc.Validate(context.Background(), "tok")
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if principal.Username != "alice" || principal.Role != persistence.RoleUser {
			t.Fatalf("unexpected principal: %#v", principal)
		}
	})

	t.Run("expired sessions are rejected", func(t *testing.T) {
		t.Parallel()

		repo := newSessionRepoStub()
		seed(repo, Session{ID: "s1", Username: "alice", Token: "tok", ExpiresAt: now.Add(-time.Minute)})
		svc := NewAuthService(nil, repo, nil, func() time.Time { return now }, time.Hour)

		if _, err := svc.Validate(context.Background(), "tok"); !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
	})

	t.Run("revoked sessions are rejected", func(t *testing.T) {
		t.Parallel()

		revokedAt := now.Add(-time.Minute)
		repo := newSessionRepoStub()
		seed(repo, Session{ID: "s1", Username: "alice", Token: "tok", ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt})
		svc := NewAuthService(nil, repo, nil, func() time.Time { return now }, time.Hour)

		if _, err := svc.Validate(context.Background(), "tok"); !errors.Is(err, ErrSessionRevoked) {
			t.Fatalf("expected ErrSessionRevoked, got %v", err)
		}
	})

	t.Run("unknown tokens are unauthorized", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(nil, newSessionRepoStub(), nil, func() time.Time { return now }, time.Hour)
		if _, err := svc.Validate(context.Background(), "missing"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Parallel()

	now := testfixtures.ReferenceTime()
	repo := newSessionRepoStub()
	repo.sessions["old"] = Session{ID: "s1", Username: "alice", Token: "old", ExpiresAt: now.Add(time.Minute)}

	tokens := testfixtures.NewTokenGenerator("rotated")
	svc := NewAuthService(nil, repo, tokens.NextFunc(), func() time.Time { return now }, 2*time.Hour)

	session, err := svc.Refresh(context.Background(), "old")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if session.Token == "old" {
		t.Fatal("expected the token to rotate")
	}
	if !session.ExpiresAt.Equal(now.Add(2 * time.Hour)) {
		t.Fatalf("expected extended expiry, got %v", session.ExpiresAt)
	}
	if _, err := repo.Get("old"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected old token to be dropped, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()

	now := testfixtures.ReferenceTime()
	repo := newSessionRepoStub()
	repo.sessions["tok"] = Session{ID: "s1", Username: "alice", Token: "tok", ExpiresAt: now.Add(time.Hour)}
	svc := NewAuthService(nil, repo, nil, func() time.Time { return now }, time.Hour)

	if err := svc.Logout(context.Background(), "tok"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := svc.Validate(context.Background(), "tok"); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked after logout, got %v", err)
	}

	if err := svc.Logout(context.Background(), "unknown"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown token, got %v", err)
	}
}
