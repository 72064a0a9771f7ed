package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

type stubAuthAPI struct {
	loginFn func(ctx context.Context, creds ports.Credentials) (*ports.LoginResult, error)
}

func (s *stubAuthAPI) Login(ctx context.Context, creds ports.Credentials) (*ports.LoginResult, error) {
	return s.loginFn(ctx, creds)
}

func (s *stubAuthAPI) Profile(context.Context) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthAPI) UpdateProfile(context.Context, ports.ProfileInput) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

// countingRepo wraps a repository and counts successful deletes.
type countingRepo struct {
	ports.SessionRepository
	deletes atomic.Int64
}

func (r *countingRepo) Delete(ctx context.Context, sid string) error {
	err := r.SessionRepository.Delete(ctx, sid)
	if err == nil {
		r.deletes.Add(1)
	}
	return err
}

func okAuth(token, role string) *stubAuthAPI {
	return &stubAuthAPI{
		loginFn: func(_ context.Context, creds ports.Credentials) (*ports.LoginResult, error) {
			return &ports.LoginResult{
				Token: token,
				User:  domain.User{ID: 1, Name: "alice", Email: creds.Email, Role: role},
			}, nil
		},
	}
}

func newTestStore(auth ports.AuthAPI) (*Store, *MemoryRepository) {
	repo := NewMemoryRepository()
	tokens := NewTokenIssuer("test-secret", time.Hour)
	return NewStore(repo, auth, tokens, zerolog.Nop()), repo
}

func TestStore_Login_Success(t *testing.T) {
	store, repo := newTestStore(okAuth("upstream-tok", domain.RoleAdmin))

	consoleToken, sess, err := store.Login(context.Background(), ports.Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if consoleToken == "" {
		t.Fatalf("expected console token")
	}
	if sess.Token != "upstream-tok" || sess.User.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session: %+v", sess)
	}

	// The console token must resolve back to the persisted session.
	tokens := NewTokenIssuer("test-secret", time.Hour)
	sid, err := tokens.Parse(consoleToken)
	if err != nil {
		t.Fatalf("console token does not parse: %v", err)
	}
	if sid != sess.ID {
		t.Fatalf("token names sid %q, session is %q", sid, sess.ID)
	}
	stored, err := repo.Find(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if stored.Token != "upstream-tok" {
		t.Fatalf("persisted blob lost the upstream token: %+v", stored)
	}
}

func TestStore_Login_EmptyCredentials(t *testing.T) {
	store, _ := newTestStore(&stubAuthAPI{
		loginFn: func(context.Context, ports.Credentials) (*ports.LoginResult, error) {
			t.Fatalf("backend must not be called with empty credentials")
			return nil, nil
		},
	})

	if _, _, err := store.Login(context.Background(), ports.Credentials{}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestStore_Login_RejectedCredentials(t *testing.T) {
	store, repo := newTestStore(&stubAuthAPI{
		loginFn: func(context.Context, ports.Credentials) (*ports.LoginResult, error) {
			return nil, domain.ErrUnauthorized
		},
	})

	_, _, err := store.Login(context.Background(), ports.Credentials{Email: "a@b.c", Password: "wrong"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(repo.sessions) != 0 {
		t.Fatalf("failed login must not leave a session behind")
	}
}

func TestStore_Login_UnknownRole(t *testing.T) {
	store, repo := newTestStore(okAuth("tok", "superuser"))

	_, _, err := store.Login(context.Background(), ports.Credentials{Email: "a@b.c", Password: "pw"})
	if err == nil {
		t.Fatalf("expected unknown role to fail login")
	}
	if len(repo.sessions) != 0 {
		t.Fatalf("failed login must not leave a session behind")
	}
}

func TestStore_Logout_Idempotent(t *testing.T) {
	store, _ := newTestStore(okAuth("tok", domain.RoleAgent))

	_, sess, err := store.Login(context.Background(), ports.Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := store.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if err := store.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("second logout must be a no-op, got %v", err)
	}
	if _, err := store.Resolve(context.Background(), sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}

func TestStore_Resolve_PurgesInvalidBlob(t *testing.T) {
	store, repo := newTestStore(okAuth("tok", domain.RoleAdmin))

	// A blob with an unknown role, as left behind by an older deployment.
	_ = repo.Save(context.Background(), &domain.Session{
		ID:    "stale-sid",
		Token: "tok",
		User:  domain.User{ID: 1, Role: "manager"},
	})

	if _, err := store.Resolve(context.Background(), "stale-sid"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := repo.Find(context.Background(), "stale-sid"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("invalid blob must be purged from storage")
	}
}

func TestStore_Invalidate_OnceUnderConcurrency(t *testing.T) {
	repo := &countingRepo{SessionRepository: NewMemoryRepository()}
	tokens := NewTokenIssuer("test-secret", time.Hour)
	store := NewStore(repo, okAuth("tok", domain.RoleAdmin), tokens, zerolog.Nop())

	_, sess, err := store.Login(context.Background(), ports.Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Invalidate(context.Background(), sess.ID); err != nil {
				t.Errorf("invalidate failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := repo.deletes.Load(); n != 1 {
		t.Fatalf("expected exactly one storage delete, got %d", n)
	}
}

func TestStore_Invalidate_MissingSessionIsNoop(t *testing.T) {
	store, _ := newTestStore(okAuth("tok", domain.RoleAdmin))

	if err := store.Invalidate(context.Background(), "never-existed"); err != nil {
		t.Fatalf("invalidating an absent session must not fail, got %v", err)
	}
}
