package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
	"github.com/capitalcare/care-console/internal/session"
)

type stubStore struct {
	resolveFn func(ctx context.Context, sid string) (*domain.Session, error)
}

func (s *stubStore) Login(context.Context, ports.Credentials) (string, *domain.Session, error) {
	return "", nil, domain.ErrInvalidCredentials
}

func (s *stubStore) Logout(context.Context, string) error { return nil }

func (s *stubStore) Resolve(ctx context.Context, sid string) (*domain.Session, error) {
	return s.resolveFn(ctx, sid)
}

func (s *stubStore) Invalidate(context.Context, string) error { return nil }

func adminSession(sid string) *domain.Session {
	return &domain.Session{
		ID:    sid,
		Token: "upstream-tok",
		User:  domain.User{ID: 1, Name: "alice", Role: domain.RoleAdmin},
	}
}

func issuedToken(t *testing.T, issuer *session.TokenIssuer, sid string) string {
	t.Helper()
	token, err := issuer.Issue(sid, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func TestAuth_ValidToken(t *testing.T) {
	e := echo.New()
	issuer := session.NewTokenIssuer("secret", time.Hour)
	store := &stubStore{
		resolveFn: func(_ context.Context, sid string) (*domain.Session, error) {
			if sid != "sid-1" {
				t.Fatalf("unexpected sid: %q", sid)
			}
			return adminSession(sid), nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issuedToken(t, issuer, "sid-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(issuer, store)(func(c echo.Context) error {
		called = true
		sess, ok := domain.SessionFromContext(c.Request().Context())
		if !ok || sess.ID != "sid-1" {
			t.Fatalf("session not injected into request context")
		}
		got, _ := c.Get("session").(*domain.Session)
		if got == nil || got.User.Role != domain.RoleAdmin {
			t.Fatalf("session not set on echo context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	e := echo.New()
	issuer := session.NewTokenIssuer("secret", time.Hour)
	store := &stubStore{
		resolveFn: func(context.Context, string) (*domain.Session, error) {
			t.Fatalf("store must not be consulted without a token")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(issuer, store)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["redirect"] != "/login" {
		t.Fatalf("expected login redirect in body, got %+v", body)
	}
}

func TestAuth_BrowserGetsRealRedirect(t *testing.T) {
	e := echo.New()
	issuer := session.NewTokenIssuer("secret", time.Hour)
	store := &stubStore{
		resolveFn: func(context.Context, string) (*domain.Session, error) {
			return nil, domain.ErrSessionNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Authorization", "Bearer "+issuedToken(t, issuer, "sid-gone"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(issuer, store)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	e := echo.New()
	issuer := session.NewTokenIssuer("secret", time.Hour)
	store := &stubStore{
		resolveFn: func(context.Context, string) (*domain.Session, error) {
			return adminSession("sid-1"), nil
		},
	}

	for _, header := range []string{"Token abc", "Bearer", "bearer  "} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := Auth(issuer, store)(func(c echo.Context) error {
			t.Fatalf("should not reach next for header %q", header)
			return nil
		})

		if err := handler(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestAuth_TamperedToken(t *testing.T) {
	e := echo.New()
	issuer := session.NewTokenIssuer("secret", time.Hour)
	foreign := session.NewTokenIssuer("other-secret", time.Hour)
	store := &stubStore{
		resolveFn: func(context.Context, string) (*domain.Session, error) {
			t.Fatalf("store must not be consulted for a bad token")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issuedToken(t, foreign, "sid-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(issuer, store)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_SessionGone(t *testing.T) {
	e := echo.New()
	issuer := session.NewTokenIssuer("secret", time.Hour)
	store := &stubStore{
		resolveFn: func(context.Context, string) (*domain.Session, error) {
			return nil, domain.ErrSessionNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issuedToken(t, issuer, "sid-gone"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(issuer, store)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
