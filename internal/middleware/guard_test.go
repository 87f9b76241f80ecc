package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mockprep/platform/internal/auth"
	"mockprep/platform/internal/identity"
	"mockprep/platform/internal/middleware"
	"mockprep/platform/internal/models"
	"mockprep/platform/internal/testhelpers"
)

var (
	adminUser     = &models.User{ID: "a1", Role: models.RoleAdmin}
	candidateUser = &models.User{ID: "c1", Role: models.RoleCandidate}
	oddUser       = &models.User{ID: "x1", Role: models.Role("superuser")}
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		hasSession bool
		user       *models.User
		want       middleware.Decision
	}{
		{"no session", "/dashboard", false, nil, middleware.Decision{Redirect: "/sign-in"}},
		{"unresolvable session", "/admin/dashboard", true, nil, middleware.Decision{Redirect: "/sign-in"}},
		{"candidate on admin page", "/admin/feedbacks", true, candidateUser, middleware.Decision{Redirect: "/candidate/dashboard"}},
		{"admin on candidate page", "/candidate/dashboard", true, adminUser, middleware.Decision{Redirect: "/admin/dashboard"}},
		{"admin on admin page", "/admin/create-interview", true, adminUser, middleware.Decision{Allow: true}},
		{"candidate on candidate page", "/candidate/dashboard", true, candidateUser, middleware.Decision{Allow: true}},
		{"candidate on shared page", "/take-interview", true, candidateUser, middleware.Decision{Allow: true}},
		{"bare admin prefix", "/admin", true, candidateUser, middleware.Decision{Redirect: "/candidate/dashboard"}},
		{"similar prefix is not admin", "/administrator", true, candidateUser, middleware.Decision{Allow: true}},
		{"unknown role on admin page", "/admin/dashboard", true, oddUser, middleware.Decision{Redirect: "/sign-in"}},
		{"unknown role on candidate page", "/candidate/dashboard", true, oddUser, middleware.Decision{Redirect: "/sign-in"}},
		{"unknown role elsewhere", "/my-feedbacks", true, oddUser, middleware.Decision{Redirect: "/sign-in"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := middleware.Decide(tt.path, tt.hasSession, tt.user); got != tt.want {
				t.Fatalf("Decide(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsPublic(t *testing.T) {
	for _, path := range []string{"/", "/sign-in", "/sign-up", "/admin-sign-in", "/healthz", "/readyz", "/metrics", "/api/v1/auth/sign-in"} {
		if !middleware.IsPublic(path) {
			t.Errorf("expected %s to be public", path)
		}
	}
	for _, path := range []string{"/dashboard", "/admin/dashboard", "/api/v1/interviews/1"} {
		if middleware.IsPublic(path) {
			t.Errorf("expected %s to be protected", path)
		}
	}
}

type staticResolver map[string]*models.User

func (r staticResolver) ResolveSession(_ context.Context, raw string) (*models.User, bool) {
	u, ok := r[raw]
	return u, ok
}

func serve(t *testing.T, resolver middleware.SessionResolver, path, cookie string) (*httptest.ResponseRecorder, *models.User) {
	t.Helper()
	var seen *models.User
	handler := middleware.RouteGuard(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestRouteGuard(t *testing.T) {
	resolver := staticResolver{"admin-token": adminUser, "cand-token": candidateUser}

	tests := []struct {
		name     string
		path     string
		cookie   string
		status   int
		location string
	}{
		{"public without session", "/sign-in", "", http.StatusOK, ""},
		{"page without session", "/dashboard", "", http.StatusTemporaryRedirect, "/sign-in"},
		{"page with bad session", "/dashboard", "garbage", http.StatusTemporaryRedirect, "/sign-in"},
		{"candidate to admin", "/admin/dashboard", "cand-token", http.StatusTemporaryRedirect, "/candidate/dashboard"},
		{"admin to candidate", "/candidate/dashboard", "admin-token", http.StatusTemporaryRedirect, "/admin/dashboard"},
		{"admin allowed", "/admin/dashboard", "admin-token", http.StatusOK, ""},
		{"api without session", "/api/v1/interviews/i1", "", http.StatusUnauthorized, ""},
		{"api with session", "/api/v1/interviews/i1", "cand-token", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := serve(t, resolver, tt.path, tt.cookie)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != tt.location {
				t.Fatalf("expected location %q, got %q", tt.location, loc)
			}
		})
	}
}

func TestRouteGuard_StoresUserOnPublicPaths(t *testing.T) {
	_, seen := serve(t, staticResolver{"cand-token": candidateUser}, "/api/v1/auth/me", "cand-token")
	if seen == nil || seen.ID != "c1" {
		t.Fatalf("expected candidate in context, got %+v", seen)
	}
}

func TestRouteGuard_ExpiredSessionRedirectsToSignIn(t *testing.T) {
	s := testhelpers.NewStore(t)
	ctx := context.Background()

	past := func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	issuer, err := identity.NewLocalProvider(s, "secret", identity.WithBcryptCost(bcrypt.MinCost), identity.WithClock(past))
	if err != nil {
		t.Fatalf("NewLocalProvider: %v", err)
	}
	sub, err := issuer.Register(ctx, "admin@example.com", "long-enough-pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	testhelpers.SeedUser(t, s, sub, models.RoleAdmin)
	token, _, err := issuer.IssueCredential(ctx, identity.AuthProof{Email: "admin@example.com", Password: "long-enough-pw"}, auth.SessionTTL)
	if err != nil {
		t.Fatalf("IssueCredential: %v", err)
	}

	verifier, err := identity.NewLocalProvider(s, "secret")
	if err != nil {
		t.Fatalf("NewLocalProvider: %v", err)
	}
	authn := auth.NewAuthenticator(verifier, s, nil)

	rec, _ := serve(t, authn, "/admin/dashboard", token)
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/sign-in" {
		t.Fatalf("expected /sign-in, got %q", loc)
	}
}
