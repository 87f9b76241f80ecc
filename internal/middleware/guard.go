package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"mockprep/platform/internal/auth"
	"mockprep/platform/internal/metrics"
	"mockprep/platform/internal/models"
	"mockprep/platform/internal/utils"
)

// redirect targets
const (
	SignInPath         = "/sign-in"
	AdminDashboard     = "/admin/dashboard"
	CandidateDashboard = "/candidate/dashboard"
)

const userKey contextKey = "session_user"

var publicPaths = map[string]bool{
	"/":              true,
	"/sign-in":       true,
	"/sign-up":       true,
	"/admin-sign-in": true,
	"/healthz":       true,
	"/readyz":        true,
	"/metrics":       true,
}

const (
	apiPrefix     = "/api/"
	authAPIPrefix = "/api/v1/auth/"
)

// SessionResolver turns a raw session credential into a user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, raw string) (*models.User, bool)
}

// Decision is the route guard's verdict for one request.
type Decision struct {
	Allow    bool
	Redirect string
}

func IsPublic(path string) bool {
	return publicPaths[path] || strings.HasPrefix(path, authAPIPrefix)
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Decide applies the coarse per-request role check to a protected path.
// Roles outside the closed set go back to sign-in, which keeps the two
// dashboard redirects from bouncing between each other.
func Decide(path string, hasSession bool, user *models.User) Decision {
	switch {
	case !hasSession, user == nil, !user.Role.Valid():
		return Decision{Redirect: SignInPath}
	case underPrefix(path, "/admin") && user.Role != models.RoleAdmin:
		return Decision{Redirect: CandidateDashboard}
	case underPrefix(path, "/candidate") && user.Role != models.RoleCandidate:
		return Decision{Redirect: AdminDashboard}
	}
	return Decision{Allow: true}
}

// RouteGuard resolves the session cookie once per request and stores the
// user in the request context. Protected pages redirect with 307; protected
// API routes answer 401 instead.
func RouteGuard(resolver SessionResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := auth.SessionFromRequest(r)
			var user *models.User
			if raw != "" {
				if u, ok := resolver.ResolveSession(r.Context(), raw); ok {
					user = u
				}
			}
			if user != nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}

			path := r.URL.Path
			if IsPublic(path) {
				next.ServeHTTP(w, r)
				return
			}

			if strings.HasPrefix(path, apiPrefix) {
				if user == nil {
					utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
						Code:    "unauthenticated",
						Message: "Sign in to continue",
					})
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			d := Decide(path, raw != "", user)
			if !d.Allow {
				logger.Debug("route guard redirect",
					zap.String("path", path),
					zap.String("target", d.Redirect),
					zap.Bool("has_session", raw != ""))
				metrics.RecordRedirect(d.Redirect)
				utils.Redirect(w, r, d.Redirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user resolved by RouteGuard, or nil.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
