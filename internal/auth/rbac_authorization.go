package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization builds role-checking middlewares. Roles are closed
// values on the user record, so the checks are plain comparisons.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func (ra *RBACAuthorization) requireRole(allowed func(*User) bool, denial string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !allowed(user) {
				ra.logger.WarnContext(r.Context(), "access denied: "+denial,
					"user_id", user.ID,
					"role", user.Role)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireApprover restricts a route to GESTOR, ASSESSOR_DIRETOR and
// DESENVOLVEDOR. These are the only roles that may change trip or expense
// status, invite visitors or post communications.
func (ra *RBACAuthorization) RequireApprover() func(http.Handler) http.Handler {
	return ra.requireRole((*User).IsApprover, "approver role required")
}

// RequireDeveloper restricts a route to the DESENVOLVEDOR role (admin
// surface: user listing and role changes).
func (ra *RBACAuthorization) RequireDeveloper() func(http.Handler) http.Handler {
	return ra.requireRole((*User).IsDeveloper, "developer role required")
}

// RequireVisitor restricts a route to VISITANTE accounts.
func (ra *RBACAuthorization) RequireVisitor() func(http.Handler) http.Handler {
	return ra.requireRole((*User).IsVisitor, "visitor role required")
}

// RequireEmployee blocks visitor accounts from employee-only surfaces.
func (ra *RBACAuthorization) RequireEmployee() func(http.Handler) http.Handler {
	return ra.requireRole(func(u *User) bool { return !u.IsVisitor() }, "employee role required")
}
