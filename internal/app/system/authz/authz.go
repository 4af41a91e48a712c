// internal/app/system/authz/authz.go
//
// Package authz maps (role, approval state) to permitted actions. The role
// whitelist is checked before the approval gate, so a role mismatch and a
// pending account produce distinct errors. Admins bypass the approval gate
// but not the whitelist.
package authz

import (
	"fmt"
	"net/http"

	"github.com/AfrozSheikh/krushivarsa/internal/app/system/auth"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/httpjson"
	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
)

// RequireRoles gates a route to the given roles. It assumes auth.Protect has
// already run; a missing context user fails closed with 401.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.CurrentUser(r)
			if !ok {
				httpjson.Fail(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			if _, match := allowed[user.Role]; !match {
				httpjson.Fail(w, http.StatusForbidden,
					fmt.Sprintf("User role %s is not authorized to access this route", user.Role))
				return
			}
			if !user.Approved() {
				httpjson.Fail(w, http.StatusForbidden, "Your account is not approved yet")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsAdmin reports whether the request carries an admin account.
func IsAdmin(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	return ok && user.Role == models.RoleAdmin
}
