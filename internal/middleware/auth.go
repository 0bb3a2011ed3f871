package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/authz"
	"github.com/harentsoaR/healthcare-portal/internal/store"
	"github.com/harentsoaR/healthcare-portal/internal/utils"
)

const actorKey = "actor"

// Authenticate requires a valid bearer token for an existing, active user and
// stores the caller's Actor in the context. The user is reloaded on every
// request so role and approval changes apply immediately.
func Authenticate(tokens *utils.TokenManager, users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			abort(c, http.StatusUnauthorized, "Authorization header must use the Bearer scheme")
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(tokenString))
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		userID, err := claims.UserObjectID()
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		switch {
		case apperr.KindOf(err) == apperr.KindNotFound:
			abort(c, http.StatusUnauthorized, "User no longer exists")
			return
		case err != nil:
			abort(c, http.StatusInternalServerError, apperr.Message(err))
			return
		case !user.IsActive:
			abort(c, http.StatusUnauthorized, "Account is inactive")
			return
		}

		c.Set(actorKey, authz.ActorFromUser(user))
		c.Next()
	}
}

// ActorFrom returns the authenticated caller, or the anonymous Actor on
// routes without Authenticate.
func ActorFrom(c *gin.Context) authz.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(authz.Actor); ok {
			return a
		}
	}
	return authz.Actor{}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}
