package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/auth"
	"resume-matcher/internal/shared/server/respond"
	"resume-matcher/internal/shared/telemetry"
)

const (
	accountIDKey = "accountId"
	usernameKey  = "username"
	emailKey     = "userEmail"
	nameKey      = "userName"
	isAdminKey   = "isAdmin"
	tokenKey     = "sessionToken"
	claimsKey    = "sessionClaims"

	// SessionCookie carries the token for browser clients.
	SessionCookie = "session"
)

// Auth resolves the session token (bearer header or session cookie) into an identity.
// Requests without a token pass through anonymously; RequireAuth enforces presence.
func Auth(signer *auth.Signer, revoker auth.Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, fromCookie, ok := tokenFromRequest(c)
		if !ok {
			c.Next()
			return
		}
		// A stale cookie degrades to an anonymous request so /login stays reachable.
		unauthorized := func(msg string) {
			if fromCookie {
				c.Next()
				return
			}
			respond.Error(c, http.StatusUnauthorized, "unauthorized", msg, nil)
		}
		if token == "" {
			unauthorized("missing or invalid token")
			return
		}

		claims, err := signer.Verify(token)
		if err != nil {
			unauthorized("missing or invalid token")
			return
		}

		if revoker != nil && claims.ID != "" {
			revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				telemetry.Error("auth.revocation_check_failed", map[string]any{
					"request_id": RequestIDFromContext(c),
					"err":        err,
				})
				respond.Error(c, http.StatusServiceUnavailable, "unavailable", "session store unavailable", nil)
				return
			}
			if revoked {
				unauthorized("session has ended")
				return
			}
		}

		c.Set(accountIDKey, claims.Subject)
		c.Set(usernameKey, claims.Username)
		c.Set(isAdminKey, claims.IsAdmin)
		c.Set(tokenKey, token)
		c.Set(claimsKey, claims)
		if claims.Email != "" {
			c.Set(emailKey, claims.Email)
		}
		if claims.Name != "" {
			c.Set(nameKey, claims.Name)
		}
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if AccountIDFromContext(c) == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects non-admin sessions. It implies RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if AccountIDFromContext(c) == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
			return
		}
		if !c.GetBool(isAdminKey) {
			respond.Error(c, http.StatusForbidden, "forbidden", "admin access required", nil)
			return
		}
		c.Next()
	}
}

// tokenFromRequest reports the raw token, whether it came from the session
// cookie, and whether the caller tried to present one at all.
func tokenFromRequest(c *gin.Context) (string, bool, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", false, true
		}
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer")), false, true
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie), true, true
	}
	return "", false, false
}

// AccountIDFromContext fetches the account ID set by the auth middleware.
func AccountIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(accountIDKey)
}

// UsernameFromContext fetches the username set by the auth middleware.
func UsernameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(usernameKey)
}

// UserEmailFromContext fetches the account email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(emailKey)
}

// UserNameFromContext fetches the display name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(nameKey)
}

// IsAdmin reports whether the session belongs to an administrator.
func IsAdmin(c *gin.Context) bool {
	if c == nil {
		return false
	}
	return c.GetBool(isAdminKey)
}

// SessionFromContext returns the raw token and its claims for logout.
func SessionFromContext(c *gin.Context) (string, auth.Claims, bool) {
	if c == nil {
		return "", auth.Claims{}, false
	}
	raw, ok := c.Get(claimsKey)
	if !ok {
		return "", auth.Claims{}, false
	}
	claims, ok := raw.(auth.Claims)
	if !ok {
		return "", auth.Claims{}, false
	}
	return c.GetString(tokenKey), claims, true
}
