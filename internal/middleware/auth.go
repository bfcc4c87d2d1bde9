package middleware

import (
	"net/http"
	"strings"

	"github.com/gigflow/gigflow-backend/internal/auth"
	"github.com/labstack/echo/v4"
)

const userIDKey = "userID"

type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// RequireAuth resolves the session token from the Authorization header
// or the token cookie and stores the user ID in the request context.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenStr := ""
		if authz := c.Request().Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
			tokenStr = strings.TrimPrefix(authz, "Bearer ")
		} else if cookie, err := c.Cookie("token"); err == nil {
			tokenStr = cookie.Value
		}
		if tokenStr == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		userID, err := auth.ParseToken(tokenStr, m.secret)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
		}
		c.Set(userIDKey, userID)
		return next(c)
	}
}

// UserID returns the authenticated user set by RequireAuth, or zero.
func UserID(c echo.Context) uint64 {
	id, _ := c.Get(userIDKey).(uint64)
	return id
}
