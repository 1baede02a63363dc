package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/response"
)

// CookieName is the HTTP-only cookie carrying the access token.
const CookieName = "token"

// AuthRequired is a Gin middleware that validates the JWT from the token cookie.
// A missing cookie is 401, a bad or expired token is 403.
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(CookieName)
		if err != nil || tokenStr == "" {
			response.Fail(c, http.StatusUnauthorized, "unauthorized access")
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseAndValidate(tokenStr)
		if err != nil {
			response.Fail(c, http.StatusForbidden, "forbidden access")
			c.Abort()
			return
		}

		// Store user info into Gin context for later handlers.
		SetIdentity(c, claims.Email, claims.Role)

		c.Next()
	}
}

// SetTokenCookie writes the access token as an HTTP-only cookie.
func SetTokenCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(sameSite(secure))
	c.SetCookie(CookieName, token, maxAge, "/", "", secure, true)
}

// ClearTokenCookie expires the token cookie.
func ClearTokenCookie(c *gin.Context, secure bool) {
	c.SetSameSite(sameSite(secure))
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}

func sameSite(secure bool) http.SameSite {
	if secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}
