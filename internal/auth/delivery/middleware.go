package delivery

import (
	"strings"
	"time"

	"github.com/maniishbhandarii/learning-backend-app/internal/auth/usecase"
	"github.com/maniishbhandarii/learning-backend-app/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// AccessTokenCookie and RefreshTokenCookie are the cookie names the
	// credential pair travels in.
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	userContextKey = "user"
)

// AuthMiddleware is the gate in front of every protected route. The
// access token is taken from the cookie first, then from the
// Authorization header. Any failure yields the same 401 so a client
// cannot tell which stage rejected it. The middleware mutates nothing;
// it only attaches the resolved user to the request context.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := accessTokenFromRequest(c)
		if tokenString == "" {
			abortUnauthorized(c)
			return
		}

		user, err := authUsecase.ValidateAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func accessTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func abortUnauthorized(c *gin.Context) {
	_ = c.Error(apperror.Unauthorized("unauthorized request"))
	c.Abort()
}

// RequestLogger logs one line per request once the handler chain is
// done.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
