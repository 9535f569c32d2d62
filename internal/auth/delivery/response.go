package delivery

import (
	"errors"

	authdomain "github.com/maniishbhandarii/learning-backend-app/internal/auth/domain"
	"github.com/maniishbhandarii/learning-backend-app/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// apiResponse is the uniform envelope every endpoint answers with.
type apiResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// ErrorFormatter turns errors collected during the request into the
// failure envelope. Handlers never write failure bodies themselves; they
// attach an error with c.Error and return. Anything that is not an
// apperror.Error becomes an opaque 500.
func ErrorFormatter(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperror.Error
		if !errors.As(err, &appErr) {
			log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unexpected error")
			appErr = apperror.Internal("internal server error")
		}

		c.JSON(appErr.Code, apiResponse{
			StatusCode: appErr.Code,
			Message:    appErr.Message,
			Success:    false,
		})
	}
}

// currentUser returns the user the auth middleware resolved for this
// request.
func currentUser(c *gin.Context) (*authdomain.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*authdomain.User)
	return user, ok
}
