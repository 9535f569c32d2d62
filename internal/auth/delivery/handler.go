package delivery

import (
	"net/http"

	authdto "github.com/maniishbhandarii/learning-backend-app/internal/auth/dto"
	"github.com/maniishbhandarii/learning-backend-app/internal/auth/usecase"
	"github.com/maniishbhandarii/learning-backend-app/pkg/apperror"
	"github.com/maniishbhandarii/learning-backend-app/pkg/config"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	config      *config.Config
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		config:      cfg,
	}
}

// Register handles the multipart registration form. Identity fields are
// validated before any store or upload call happens.
func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(apperror.BadRequest("please fill all fields"))
		return
	}

	avatar, _ := c.FormFile("avatar")
	coverImage, _ := c.FormFile("coverImage")

	user, err := h.authUsecase.Register(c.Request.Context(), &req, avatar, coverImage)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusCreated, user, "user registered successfully")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest("username or email and password are required"))
		return
	}

	tokens, err := h.authUsecase.Login(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setAuthCookies(c, tokens)
	respond(c, http.StatusOK, tokens, "user logged in successfully")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	if err := h.authUsecase.Logout(c.Request.Context(), user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	h.clearAuthCookies(c)
	respond(c, http.StatusOK, nil, "user logged out successfully")
}

// RefreshToken rotates the refresh credential. The token is read from
// the cookie first; body clients fall back to a JSON field.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, _ := c.Cookie(RefreshTokenCookie)
	if refreshToken == "" {
		var req authdto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	tokens, err := h.authUsecase.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setAuthCookies(c, tokens)
	respond(c, http.StatusOK, tokens, "access token refreshed")
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	var req authdto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest("old and new passwords are required"))
		return
	}

	if err := h.authUsecase.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, nil, "password changed successfully")
}

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	respond(c, http.StatusOK, user, "current user fetched successfully")
}

func (h *AuthHandler) UpdateAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	var req authdto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest("please fill all fields"))
		return
	}

	updated, err := h.authUsecase.UpdateAccount(c.Request.Context(), user.ID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, updated, "account details updated successfully")
}

func (h *AuthHandler) UpdateAvatar(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	file, _ := c.FormFile("avatar")
	updated, err := h.authUsecase.UpdateAvatar(c.Request.Context(), user.ID, file)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, updated, "avatar updated successfully")
}

func (h *AuthHandler) UpdateCoverImage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	file, _ := c.FormFile("coverImage")
	updated, err := h.authUsecase.UpdateCoverImage(c.Request.Context(), user.ID, file)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, updated, "cover image updated successfully")
}

// setAuthCookies writes the credential pair as HttpOnly cookies scoped
// to the whole site.
func (h *AuthHandler) setAuthCookies(c *gin.Context, tokens *authdto.TokenResponse) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, tokens.AccessToken, int(h.config.AccessTokenExpiry.Seconds()), "/", "", h.config.CookieSecure, true)
	c.SetCookie(RefreshTokenCookie, tokens.RefreshToken, int(h.config.RefreshTokenExpiry.Seconds()), "/", "", h.config.CookieSecure, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", h.config.CookieSecure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", h.config.CookieSecure, true)
}
