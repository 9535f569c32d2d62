package dto

import authdomain "github.com/maniishbhandarii/learning-backend-app/internal/auth/domain"

// RegisterRequest binds the multipart form fields of the registration
// call. Trim-level validation happens in the usecase so a blank field is
// rejected before any store or upload call.
type RegisterRequest struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	FullName string `form:"fullname"`
	Password string `form:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

type TokenResponse struct {
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	User         *authdomain.User `json:"user"`
}
