package usecase

import (
	"context"
	"mime/multipart"

	authdomain "github.com/maniishbhandarii/learning-backend-app/internal/auth/domain"
	authdto "github.com/maniishbhandarii/learning-backend-app/internal/auth/dto"
)

// MediaUploader is the outbound media storage collaborator. It returns
// the URL the uploaded file is reachable at.
type MediaUploader interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (string, error)
}

// AuthUsecase holds the session lifecycle: registration, credential
// issuance and verification, rotation and revocation, plus the profile
// operations gated behind a verified access token.
type AuthUsecase interface {
	Register(ctx context.Context, req *authdto.RegisterRequest, avatar, coverImage *multipart.FileHeader) (*authdomain.User, error)
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	ValidateAccessToken(ctx context.Context, tokenString string) (*authdomain.User, error)
	UpdateAccount(ctx context.Context, userID string, req *authdto.UpdateAccountRequest) (*authdomain.User, error)
	UpdateAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (*authdomain.User, error)
	UpdateCoverImage(ctx context.Context, userID string, file *multipart.FileHeader) (*authdomain.User, error)
}
