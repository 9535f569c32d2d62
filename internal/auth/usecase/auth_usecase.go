package usecase

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	authdomain "github.com/maniishbhandarii/learning-backend-app/internal/auth/domain"
	authdto "github.com/maniishbhandarii/learning-backend-app/internal/auth/dto"
	"github.com/maniishbhandarii/learning-backend-app/internal/auth/repository"
	"github.com/maniishbhandarii/learning-backend-app/internal/auth/token"
	"github.com/maniishbhandarii/learning-backend-app/pkg/apperror"
	"github.com/maniishbhandarii/learning-backend-app/pkg/config"

	"github.com/rs/zerolog"
)

// authUsecase implements AuthUsecase.
type authUsecase struct {
	userRepo repository.UserRepository
	uploader MediaUploader
	config   *config.Config
	log      zerolog.Logger
}

// NewAuthUsecase creates a new instance of authUsecase.
func NewAuthUsecase(userRepo repository.UserRepository, uploader MediaUploader, cfg *config.Config, log zerolog.Logger) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		uploader: uploader,
		config:   cfg,
		log:      log,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.RegisterRequest, avatar, coverImage *multipart.FileHeader) (*authdomain.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.TrimSpace(req.Email)
	fullName := strings.TrimSpace(req.FullName)

	// Trimming is only for the blank-field check; the password itself
	// is hashed exactly as submitted so login verifies the same bytes.
	if username == "" || email == "" || fullName == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperror.BadRequest("please fill all fields")
	}

	existing, err := u.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("user with email or username already exists")
	}

	if avatar == nil {
		return nil, apperror.BadRequest("avatar file is required")
	}

	avatarURL, err := u.uploader.Upload(ctx, avatar)
	if err != nil {
		u.log.Error().Err(err).Str("username", username).Msg("avatar upload failed")
		return nil, apperror.BadGateway("avatar upload failed")
	}

	// The cover image is optional, so a failed upload at registration
	// only costs the field, not the account.
	coverURL := ""
	if coverImage != nil {
		coverURL, err = u.uploader.Upload(ctx, coverImage)
		if err != nil {
			u.log.Warn().Err(err).Str("username", username).Msg("cover image upload failed, continuing without it")
			coverURL = ""
		}
	}

	hashed, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal("something went wrong while registering the user")
	}

	user := &authdomain.User{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Password:   hashed,
		Avatar:     avatarURL,
		CoverImage: coverURL,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	u.log.Info().Str("user_id", user.ID).Str("username", username).Msg("user registered")
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.TrimSpace(req.Email)
	if username == "" && email == "" {
		return nil, apperror.BadRequest("username or email is required")
	}

	user, err := u.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}

	// Unknown identifier and wrong password produce the same answer so
	// account existence cannot be probed.
	if user == nil || !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, apperror.Unauthorized("invalid user credentials")
	}

	return u.issuePair(ctx, user.ID)
}

func (u *authUsecase) Logout(ctx context.Context, userID string) error {
	if err := u.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return err
	}
	u.log.Info().Str("user_id", userID).Msg("user logged out")
	return nil
}

func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error) {
	if refreshToken == "" {
		return nil, apperror.Unauthorized("unauthorized request")
	}

	userID, err := token.Verify(refreshToken, []byte(u.config.RefreshTokenSecret))
	if err != nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshToken != refreshToken {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	accessToken, newRefreshToken, err := u.mintPair(userID)
	if err != nil {
		return nil, err
	}

	// The conditional update is what makes rotation safe: if another
	// refresh already rotated the stored token, this one loses.
	if err := u.userRepo.RotateRefreshToken(ctx, userID, refreshToken, newRefreshToken); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenMismatch) {
			return nil, apperror.Unauthorized("invalid refresh token")
		}
		return nil, err
	}

	user.RefreshToken = newRefreshToken
	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("user not found")
	}

	if !repository.CheckPasswordHash(oldPassword, user.Password) {
		return apperror.BadRequest("invalid old password")
	}

	if strings.TrimSpace(newPassword) == "" {
		return apperror.BadRequest("new password is required")
	}

	hashed, err := repository.HashPassword(newPassword)
	if err != nil {
		return apperror.Internal("could not update password")
	}

	// The stored refresh token stays valid across a password change.
	return u.userRepo.UpdatePassword(ctx, userID, hashed)
}

// ValidateAccessToken resolves an access token to its user record. Every
// failure mode collapses into the same unauthorized error so the gate
// never reveals which stage rejected the request.
func (u *authUsecase) ValidateAccessToken(ctx context.Context, tokenString string) (*authdomain.User, error) {
	userID, err := token.Verify(tokenString, []byte(u.config.AccessTokenSecret))
	if err != nil {
		return nil, apperror.Unauthorized("invalid access token")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized("invalid access token")
	}

	return user, nil
}

func (u *authUsecase) UpdateAccount(ctx context.Context, userID string, req *authdto.UpdateAccountRequest) (*authdomain.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	if fullName == "" || email == "" {
		return nil, apperror.BadRequest("please fill all fields")
	}

	if err := u.userRepo.UpdateAccount(ctx, userID, fullName, email); err != nil {
		return nil, err
	}

	return u.reload(ctx, userID)
}

func (u *authUsecase) UpdateAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (*authdomain.User, error) {
	if file == nil {
		return nil, apperror.BadRequest("avatar file is required")
	}

	url, err := u.uploader.Upload(ctx, file)
	if err != nil {
		return nil, apperror.BadGateway("avatar upload failed")
	}

	if err := u.userRepo.UpdateAvatar(ctx, userID, url); err != nil {
		return nil, err
	}

	return u.reload(ctx, userID)
}

func (u *authUsecase) UpdateCoverImage(ctx context.Context, userID string, file *multipart.FileHeader) (*authdomain.User, error) {
	if file == nil {
		return nil, apperror.BadRequest("cover image file is required")
	}

	url, err := u.uploader.Upload(ctx, file)
	if err != nil {
		return nil, apperror.BadGateway("cover image upload failed")
	}

	if err := u.userRepo.UpdateCoverImage(ctx, userID, url); err != nil {
		return nil, err
	}

	return u.reload(ctx, userID)
}

// issuePair is the single place new sessions are minted. It loads the
// user, mints both tokens and persists the refresh token. Retrying is
// safe: the new refresh token simply overwrites the previous one.
func (u *authUsecase) issuePair(ctx context.Context, userID string) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// The id came from a verified source, so absence means the
		// account was deleted mid-session.
		return nil, apperror.NotFound("user not found")
	}

	accessToken, refreshToken, err := u.mintPair(userID)
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.SetRefreshToken(ctx, userID, refreshToken); err != nil {
		return nil, err
	}

	user.RefreshToken = refreshToken
	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) mintPair(userID string) (string, string, error) {
	accessToken, err := token.Issue(userID, []byte(u.config.AccessTokenSecret), u.config.AccessTokenExpiry)
	if err != nil {
		return "", "", apperror.Internal("could not generate tokens")
	}

	refreshToken, err := token.Issue(userID, []byte(u.config.RefreshTokenSecret), u.config.RefreshTokenExpiry)
	if err != nil {
		return "", "", apperror.Internal("could not generate tokens")
	}

	return accessToken, refreshToken, nil
}

func (u *authUsecase) reload(ctx context.Context, userID string) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}
