package repository

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/maniishbhandarii/learning-backend-app/internal/auth/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrRefreshTokenMismatch is returned by RotateRefreshToken when the
// stored token no longer equals the presented one, i.e. it was already
// rotated or revoked by a concurrent request.
var ErrRefreshTokenMismatch = errors.New("stored refresh token does not match")

// UserRepository is the user record store contract. Find methods return
// (nil, nil) when no record exists; callers decide whether absence is an
// error.
type UserRepository interface {
	Create(ctx context.Context, user *authdomain.User) error
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*authdomain.User, error)
	UpdateAccount(ctx context.Context, id, fullName, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id, url string) error
	UpdateCoverImage(ctx context.Context, id, url string) error
	SetRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshToken(ctx context.Context, id string) error
	RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) error
}

// userRepository implements UserRepository on gorm.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(ctx context.Context, user *authdomain.User) error {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateAccount(ctx context.Context, id, fullName, email string) error {
	return r.db.WithContext(ctx).Model(&authdomain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"full_name": fullName, "email": email}).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&authdomain.User{}).
		Where("id = ?", id).
		Update("password", passwordHash).Error
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id, url string) error {
	return r.db.WithContext(ctx).Model(&authdomain.User{}).
		Where("id = ?", id).
		Update("avatar", url).Error
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, id, url string) error {
	return r.db.WithContext(ctx).Model(&authdomain.User{}).
		Where("id = ?", id).
		Update("cover_image", url).Error
}

// SetRefreshToken overwrites the stored refresh token unconditionally.
// Login uses it: last writer wins.
func (r *userRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	return r.db.WithContext(ctx).Model(&authdomain.User{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}

func (r *userRepository) ClearRefreshToken(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&authdomain.User{}).
		Where("id = ?", id).
		Update("refresh_token", "").Error
}

// RotateRefreshToken swaps the stored refresh token only if it still
// equals oldToken. The conditional update is the store's native atomic
// primitive, so two refreshes racing on the same stale token produce
// exactly one winner.
func (r *userRepository) RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) error {
	res := r.db.WithContext(ctx).Model(&authdomain.User{}).
		Where("id = ? AND refresh_token = ?", id, oldToken).
		Update("refresh_token", newToken)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRefreshTokenMismatch
	}
	return nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
