package domain

import "time"

// User is the single record this service owns. The refresh token is
// stored redundantly on the row so logout and rotation act as real
// revocation even though tokens verify statelessly.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	FullName     string    `json:"fullName"`
	Password     string    `json:"-"` // Never return password in JSON
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage,omitempty"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
