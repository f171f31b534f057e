package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the account record. Username and email are globally unique;
// RefreshToken holds the single currently valid refresh token, overwritten
// on every login.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Confirmed    bool      `gorm:"default:false" json:"confirmed"`
	Role         Role      `gorm:"size:10;default:user" json:"role"`
	RefreshToken string    `gorm:"size:1024" json:"-"`
	Avatar       string    `gorm:"size:255" json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TokenPair is what a successful login hands back to the transport layer.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}
