package model

import (
	"time"

	"github.com/google/uuid"
)

// HR staff roles
const (
	RoleAdmin     = "admin"
	RoleRecruiter = "recruiter"
)

// User is an HR staff account. Password holds a bcrypt hash for local
// accounts and is empty for Google-only accounts.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username string    `gorm:"uniqueIndex;not null" json:"username"`
	Email    string    `gorm:"index" json:"email"`
	Password string    `json:"-"`
	GoogleID string    `gorm:"index" json:"-"`
	Role     string    `gorm:"not null;default:'recruiter'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActorLabel is the attribution string stamped onto history entries. It
// is display data only, never a capability.
func (u *User) ActorLabel() string {
	if u.Email != "" {
		return u.Email
	}
	if u.Username != "" {
		return u.Username
	}
	return "System"
}

// UserResponse is the login payload: the account plus its access token
type UserResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

// GoogleUserInfo is the decoded userinfo payload from Google OAuth
type GoogleUserInfo struct {
	GID       string `json:"sub"`
	FirstName string `json:"given_name"`
	LastName  string `json:"family_name"`
	Email     string `json:"email"`
}
