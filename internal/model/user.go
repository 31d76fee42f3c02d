package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUser(email, name string) *User {
	if name == "" {
		name = "User"
	}
	now := time.Now()
	return &User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GoogleAccount holds the encrypted OAuth credentials linked to a user. At most one per user.
type GoogleAccount struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	GoogleSub       string    `json:"googleSub"`
	AccessTokenEnc  string    `json:"-"`
	RefreshTokenEnc string    `json:"-"`
	Expiry          time.Time `json:"expiry"`
	Scopes          []string  `json:"scopes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewGoogleAccount(userID, googleSub string) *GoogleAccount {
	now := time.Now()
	return &GoogleAccount{
		ID:        uuid.New().String(),
		UserID:    userID,
		GoogleSub: googleSub,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
