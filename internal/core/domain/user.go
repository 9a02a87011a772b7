package domain

import "time"

// User is an identity that can own accounts.
type User struct {
	UserID       int64     `json:"userID"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}
