package models

import "time"

// User is the row shape of the users table.
type User struct {
	UserID       int64     `db:"user_id" gorm:"column:user_id;primaryKey;autoIncrement"`
	FullName     string    `db:"full_name" gorm:"column:full_name;size:100"`
	Email        string    `db:"email" gorm:"column:email;uniqueIndex;size:255"`
	PasswordHash string    `db:"hashed_password" gorm:"column:hashed_password;size:255"`
	IsActive     bool      `db:"is_active" gorm:"column:is_active"`
	CreatedAt    time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime:false"`
}

// TableName binds the gorm model to the users table.
func (User) TableName() string { return "users" }
