package models

import "strings"

// AdminUsername is the bootstrap account name that is promoted to admin on registration
const AdminUsername = "admin"

// User represents a registered account
type User struct {
	ID             uint   `json:"id" db:"id" gorm:"primaryKey"`
	Username       string `json:"username" db:"username" gorm:"type:varchar(150);not null;uniqueIndex"`
	Email          string `json:"email" db:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	HashedPassword string `json:"-" db:"hashed_password" gorm:"type:text;not null"`
	IsAdmin        bool   `json:"is_admin" db:"is_admin" gorm:"not null;default:false"`
}

// IsBootstrapAdmin reports whether username should be granted admin at registration.
func IsBootstrapAdmin(username string) bool {
	return strings.EqualFold(username, AdminUsername)
}
