package models

import "time"

// DefaultRole is assigned to admins created without an explicit role.
const DefaultRole = "admin"

type AdminUser struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // don’t expose hash
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
}
