package entity

import "time"

// Estados de cuenta.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User representa una cuenta que emite facturas.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano
	FullName     string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
