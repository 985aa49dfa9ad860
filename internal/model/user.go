// Package model defines domain entities for the application.
package model

import "time"

// User is the local record kept for every account registered through
// the gateway. The trading platform owns the authoritative account;
// this row is never updated or deleted by the gateway.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Argon2id PHC string, never serialized
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Country      string    `json:"country"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
}
