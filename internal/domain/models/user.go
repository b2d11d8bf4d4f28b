package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the minimal identity the platform needs for attribution.
// Authentication itself is external; users arrive via verified JWTs.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	AvatarURL *string   `json:"avatar_url" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TokenClaims are the JWT claims the auth middleware extracts. Subject is
// the user ID.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
