package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds credentials for authenticating a person.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JWTClaims is the session credential payload. It is stateless: there is
// no refresh and no server-side revocation.
type JWTClaims struct {
	PersonID int64  `json:"person_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}
