package auth

import "github.com/golang-jwt/jwt/v5"

// AdminTokenPayload is the input for minting an admin token.
type AdminTokenPayload struct {
	Subject string
	JTI     string
}

// AdminTokenClaims is the JWT claim set for catalog administration.
type AdminTokenClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}
