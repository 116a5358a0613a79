package auth

import "github.com/golang-jwt/jwt/v5"

// Authenticator issues and checks the bearer tokens merchant back ends use to
// call the payments API.
type Authenticator interface {
	GenerateToken(clientID string) (string, error)
	ValidateToken(token string) (*jwt.Token, error)
}
