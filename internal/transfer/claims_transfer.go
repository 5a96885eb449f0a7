package transfer

import "github.com/golang-jwt/jwt/v5"

type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
