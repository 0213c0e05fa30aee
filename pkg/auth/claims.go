package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role allowed on the admin surface.
const RoleAdmin = "admin"

// AdminTokenPayload captures the data available when minting an admin JWT.
type AdminTokenPayload struct {
	Subject string
	Role    string
	JTI     string
}

// AdminTokenClaims represents the typed JWT presented by the CMS back office.
type AdminTokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
