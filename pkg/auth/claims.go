package auth

import (
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// StaffTokenPayload captures the data available when minting a staff JWT.
type StaffTokenPayload struct {
	StaffID uint
	Role    enums.StaffRole
	JTI     string
}

// StaffClaims represents the typed JWT carried by front-desk terminals.
type StaffClaims struct {
	StaffID uint            `json:"staff_id"`
	Role    enums.StaffRole `json:"role"`
	jwt.RegisteredClaims
}
