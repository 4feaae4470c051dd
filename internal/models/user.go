package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Role string

const (
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"

	// older mobile clients register sellers as farmers
	roleFarmerAlias = "farmer"
)

// ParseRole normalizes a registration role, accepting "farmer" as a seller.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(RoleSeller), roleFarmerAlias:
		return RoleSeller, true
	case string(RoleBuyer):
		return RoleBuyer, true
	default:
		return "", false
	}
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsSeller() bool {
	return u != nil && u.Role == RoleSeller
}

func (u *User) IsBuyer() bool {
	return u != nil && u.Role == RoleBuyer
}

// for registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Role     string `json:"role" validate:"required"`
}

// for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// returned by both register and login
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}

// JWT claims structure, the subject carries the username
type Claims struct {
	jwt.RegisteredClaims
}
