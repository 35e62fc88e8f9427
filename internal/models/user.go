package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role on the platform
type Role string

const (
	RolePassenger Role = "passenger"
	RoleDriver    Role = "driver"
	RoleBoth      Role = "both"
	RoleAdmin     Role = "admin"
)

// CanDrive reports whether the role is allowed to offer rides
func (r Role) CanDrive() bool {
	return r == RoleDriver || r == RoleBoth
}

// User represents a registered platform user
type User struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Email         string     `json:"email" db:"email"`
	Phone         string     `json:"phone" db:"phone"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	Role          Role       `json:"role" db:"role"`
	IsAvailable   bool       `json:"is_available" db:"is_available"`
	CurrentLat    *float64   `json:"current_lat,omitempty" db:"current_lat"`
	CurrentLng    *float64   `json:"current_lng,omitempty" db:"current_lng"`
	AverageRating *float64   `json:"average_rating,omitempty" db:"-"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	LastSeenAt    *time.Time `json:"last_seen_at,omitempty" db:"last_seen_at"`
}

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role" binding:"required"`
}

// Validate validates the registration payload beyond binding tags
func (r *RegisterRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	switch r.Role {
	case RolePassenger, RoleDriver, RoleBoth:
		return nil
	case RoleAdmin:
		return errors.New("admin accounts cannot be self-registered")
	default:
		return errors.New("role must be one of: passenger, driver, both")
	}
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// UpdateLocationRequest represents a driver availability/location update
type UpdateLocationRequest struct {
	Lat         float64 `json:"lat" binding:"required"`
	Lng         float64 `json:"lng" binding:"required"`
	IsAvailable bool    `json:"is_available"`
}

// AuthResponse is returned on successful register/login
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
