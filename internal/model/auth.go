package model

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin:
		return true
	default:
		return false
	}
}

func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,username"`
	Email     string `json:"email" binding:"required,email,max=100"`
	Password  string `json:"password" binding:"required,strongpassword"`
	FirstName string `json:"firstName" binding:"omitempty,personname"`
	LastName  string `json:"lastName" binding:"omitempty,personname"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AccountStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// Account is the safe view of a user record. It never carries the password hash.
type Account struct {
	ID        int64
	Username  string
	Email     string
	FirstName *string
	LastName  *string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountCredentials pairs an account with its stored hash for login only.
type AccountCredentials struct {
	Account
	PasswordHash string
}

type NewAccount struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	Role         Role
}

type AccountStats struct {
	ChallengesSolved int64 `json:"challengesSolved"`
	TotalPoints      int64 `json:"totalPoints"`
}

// RevokedToken is a blacklist entry keyed by the token hash.
type RevokedToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
