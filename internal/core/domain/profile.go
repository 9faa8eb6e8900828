package domain

import (
	"errors"
	"time"
)

const (
	RoleTruckOwner    = "truck_owner"
	RoleBusinessOwner = "business_owner"
	RoleAdmin         = "admin"
	// RoleNone is the unset role: the profile exists but an admin has not
	// assigned it a role yet, so every protected surface stays closed.
	RoleNone = ""
)

var ErrProfileNotFound = errors.New("profile not found")
var ErrEmailExists = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidRole reports whether role is assignable. RoleNone is valid: assigning
// it revokes a previously granted role.
func ValidRole(role string) bool {
	switch role {
	case RoleTruckOwner, RoleBusinessOwner, RoleAdmin, RoleNone:
		return true
	}
	return false
}

// Profile maps an authenticated principal to a role and display attributes.
// Created implicitly at signup with an unset role; only admins mutate Role.
type Profile struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Role      string    `json:"role" bson:"role,omitempty"`
	FullName  string    `json:"full_name" bson:"full_name"`
	Email     string    `json:"email" bson:"email"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Credential holds the local password login for a profile.
type Credential struct {
	ProfileID    string    `bson:"profile_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}
