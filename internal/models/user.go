package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles recognised by the platform.
const (
	RolePublic = "public"
	RolePolice = "police"
	RoleAdmin  = "admin"
)

// User represents a registered account. Points is the reputation
// balance mutated only by additive adjustments from validation
// outcomes, never set directly.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"index;default:public" json:"role"`
	// PoliceID is the officer's badge identifier. Canonical officer
	// identity for case ownership; empty for non-police accounts.
	PoliceID  string    `json:"police_id,omitempty"`
	Points    int       `json:"points"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID for the user if ID is not yet set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
