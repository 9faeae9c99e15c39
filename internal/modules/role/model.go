package role

import (
	"time"

	"github.com/google/uuid"
)

// Role is a named capability granted to a user.
type Role string

const (
	// Seller may add products to the catalog.
	Seller Role = "seller"
)

// Grant records that a user holds a role.
type Grant struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	GrantedAt time.Time `json:"granted_at"`
}

// Intent is a durable request to grant a role once the user has authenticated.
// It replaces any client-side "pending grant" flag: sign-up records the intent,
// sign-in reconciles it.
type Intent struct {
	UserID      uuid.UUID  `json:"user_id"`
	Role        Role       `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	FulfilledAt *time.Time `json:"fulfilled_at,omitempty"`
}
