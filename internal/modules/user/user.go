package user

import (
	"time"

	"github.com/google/uuid"
)

// User is a storefront account. Buyers and sellers share the same record;
// selling is a role granted separately.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
