package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the database model for registered users.
// ResetToken mirrors the most recently issued password reset token so a token
// can only be consumed once; it is cleared when the reset completes.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	ResetToken   *string   `bun:"reset_token"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Contact is the database model for submitted contact records.
// Contacts are immutable after creation and are looked up by reg_number.
type Contact struct {
	bun.BaseModel `bun:"table:contacts,alias:c"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Mobile    string    `bun:"mobile,notnull"`
	Email     string    `bun:"email,notnull"`
	Address   string    `bun:"address,notnull"`
	RegNumber string    `bun:"reg_number,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
