package contact

import (
	"time"

	"github.com/google/uuid"
)

// Contact is an immutable contact record, looked up by registration number
type Contact struct {
	ID        uuid.UUID `json:"id"`
	Mobile    string    `json:"mobile"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	RegNumber string    `json:"reg_number"`
	CreatedAt time.Time `json:"created_at"`
}
