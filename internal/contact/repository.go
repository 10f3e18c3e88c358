package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/contactdesk/contactdesk/internal/database"
)

var ErrNotFound = errors.New("contact not found")

// Repository handles contact data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new contact record
func (r *Repository) Create(ctx context.Context, mobile, email, address, regNumber string) (*Contact, error) {
	dbContact := &database.Contact{
		Mobile:    mobile,
		Email:     email,
		Address:   address,
		RegNumber: regNumber,
	}

	_, err := r.db.NewInsert().
		Model(dbContact).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return mapDBContactToModel(dbContact), nil
}

// GetByRegNumber retrieves the most recent contact for a registration number
func (r *Repository) GetByRegNumber(ctx context.Context, regNumber string) (*Contact, error) {
	dbContact := new(database.Contact)
	err := r.db.NewSelect().
		Model(dbContact).
		Where("reg_number = ?", regNumber).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact by reg number: %w", err)
	}

	return mapDBContactToModel(dbContact), nil
}

// mapDBContactToModel converts database model to domain model
func mapDBContactToModel(dbc *database.Contact) *Contact {
	return &Contact{
		ID:        dbc.ID,
		Mobile:    dbc.Mobile,
		Email:     dbc.Email,
		Address:   dbc.Address,
		RegNumber: dbc.RegNumber,
		CreatedAt: dbc.CreatedAt,
	}
}
