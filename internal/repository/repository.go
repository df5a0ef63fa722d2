package repository

import (
	"context"
	"database/sql"
	"errors"

	"rental_market/internal/models"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a UNIQUE constraint.
var ErrDuplicate = errors.New("duplicate")

type Users interface {
	Create(ctx context.Context, u models.User) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int, error)
}

type Listings interface {
	Create(ctx context.Context, l models.Listing) (int, error)
	GetByID(ctx context.Context, id int) (*models.Listing, error)
	ListByOwner(ctx context.Context, owner string) ([]models.Listing, error)
	Search(ctx context.Context, query string) ([]models.Listing, error)
	Update(ctx context.Context, id int, in models.ListingInput) error
	Delete(ctx context.Context, id int) error
}

type Repository struct {
	Users    Users
	Listings Listings
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:    NewUserRepository(db),
		Listings: NewListingRepository(db),
	}
}
