package service

import (
	"context"

	"rental_market/internal/models"
	"rental_market/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password, role string) (int, error)
	Login(ctx context.Context, username, password, role string) (*models.User, error)
	EnsureAdmin(ctx context.Context, password string) (bool, error)
	GenerateToken(ctx context.Context, username, password, role string) (string, error)
	ParseToken(accessToken string) (*Claims, error)
}

// Listings covers the listing lifecycle: owners create and read their own,
// anyone searches, admins get/update/delete by id.
type Listings interface {
	Create(ctx context.Context, owner string, in models.ListingInput) (int, error)
	ListMine(ctx context.Context, owner string) ([]models.Listing, error)
	Search(ctx context.Context, query string) ([]models.Listing, error)
	Get(ctx context.Context, id int) (*models.Listing, error)
	Update(ctx context.Context, id int, in models.ListingInput) error
	Delete(ctx context.Context, id int) error
}

// Admin exposes the aggregated moderation view.
type Admin interface {
	Overview(ctx context.Context) (models.AdminOverview, error)
}

type Service struct {
	Authorization
	Listings
	Admin
}

func NewService(repos *repository.Repository, opts AuthOptions) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, opts),
		Listings:      NewListingService(repos.Listings, repos.Users),
		Admin:         NewAdminService(repos.Users, repos.Listings),
	}
}
