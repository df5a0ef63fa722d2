package service

import (
	"context"
	"errors"
	"fmt"

	"rental_market/internal/models"
	"rental_market/internal/repository"
)

type ListingService struct {
	listings repository.Listings
	users    repository.Users
}

func NewListingService(listings repository.Listings, users repository.Users) *ListingService {
	return &ListingService{listings: listings, users: users}
}

// Create stores a listing posted by owner. Fields are not validated; empty
// strings are accepted. The owner must be a registered user with role owner.
func (s *ListingService) Create(ctx context.Context, owner string, in models.ListingInput) (int, error) {
	u, err := s.users.GetByUsername(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("look up owner %q: %w", owner, err)
	}
	if u == nil || u.Role != models.RoleOwner {
		return 0, ErrUnknownOwner
	}

	return s.listings.Create(ctx, models.Listing{
		Name:     in.Name,
		Address:  in.Address,
		Rent:     in.Rent,
		Contact:  in.Contact,
		PostedBy: owner,
	})
}

func (s *ListingService) ListMine(ctx context.Context, owner string) ([]models.Listing, error) {
	return s.listings.ListByOwner(ctx, owner)
}

// Search returns every listing when query is empty.
func (s *ListingService) Search(ctx context.Context, query string) ([]models.Listing, error) {
	return s.listings.Search(ctx, query)
}

func (s *ListingService) Get(ctx context.Context, id int) (*models.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	return l, mapNotFound(err)
}

func (s *ListingService) Update(ctx context.Context, id int, in models.ListingInput) error {
	return mapNotFound(s.listings.Update(ctx, id, in))
}

func (s *ListingService) Delete(ctx context.Context, id int) error {
	return mapNotFound(s.listings.Delete(ctx, id))
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrListingNotFound, err)
	}
	return err
}
