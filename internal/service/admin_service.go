package service

import (
	"context"
	"fmt"

	"rental_market/internal/models"
	"rental_market/internal/repository"
)

type AdminService struct {
	users    repository.Users
	listings repository.Listings
}

func NewAdminService(users repository.Users, listings repository.Listings) *AdminService {
	return &AdminService{users: users, listings: listings}
}

// Overview loads all users and all listings and groups the listings by owner.
func (s *AdminService) Overview(ctx context.Context) (models.AdminOverview, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return models.AdminOverview{}, fmt.Errorf("load users: %w", err)
	}
	listings, err := s.listings.Search(ctx, "")
	if err != nil {
		return models.AdminOverview{}, fmt.Errorf("load listings: %w", err)
	}

	owners, byOwner := groupByOwner(listings)
	return models.AdminOverview{
		Users:           users,
		Owners:          owners,
		ListingsByOwner: byOwner,
	}, nil
}

// groupByOwner keeps store order inside each group and first-seen order of owners.
func groupByOwner(listings []models.Listing) ([]string, map[string][]models.Listing) {
	owners := make([]string, 0)
	byOwner := make(map[string][]models.Listing)
	for _, l := range listings {
		if _, seen := byOwner[l.PostedBy]; !seen {
			owners = append(owners, l.PostedBy)
		}
		byOwner[l.PostedBy] = append(byOwner[l.PostedBy], l)
	}
	return owners, byOwner
}
