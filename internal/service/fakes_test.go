package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"rental_market/internal/models"
	"rental_market/internal/repository"
)

// fakeUsers is an in-memory repository.Users with injectable failures.
type fakeUsers struct {
	byName map[string]models.User
	nextID int

	getErr    error
	createErr error
	listErr   error

	createCalls []models.User
}

func newFakeUsers(seed ...models.User) *fakeUsers {
	f := &fakeUsers{byName: map[string]models.User{}}
	for _, u := range seed {
		f.nextID++
		u.ID = f.nextID
		f.byName[u.Username] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (int, error) {
	f.createCalls = append(f.createCalls, u)
	if f.createErr != nil {
		return 0, f.createErr
	}
	if _, ok := f.byName[u.Username]; ok {
		return 0, fmt.Errorf("insert user %q: %w", u.Username, repository.ErrDuplicate)
	}
	f.nextID++
	u.ID = f.nextID
	f.byName[u.Username] = u
	return u.ID, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) List(_ context.Context) ([]models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.User, 0, len(f.byName))
	for _, u := range f.byName {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) CountByRole(_ context.Context, role models.Role) (int, error) {
	n := 0
	for _, u := range f.byName {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// fakeListings is an in-memory repository.Listings kept in id order.
type fakeListings struct {
	rows   []models.Listing
	nextID int

	searchErr error
}

func (f *fakeListings) Create(_ context.Context, l models.Listing) (int, error) {
	f.nextID++
	l.ID = f.nextID
	f.rows = append(f.rows, l)
	return l.ID, nil
}

func (f *fakeListings) GetByID(_ context.Context, id int) (*models.Listing, error) {
	for _, l := range f.rows {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, fmt.Errorf("listing %d: %w", id, repository.ErrNotFound)
}

func (f *fakeListings) ListByOwner(_ context.Context, owner string) ([]models.Listing, error) {
	out := []models.Listing{}
	for _, l := range f.rows {
		if l.PostedBy == owner {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListings) Search(_ context.Context, query string) ([]models.Listing, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	q := strings.ToLower(query)
	out := []models.Listing{}
	for _, l := range f.rows {
		if q == "" || strings.Contains(strings.ToLower(l.Name), q) || strings.Contains(strings.ToLower(l.Address), q) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListings) Update(_ context.Context, id int, in models.ListingInput) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Name, f.rows[i].Address, f.rows[i].Rent, f.rows[i].Contact = in.Name, in.Address, in.Rent, in.Contact
			return nil
		}
	}
	return fmt.Errorf("listing %d: %w", id, repository.ErrNotFound)
}

func (f *fakeListings) Delete(_ context.Context, id int) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("listing %d: %w", id, repository.ErrNotFound)
}
