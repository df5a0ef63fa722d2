package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"rental_market/internal/models"
)

type ListingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

var _ Listings = (*ListingRepository)(nil)

const (
	listingColumns = `id, name, address, rent, contact, posted_by`

	insertListingSQL = `INSERT INTO listings (name, address, rent, contact, posted_by) VALUES (?, ?, ?, ?, ?)`

	selectListingByIDSQL     = `SELECT ` + listingColumns + ` FROM listings WHERE id = ?`
	selectListingsByOwnerSQL = `SELECT ` + listingColumns + ` FROM listings WHERE posted_by = ? ORDER BY id ASC`
	selectListingsSQL        = `SELECT ` + listingColumns + ` FROM listings ORDER BY id ASC`

	// SQLite LIKE is case-insensitive for ASCII.
	searchListingsSQL = `SELECT ` + listingColumns + ` FROM listings
		WHERE name LIKE ? ESCAPE '\' OR address LIKE ? ESCAPE '\'
		ORDER BY id ASC`

	updateListingSQL = `UPDATE listings SET name = ?, address = ?, rent = ?, contact = ? WHERE id = ?`
	deleteListingSQL = `DELETE FROM listings WHERE id = ?`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching q as a literal substring.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// Create inserts a listing and returns its ID.
func (r *ListingRepository) Create(ctx context.Context, l models.Listing) (int, error) {
	res, err := r.db.ExecContext(ctx, insertListingSQL, l.Name, l.Address, l.Rent, l.Contact, l.PostedBy)
	if err != nil {
		return 0, fmt.Errorf("insert listing for %q: %w", l.PostedBy, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for listing: %w", err)
	}
	return int(lastID), nil
}

// GetByID returns ErrNotFound when no listing has the given id.
func (r *ListingRepository) GetByID(ctx context.Context, id int) (*models.Listing, error) {
	var l models.Listing
	err := r.db.QueryRowContext(ctx, selectListingByIDSQL, id).
		Scan(&l.ID, &l.Name, &l.Address, &l.Rent, &l.Contact, &l.PostedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("listing %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("select listing %d: %w", id, err)
	}
	return &l, nil
}

func (r *ListingRepository) ListByOwner(ctx context.Context, owner string) ([]models.Listing, error) {
	return r.query(ctx, selectListingsByOwnerSQL, owner)
}

// Search returns all listings for an empty query, otherwise those whose name
// or address contains query, ignoring case.
func (r *ListingRepository) Search(ctx context.Context, query string) ([]models.Listing, error) {
	if query == "" {
		return r.query(ctx, selectListingsSQL)
	}
	p := containsPattern(query)
	return r.query(ctx, searchListingsSQL, p, p)
}

// Update overwrites the mutable fields. Returns ErrNotFound if no row matched.
func (r *ListingRepository) Update(ctx context.Context, id int, in models.ListingInput) error {
	res, err := r.db.ExecContext(ctx, updateListingSQL, in.Name, in.Address, in.Rent, in.Contact, id)
	if err != nil {
		return fmt.Errorf("update listing %d: %w", id, err)
	}
	return requireAffected(res, id)
}

// Delete removes a listing. Returns ErrNotFound if no row matched.
func (r *ListingRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, deleteListingSQL, id)
	if err != nil {
		return fmt.Errorf("delete listing %d: %w", id, err)
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for listing %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *ListingRepository) query(ctx context.Context, q string, args ...any) ([]models.Listing, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select listings: %w", err)
	}
	defer rows.Close()

	out := make([]models.Listing, 0, 16)
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.Rent, &l.Contact, &l.PostedBy); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return out, nil
}
