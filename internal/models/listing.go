package models

// Listing is a rental property posted by an owner.
// PostedBy holds the owner's username; it is a by-value reference with no FK.
type Listing struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Rent     string `json:"rent"` // free text, e.g. "1000" or "1000/month"
	Contact  string `json:"contact"`
	PostedBy string `json:"posted_by"`
}

// ListingInput carries the mutable listing fields.
type ListingInput struct {
	Name    string `json:"name" form:"name"`
	Address string `json:"address" form:"address"`
	Rent    string `json:"rent" form:"rent"`
	Contact string `json:"contact" form:"contact"`
}

// AdminOverview is the aggregated admin view: all users plus listings grouped by owner.
type AdminOverview struct {
	Users           []User
	Owners          []string // keys of ListingsByOwner, first-seen order
	ListingsByOwner map[string][]Listing
}
