package handlers

import (
	"errors"
	"net/http"

	"rental_market/internal/models"
	"rental_market/internal/service"
	"rental_market/internal/session"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ownerPage(c *gin.Context) {
	id, _ := session.FromContext(c)

	listings, err := h.services.ListMine(c.Request.Context(), id.Username)
	if err != nil {
		h.renderInternal(c, "listings_list_mine_failed", err, "owner", id.Username)
		return
	}
	h.render(c, http.StatusOK, tplOwner, "Your listings", gin.H{
		"Posted":   c.Query("posted") == "true",
		"Listings": listings,
	})
}

func (h *Handler) postListing(c *gin.Context) {
	id, _ := session.FromContext(c)

	var in models.ListingInput
	if err := c.ShouldBind(&in); err != nil {
		h.log.Infow("listing_bad_request_body", "err", err)
		c.Redirect(http.StatusFound, "/owner")
		return
	}

	newID, err := h.services.Listings.Create(c.Request.Context(), id.Username, in)
	if err != nil {
		if errors.Is(err, service.ErrUnknownOwner) {
			h.log.Warnw("listing_unknown_owner", "owner", id.Username)
			c.Redirect(http.StatusFound, "/")
			return
		}
		h.renderInternal(c, "listing_create_failed", err, "owner", id.Username)
		return
	}

	h.log.Infow("listing_created", "id", newID, "owner", id.Username)
	c.Redirect(http.StatusFound, "/owner?posted=true")
}

// listingsPage is public: everyone can browse and search.
func (h *Handler) listingsPage(c *gin.Context) {
	q := c.Query("q")

	listings, err := h.services.Search(c.Request.Context(), q)
	if err != nil {
		h.renderInternal(c, "listings_search_failed", err, "q", q)
		return
	}
	h.render(c, http.StatusOK, tplListings, "Listings", gin.H{
		"Query":    q,
		"Listings": listings,
	})
}
