package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"rental_market/internal/models"
	"rental_market/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) adminPage(c *gin.Context) {
	ov, err := h.services.Overview(c.Request.Context())
	if err != nil {
		h.renderInternal(c, "admin_overview_failed", err)
		return
	}
	h.render(c, http.StatusOK, tplAdmin, "Admin", gin.H{"Overview": ov})
}

// listingID parses the :id path parameter; a malformed id is treated as unknown.
func listingID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) editListingPage(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	l, err := h.services.Get(c.Request.Context(), id)
	if err != nil {
		h.handleListingErr(c, "admin_get_listing_failed", id, err)
		return
	}
	h.render(c, http.StatusOK, tplEditListing, "Edit listing", gin.H{"Listing": l})
}

func (h *Handler) editListing(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	var in models.ListingInput
	if err := c.ShouldBind(&in); err != nil {
		h.log.Infow("listing_bad_request_body", "err", err, "id", id)
		c.Redirect(http.StatusFound, "/admin/edit/"+strconv.Itoa(id))
		return
	}

	if err := h.services.Update(c.Request.Context(), id, in); err != nil {
		h.handleListingErr(c, "admin_update_listing_failed", id, err)
		return
	}
	h.log.Infow("listing_updated", "id", id)
	c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) deleteListing(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	if err := h.services.Delete(c.Request.Context(), id); err != nil {
		h.handleListingErr(c, "admin_delete_listing_failed", id, err)
		return
	}
	h.log.Infow("listing_deleted", "id", id)
	c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) handleListingErr(c *gin.Context, logKey string, id int, err error) {
	if errors.Is(err, service.ErrListingNotFound) {
		h.log.Infow("listing_not_found", "id", id)
		h.renderNotFound(c)
		return
	}
	h.renderInternal(c, logKey, err, "id", id)
}
