package handlers

import (
	"errors"
	"net/http"

	"rental_market/internal/models"
	"rental_market/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errInvalidBodyPref = "invalid body: "
	errListings        = "failed to load listings"
	errCreateListing   = "failed to create listing"
)

// SignInRequest is the token endpoint payload.
type SignInRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"pw1"`
	// One of owner, buyer, admin
	Role string `json:"role" example:"owner"`
}

// ListingsResponse wraps a listing collection.
type ListingsResponse struct {
	Count    int              `json:"count"`
	Listings []models.Listing `json:"listings"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err, "request_id", c.GetString(requestIDKey)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Issue an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      SignInRequest  true  "Credentials"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/auth/sign-in [post]
func (h *Handler) apiSignIn(c *gin.Context) {
	var in credentialsForm
	if err := c.ShouldBindJSON(&in); err != nil {
		h.log.Infow("auth_bad_request_body", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), in.Username, in.Password, in.Role)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLogin) {
			h.log.Infow("auth_sign_in_failed", "username", in.Username)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to issue token", "auth_sign_in_error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary      Search listings
// @Description  Case-insensitive substring match on name or address. Empty q returns all listings.
// @Tags         listings
// @Produce      json
// @Param        q    query     string  false  "Search text"
// @Success      200  {object}  ListingsResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/listings [get]
func (h *Handler) apiSearchListings(c *gin.Context) {
	listings, err := h.services.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListings, "api_search_failed", err)
		return
	}
	c.JSON(http.StatusOK, ListingsResponse{Count: len(listings), Listings: listings})
}

// @Summary      List my listings
// @Tags         listings
// @Produce      json
// @Success      200  {object}  ListingsResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/listings/mine [get]
// @Security     BearerAuth
func (h *Handler) apiMyListings(c *gin.Context) {
	claims, _ := claimsFrom(c)

	listings, err := h.services.ListMine(c.Request.Context(), claims.Username)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListings, "api_list_mine_failed", err, "owner", claims.Username)
		return
	}
	c.JSON(http.StatusOK, ListingsResponse{Count: len(listings), Listings: listings})
}

// @Summary      Post a listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Param        body  body      models.ListingInput  true  "Listing fields"
// @Success      201   {object}  models.Listing
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/listings [post]
// @Security     BearerAuth
func (h *Handler) apiCreateListing(c *gin.Context) {
	claims, _ := claimsFrom(c)

	var in models.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	id, err := h.services.Listings.Create(c.Request.Context(), claims.Username, in)
	if err != nil {
		if errors.Is(err, service.ErrUnknownOwner) {
			c.JSON(http.StatusForbidden, gin.H{"error": "owner account not found"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errCreateListing, "api_create_listing_failed", err, "owner", claims.Username)
		return
	}

	c.JSON(http.StatusCreated, models.Listing{
		ID:       id,
		Name:     in.Name,
		Address:  in.Address,
		Rent:     in.Rent,
		Contact:  in.Contact,
		PostedBy: claims.Username,
	})
}
