package handlers

import (
	"net/http"

	"rental_market/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	tplLogin       = "login.html"
	tplSignup      = "signup.html"
	tplOwner       = "owner.html"
	tplListings    = "listings.html"
	tplAdmin       = "admin.html"
	tplEditListing = "edit_listing.html"
	tplError       = "error.html"

	errInternal = "Something went wrong. Please try again later."
)

// render fills the layout fields every page expects and writes the template.
func (h *Handler) render(c *gin.Context, code int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	if id, ok := session.FromContext(c); ok {
		data["User"] = &id
	}
	c.HTML(code, name, data)
}

func (h *Handler) renderNotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, tplError, "Not Found", gin.H{
		"Error": "The requested page does not exist.",
	})
}

// renderInternal logs err and shows a generic failure page.
func (h *Handler) renderInternal(c *gin.Context, logKey string, err error, kv ...interface{}) {
	fields := append([]interface{}{"err", err, "request_id", c.GetString(requestIDKey)}, kv...)
	h.log.Errorw(logKey, fields...)
	h.render(c, http.StatusInternalServerError, tplError, "Error", gin.H{"Error": errInternal})
}
