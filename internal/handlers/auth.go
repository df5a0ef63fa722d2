package handlers

import (
	"errors"
	"net/http"

	"rental_market/internal/models"
	"rental_market/internal/service"
	"rental_market/internal/session"

	"github.com/gin-gonic/gin"
)

// Form messages shown to the user.
const (
	msgInvalidLogin   = "Invalid login. Try again."
	msgInvalidRole    = "Cannot create admin account."
	msgDuplicateUser  = "Username already exists."
	msgBlankFields    = "Username and password are required."
	msgMalformedInput = "Malformed form submission."
)

// Single, shared credentials payload for login, signup and the token endpoint.
type credentialsForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role" json:"role"`
}

func (h *Handler) loginPage(c *gin.Context) {
	h.render(c, http.StatusOK, tplLogin, "Login", nil)
}

func (h *Handler) login(c *gin.Context) {
	var in credentialsForm
	if err := c.ShouldBind(&in); err != nil {
		h.log.Infow("auth_bad_request_body", "err", err)
		h.render(c, http.StatusBadRequest, tplLogin, "Login", gin.H{"Error": msgMalformedInput})
		return
	}

	u, err := h.services.Login(c.Request.Context(), in.Username, in.Password, in.Role)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLogin) {
			h.log.Infow("auth_login_failed", "username", in.Username, "role", in.Role)
			h.render(c, http.StatusOK, tplLogin, "Login", gin.H{"Error": msgInvalidLogin})
			return
		}
		h.renderInternal(c, "auth_login_error", err, "username", in.Username)
		return
	}

	if err := session.SetIdentity(c, session.Identity{Username: u.Username, Role: u.Role}); err != nil {
		h.renderInternal(c, "session_save_failed", err, "username", u.Username)
		return
	}
	h.log.Infow("auth_login", "username", u.Username, "role", u.Role)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) signupPage(c *gin.Context) {
	h.render(c, http.StatusOK, tplSignup, "Sign up", nil)
}

func (h *Handler) signup(c *gin.Context) {
	var in credentialsForm
	if err := c.ShouldBind(&in); err != nil {
		h.log.Infow("auth_bad_request_body", "err", err)
		h.render(c, http.StatusBadRequest, tplSignup, "Sign up", gin.H{"Error": msgMalformedInput})
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), in.Username, in.Password, in.Role)
	if err != nil {
		msg := ""
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			msg = msgInvalidRole
		case errors.Is(err, service.ErrDuplicateUser):
			msg = msgDuplicateUser
		case errors.Is(err, service.ErrBlankCredentials):
			msg = msgBlankFields
		default:
			h.renderInternal(c, "auth_sign_up_error", err, "username", in.Username)
			return
		}
		h.log.Infow("auth_sign_up_failed", "username", in.Username, "role", in.Role, "err", err)
		h.render(c, http.StatusOK, tplSignup, "Sign up", gin.H{"Error": msg})
		return
	}

	h.log.Infow("auth_sign_up", "id", id, "username", in.Username, "role", in.Role)
	c.Redirect(http.StatusFound, "/")
}

// dashboard sends an authenticated user to the landing page for their role.
func (h *Handler) dashboard(c *gin.Context) {
	c.Redirect(http.StatusFound, dashboardPath(c))
}

func dashboardPath(c *gin.Context) string {
	id, ok := session.FromContext(c)
	if !ok {
		return "/"
	}
	switch id.Role {
	case models.RoleOwner:
		return "/owner"
	case models.RoleBuyer:
		return "/listings"
	case models.RoleAdmin:
		return "/admin"
	default:
		return "/"
	}
}

func (h *Handler) logout(c *gin.Context) {
	if err := session.Clear(c); err != nil {
		h.log.Errorw("session_clear_failed", "err", err)
	}
	c.Redirect(http.StatusFound, "/")
}
