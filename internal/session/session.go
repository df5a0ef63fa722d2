package session

import (
	"encoding/gob"
	"errors"

	"rental_market/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	identityKey = "IDENTITY"
	// contextKey holds the per-request Identity loaded by Bind.
	contextKey  = "identity"
)

// ErrForbidden is returned when the current identity lacks the required role.
var ErrForbidden = errors.New("forbidden")

// Identity is what the session remembers about a logged-in user.
type Identity struct {
	Username string
	Role     models.Role
}

func init() {
	gob.Register(Identity{})
}

// StoreOptions configures the cookie store.
type StoreOptions struct {
	Name   string
	Secret string
	MaxAge int // seconds; 0 means a browser-session cookie
}

func cookieOptions(maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	}
}

// Middleware installs the cookie-backed session store on the router.
func Middleware(opts StoreOptions) gin.HandlerFunc {
	store := cookie.NewStore([]byte(opts.Secret))
	store.Options(cookieOptions(opts.MaxAge))
	return sessions.Sessions(opts.Name, store)
}

// SetIdentity stores id in the session cookie.
func SetIdentity(c *gin.Context, id Identity) error {
	s := sessions.Default(c)
	s.Set(identityKey, id)
	c.Set(contextKey, id)
	return s.Save()
}

// GetIdentity reads the identity from the session cookie. ok is false for
// anonymous requests.
func GetIdentity(c *gin.Context) (Identity, bool) {
	s := sessions.Default(c)
	if obj := s.Get(identityKey); obj != nil {
		if id, ok := obj.(Identity); ok {
			return id, true
		}
	}
	return Identity{}, false
}

// Clear drops the identity and expires the cookie.
func Clear(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(cookieOptions(-1))
	c.Set(contextKey, nil)
	return s.Save()
}

// Bind loads the session identity once per request and threads it through the
// gin context. Must run after Middleware.
func Bind(c *gin.Context) {
	if id, ok := GetIdentity(c); ok {
		c.Set(contextKey, id)
	}
	c.Next()
}

// FromContext returns the identity bound to this request.
func FromContext(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(contextKey)
	if !exists {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// Allows reports whether id satisfies any of the required roles.
// With no roles given, any authenticated identity is allowed.
func Allows(id Identity, authenticated bool, required ...models.Role) bool {
	if !authenticated {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if id.Role == r {
			return true
		}
	}
	return false
}

// Authorize returns the request identity, or ErrForbidden.
func Authorize(c *gin.Context, required ...models.Role) (Identity, error) {
	id, ok := FromContext(c)
	if !Allows(id, ok, required...) {
		return Identity{}, ErrForbidden
	}
	return id, nil
}
