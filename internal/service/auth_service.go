package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"rental_market/internal/models"
	"rental_market/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// AdminUsername is the display name of the bootstrap admin account.
	AdminUsername = "admin"
	// DefaultAdminPassword is used when no admin password is configured.
	DefaultAdminPassword = "admin123"

	defaultTokenTTL = time.Hour
)

// AuthOptions configures token signing and password hashing.
type AuthOptions struct {
	SigningKey string
	TokenTTL   time.Duration
	BcryptCost int // zero means bcrypt.DefaultCost
}

// AuthService handles user auth logic
type AuthService struct {
	users repository.Users
	opts  AuthOptions
}

func NewAuthService(users repository.Users, opts AuthOptions) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, opts: opts}
}

// SignUp creates an owner or buyer account. Admin and unknown roles are rejected
// before the store is touched.
func (s *AuthService) SignUp(ctx context.Context, username, password, role string) (int, error) {
	r, err := models.ParseRole(role)
	if err != nil || !r.CanSelfRegister() {
		return 0, ErrInvalidRole
	}
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return 0, ErrBlankCredentials
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return 0, ErrDuplicateUser
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return 0, err
	}

	id, err := s.users.Create(ctx, models.User{Username: username, PasswordHash: hash, Role: r})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, ErrDuplicateUser
		}
		return 0, err
	}
	return id, nil
}

// Login matches (username, password, role) against the stored user.
// Every mismatch collapses into ErrInvalidLogin.
func (s *AuthService) Login(ctx context.Context, username, password, role string) (*models.User, error) {
	r, err := models.ParseRole(role)
	if err != nil {
		return nil, ErrInvalidLogin
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != r {
		return nil, ErrInvalidLogin
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidLogin
	}
	return u, nil
}

// EnsureAdmin seeds the admin account if it does not exist yet and checks that
// exactly one admin account remains. It reports whether a new account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, password string) (bool, error) {
	if password == "" {
		password = DefaultAdminPassword
	}

	u, err := s.users.GetByUsername(ctx, AdminUsername)
	if err != nil {
		return false, fmt.Errorf("look up admin: %w", err)
	}

	created := false
	switch {
	case u != nil && u.Role != models.RoleAdmin:
		return false, fmt.Errorf("%w: %q has role %s", ErrAdminAccounts, AdminUsername, u.Role)
	case u == nil:
		created, err = s.createAdmin(ctx, password)
		if err != nil {
			return false, err
		}
	}

	n, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return created, fmt.Errorf("count admins: %w", err)
	}
	if n != 1 {
		return created, fmt.Errorf("%w: found %d", ErrAdminAccounts, n)
	}
	return created, nil
}

func (s *AuthService) createAdmin(ctx context.Context, password string) (bool, error) {
	hash, err := s.hashPassword(password)
	if err != nil {
		return false, err
	}
	if _, err := s.users.Create(ctx, models.User{Username: AdminUsername, PasswordHash: hash, Role: models.RoleAdmin}); err != nil {
		// another instance seeded it between our read and write
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("seed admin: %w", err)
	}
	return true, nil
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID   int         `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// GenerateToken validates credentials and returns JWT
func (s *AuthService) GenerateToken(ctx context.Context, username, password, role string) (string, error) {
	u, err := s.Login(ctx, username, password, role)
	if err != nil {
		return "", err
	}
	return s.issueToken(*u)
}

// ParseToken parses JWT and returns its claims
func (s *AuthService) ParseToken(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.opts.SigningKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := models.ParseRole(string(claims.Role)); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// prehash maps a credential of any length to a fixed 44-byte string, since
// bcrypt only accepts up to 72 bytes of input.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// helper: hash password safely
func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(password), s.opts.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password))
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(u models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	})
	return token.SignedString([]byte(s.opts.SigningKey))
}
