package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"strings"
	"testing"
	"time"

	"rental_market/internal/models"
	"rental_market/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const testSigningKey = "test-signing-key"

func newTestAuth(users repository.Users) *AuthService {
	return NewAuthService(users, AuthOptions{
		SigningKey: testSigningKey,
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
}

// --- SignUp tests ---

func TestAuthService_SignUp_SuccessHashesPassword(t *testing.T) {
	users := newFakeUsers()
	svc := newTestAuth(users)

	id, err := svc.SignUp(context.Background(), "alice", "s3cr3t", "owner")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}

	if len(users.createCalls) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(users.createCalls))
	}
	call := users.createCalls[0]
	if call.Username != "alice" || call.Role != models.RoleOwner {
		t.Errorf("unexpected user passed to Create: %+v", call)
	}
	if call.PasswordHash == "s3cr3t" {
		t.Errorf("expected hashed password not equal to raw password")
	}
	if err := verifyPassword(call.PasswordHash, "s3cr3t"); err != nil {
		t.Errorf("stored hash does not verify with original password: %v", err)
	}
}

func TestAuthService_SignUpThenLogin_LongPassword(t *testing.T) {
	svc := newTestAuth(newFakeUsers())
	long := strings.Repeat("p", 73)

	if _, err := svc.SignUp(context.Background(), "alice", long, "owner"); err != nil {
		t.Fatalf("SignUp with 73-byte password: %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", long, "owner"); err != nil {
		t.Fatalf("Login with 73-byte password: %v", err)
	}
	// every byte of the credential is significant, not just the first 72
	if _, err := svc.Login(context.Background(), "alice", strings.Repeat("p", 72)+"q", "owner"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("password differing after byte 72 must not match, got %v", err)
	}
}

func TestAuthService_SignUp_RejectsAdminRegardlessOfFields(t *testing.T) {
	inputs := []struct{ user, pass string }{
		{"mallory", "pw"},
		{"", ""},
		{"admin", "admin123"},
		{"x", "   "},
	}
	for _, in := range inputs {
		users := newFakeUsers()
		svc := newTestAuth(users)

		_, err := svc.SignUp(context.Background(), in.user, in.pass, "admin")
		if !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("SignUp(%q, %q, admin): expected ErrInvalidRole, got %v", in.user, in.pass, err)
		}
		if len(users.createCalls) != 0 {
			t.Fatalf("Create must not be called for admin signup")
		}
	}
}

func TestAuthService_SignUp_RejectsUnknownRole(t *testing.T) {
	svc := newTestAuth(newFakeUsers())

	for _, role := range []string{"", "Owner", "landlord"} {
		if _, err := svc.SignUp(context.Background(), "bob", "pw", role); !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("role %q: expected ErrInvalidRole, got %v", role, err)
		}
	}
}

func TestAuthService_SignUp_BlankCredentials(t *testing.T) {
	users := newFakeUsers()
	svc := newTestAuth(users)

	_, err := svc.SignUp(context.Background(), "bob", "   ", "buyer")
	if !errors.Is(err, ErrBlankCredentials) {
		t.Fatalf("expected ErrBlankCredentials, got %v", err)
	}
	if len(users.createCalls) != 0 {
		t.Fatalf("expected no Create calls, got %d", len(users.createCalls))
	}
}

func TestAuthService_SignUp_DuplicateIsCaseSensitive(t *testing.T) {
	users := newFakeUsers(models.User{Username: "alice", Role: models.RoleOwner})
	svc := newTestAuth(users)

	if _, err := svc.SignUp(context.Background(), "alice", "pw", "buyer"); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
	if _, err := svc.SignUp(context.Background(), "Alice", "pw", "buyer"); err != nil {
		t.Fatalf("differently cased name should be accepted, got %v", err)
	}
}

func TestAuthService_SignUp_UniqueRaceMapsToDuplicate(t *testing.T) {
	users := newFakeUsers()
	users.createErr = errors.Join(errors.New("insert user"), repository.ErrDuplicate)
	svc := newTestAuth(users)

	if _, err := svc.SignUp(context.Background(), "carl", "pass123", "owner"); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestAuthService_SignUp_RepoError(t *testing.T) {
	users := newFakeUsers()
	users.getErr = errors.New("db down")
	svc := newTestAuth(users)

	if _, err := svc.SignUp(context.Background(), "carl", "pass123", "owner"); err == nil {
		t.Fatalf("expected repo error, got nil")
	}
}

// --- Login tests ---

func TestAuthService_SignUpThenLogin(t *testing.T) {
	for _, role := range []string{"owner", "buyer"} {
		svc := newTestAuth(newFakeUsers())
		if _, err := svc.SignUp(context.Background(), "user-"+role, "pw-"+role, role); err != nil {
			t.Fatalf("SignUp: %v", err)
		}
		u, err := svc.Login(context.Background(), "user-"+role, "pw-"+role, role)
		if err != nil {
			t.Fatalf("Login after SignUp (%s): %v", role, err)
		}
		if string(u.Role) != role {
			t.Fatalf("expected role %s, got %s", role, u.Role)
		}
	}
}

func TestAuthService_Login_MismatchesAreGeneric(t *testing.T) {
	svc := newTestAuth(newFakeUsers())
	if _, err := svc.SignUp(context.Background(), "diana", "letmein", "owner"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	cases := []struct{ name, user, pass, role string }{
		{"unknown user", "ghost", "letmein", "owner"},
		{"wrong password", "diana", "nope", "owner"},
		{"wrong role", "diana", "letmein", "buyer"},
		{"unknown role", "diana", "letmein", "superuser"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.user, tc.pass, tc.role)
			if !errors.Is(err, ErrInvalidLogin) {
				t.Fatalf("expected ErrInvalidLogin, got %v", err)
			}
		})
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	users := newFakeUsers()
	users.getErr = errors.New("query failed")
	svc := newTestAuth(users)

	_, err := svc.Login(context.Background(), "john", "pw", "buyer")
	if err == nil || errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("expected raw repo error, got %v", err)
	}
}

// --- EnsureAdmin tests ---

func TestAuthService_EnsureAdmin_SeedsOnceWithDefaultPassword(t *testing.T) {
	users := newFakeUsers()
	svc := newTestAuth(users)

	created, err := svc.EnsureAdmin(context.Background(), "")
	if err != nil || !created {
		t.Fatalf("first EnsureAdmin: created=%v err=%v", created, err)
	}
	created, err = svc.EnsureAdmin(context.Background(), "")
	if err != nil || created {
		t.Fatalf("second EnsureAdmin: created=%v err=%v", created, err)
	}

	n, _ := users.CountByRole(context.Background(), models.RoleAdmin)
	if n != 1 {
		t.Fatalf("expected exactly one admin, got %d", n)
	}
	if _, err := svc.Login(context.Background(), "admin", "admin123", "admin"); err != nil {
		t.Fatalf("seeded admin login failed: %v", err)
	}
}

func TestAuthService_EnsureAdmin_ConfiguredPassword(t *testing.T) {
	svc := newTestAuth(newFakeUsers())

	if _, err := svc.EnsureAdmin(context.Background(), "s3cure"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if _, err := svc.Login(context.Background(), "admin", "admin123", "admin"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("default password must not work when configured, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "admin", "s3cure", "admin"); err != nil {
		t.Fatalf("configured password login failed: %v", err)
	}
}

func TestAuthService_EnsureAdmin_RejectsExtraAdmins(t *testing.T) {
	users := newFakeUsers(models.User{Username: "root", PasswordHash: "h", Role: models.RoleAdmin})
	svc := newTestAuth(users)

	created, err := svc.EnsureAdmin(context.Background(), "")
	if !errors.Is(err, ErrAdminAccounts) {
		t.Fatalf("expected ErrAdminAccounts with two admins, got %v", err)
	}
	if !created {
		t.Fatalf("admin account should still have been created")
	}
}

func TestAuthService_EnsureAdmin_NameHeldByNonAdmin(t *testing.T) {
	users := newFakeUsers(models.User{Username: AdminUsername, PasswordHash: "h", Role: models.RoleOwner})
	svc := newTestAuth(users)

	created, err := svc.EnsureAdmin(context.Background(), "")
	if !errors.Is(err, ErrAdminAccounts) || created {
		t.Fatalf("expected ErrAdminAccounts without creating, got created=%v err=%v", created, err)
	}
	if len(users.createCalls) != 0 {
		t.Fatalf("no account should be created, got %d Create calls", len(users.createCalls))
	}
}

// --- Token tests ---

func TestAuthService_GenerateToken_Success(t *testing.T) {
	svc := newTestAuth(newFakeUsers())
	if _, err := svc.SignUp(context.Background(), "diana", "letmein", "owner"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	token, err := svc.GenerateToken(context.Background(), "diana", "letmein", "owner")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.Username != "diana" || claims.Role != models.RoleOwner || claims.UserID != 1 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_GenerateToken_InvalidLogin(t *testing.T) {
	svc := newTestAuth(newFakeUsers())

	_, err := svc.GenerateToken(context.Background(), "ghost", "pw", "buyer")
	if !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin, got: %v", err)
	}
}

func TestAuthService_ParseToken_Malformed(t *testing.T) {
	svc := newTestAuth(newFakeUsers())
	if _, err := svc.ParseToken("not-a-jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

func signClaims(t *testing.T, method jwt.SigningMethod, key any, c *Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, c).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func TestAuthService_ParseToken_InvalidSignature(t *testing.T) {
	svc := newTestAuth(newFakeUsers())

	now := time.Now()
	bad := signClaims(t, jwt.SigningMethodHS256, []byte("different-key"), &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		Username:         "eve",
		Role:             models.RoleAdmin,
	})

	if _, err := svc.ParseToken(bad); err == nil {
		t.Fatalf("expected signature verification error")
	}
}

func TestAuthService_ParseToken_Expired(t *testing.T) {
	svc := newTestAuth(newFakeUsers())

	past := time.Now().Add(-2 * time.Hour)
	expired := signClaims(t, jwt.SigningMethodHS256, []byte(testSigningKey), &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past),
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Minute)),
		},
		Username: "frank",
		Role:     models.RoleBuyer,
	})

	_, err := svc.ParseToken(expired)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected jwt.ErrTokenExpired, got %v", err)
	}
}

func TestAuthService_ParseToken_UnknownRoleClaim(t *testing.T) {
	svc := newTestAuth(newFakeUsers())

	tok := signClaims(t, jwt.SigningMethodHS256, []byte(testSigningKey), &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Username:         "gina",
		Role:             models.Role("root"),
	})

	if _, err := svc.ParseToken(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_ParseToken_UnexpectedAlg(t *testing.T) {
	svc := newTestAuth(newFakeUsers())

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	tokenStr := signClaims(t, jwt.SigningMethodRS256, privateKey, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Username:         "hank",
		Role:             models.RoleOwner,
	})

	if _, err := svc.ParseToken(tokenStr); err == nil {
		t.Fatalf("expected error due to unexpected signing method")
	}
}
