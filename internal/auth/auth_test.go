package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"creator-marketplace/internal/models"
)

// setGinTestMode ensures Gin does not write noisy logs during tests
func setGinTestMode() { gin.SetMode(gin.TestMode) }

type staticRoles map[uuid.UUID]models.Role

func (s staticRoles) Role(_ context.Context, userID uuid.UUID) (models.Role, error) {
	return s[userID], nil
}

type failingRoles struct{}

func (failingRoles) Role(context.Context, uuid.UUID) (models.Role, error) {
	return "", errors.New("db down")
}

func TestTokenRoundTrip(t *testing.T) {
	v := NewVerifier("test-secret", "https://auth.example.com")
	userID := uuid.New()

	token, err := v.GenerateToken(userID, "jo@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := v.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	got, err := claims.UserID()
	if err != nil || got != userID {
		t.Fatalf("expected user %s, got %s (%v)", userID, got, err)
	}
	if claims.Email != "jo@example.com" {
		t.Errorf("unexpected email %q", claims.Email)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	v := NewVerifier("test-secret", "")
	userID := uuid.New()

	expired, _ := v.GenerateToken(userID, "", -time.Minute)
	if _, err := v.ValidateToken(expired); err == nil {
		t.Errorf("expected expired token to fail")
	}

	other, _ := NewVerifier("other-secret", "").GenerateToken(userID, "", time.Hour)
	if _, err := v.ValidateToken(other); err == nil {
		t.Errorf("expected token signed with another secret to fail")
	}

	wrongIssuer, _ := NewVerifier("test-secret", "https://evil.example.com").GenerateToken(userID, "", time.Hour)
	if _, err := NewVerifier("test-secret", "https://auth.example.com").ValidateToken(wrongIssuer); err == nil {
		t.Errorf("expected issuer mismatch to fail")
	}

	if _, err := NewVerifier("", "").ValidateToken(expired); err == nil {
		t.Errorf("expected uninitialized verifier to fail")
	}
}

func TestAuthMiddleware(t *testing.T) {
	setGinTestMode()
	v := NewVerifier("test-secret", "")
	userID := uuid.New()
	token, _ := v.GenerateToken(userID, "", time.Hour)

	r := gin.New()
	r.Use(AuthMiddleware(v))
	r.GET("/secure", func(c *gin.Context) {
		id, ok := GetUserID(c)
		if !ok || id != userID {
			c.Status(http.StatusTeapot)
			return
		}
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestAuthorizerDecide(t *testing.T) {
	a := NewAuthorizer()

	cases := []struct {
		role models.Role
		cap  Capability
		want bool
	}{
		{models.RoleBrand, CapManageBriefs, true},
		{models.RoleBrand, CapApplyToBriefs, false},
		{models.RoleCreator, CapApplyToBriefs, true},
		{models.RoleCreator, CapSearchCreators, false},
		{models.RoleCreator, CapModerate, false},
		{models.RoleCreator, CapManageBrandProfile, false},
		{models.RoleBrand, CapManageBrandProfile, true},
		{models.RoleAdmin, CapModerate, true},
		{models.RoleAdmin, CapManageBriefs, true},
		{"", CapApplyToBriefs, false},
	}
	for _, tc := range cases {
		d := a.Decide(tc.role, tc.cap)
		if d.Allowed != tc.want {
			t.Errorf("Decide(%q, %q) = %v, want %v", tc.role, tc.cap, d.Allowed, tc.want)
		}
		if !d.Allowed && d.Reason == "" {
			t.Errorf("Decide(%q, %q) denied without a reason", tc.role, tc.cap)
		}
	}
}

func TestRequireCapability(t *testing.T) {
	setGinTestMode()
	v := NewVerifier("test-secret", "")
	brand, creator := uuid.New(), uuid.New()
	roles := staticRoles{brand: models.RoleBrand, creator: models.RoleCreator}

	newRouter := func(lookup RoleLookup) *gin.Engine {
		r := gin.New()
		r.Use(AuthMiddleware(v), RequireCapability(lookup, NewAuthorizer(), CapManageBriefs))
		r.POST("/brief", func(c *gin.Context) {
			if GetRole(c) != models.RoleBrand {
				c.Status(http.StatusTeapot)
				return
			}
			c.Status(http.StatusCreated)
		})
		return r
	}

	do := func(r *gin.Engine, userID uuid.UUID) int {
		token, _ := v.GenerateToken(userID, "", time.Hour)
		req := httptest.NewRequest(http.MethodPost, "/brief", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	r := newRouter(roles)
	if code := do(r, brand); code != http.StatusCreated {
		t.Errorf("brand: expected 201, got %d", code)
	}
	if code := do(r, creator); code != http.StatusForbidden {
		t.Errorf("creator: expected 403, got %d", code)
	}
	if code := do(r, uuid.New()); code != http.StatusForbidden {
		t.Errorf("no profile: expected 403, got %d", code)
	}
	if code := do(newRouter(failingRoles{}), brand); code != http.StatusInternalServerError {
		t.Errorf("lookup failure: expected 500, got %d", code)
	}
}
