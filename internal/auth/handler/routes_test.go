package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/myauth/auth-service/internal/auth/domain"
	"github.com/myauth/auth-service/internal/auth/handler"
	"github.com/myauth/auth-service/internal/auth/ledger"
	"github.com/myauth/auth-service/internal/auth/service"
	"github.com/myauth/auth-service/pkg/constant"
)

// memoryRepo is an in-memory UserRepository for exercising the whole
// registration-to-logout sequence without Postgres.
type memoryRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*domain.User)}
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (r *memoryRepo) GetByUniqueFields(_ context.Context, email, phone, idNumber string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) || u.Phone == phone || u.IDNumber == idNumber {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

// capturingSender records the last verification token it was asked to
// deliver, the way a user would read it out of their inbox.
type capturingSender struct {
	mu       sync.Mutex
	lastBody string
}

func (s *capturingSender) Send(_ context.Context, _, _, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastBody = htmlBody
	return nil
}

func (s *capturingSender) tokenFromLastEmail(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	_, after, found := strings.Cut(s.lastBody, "token=")
	require.True(t, found, "no token link in email body")
	token, _, _ := strings.Cut(after, `"`)
	return token
}

func TestAuthFlow_EndToEnd(t *testing.T) {
	repo := newMemoryRepo()
	sender := &capturingSender{}
	tokenService := service.NewTokenService("access-secret", "refresh-secret", 15, 10080, 1440, 60)
	memLedger := ledger.NewMemoryLedger()
	hasher := &service.BcryptHasher{Cost: bcrypt.MinCost}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userService := service.NewUserService(repo, tokenService, memLedger, hasher)
	verificationService := service.NewVerificationService(repo, tokenService, hasher, sender, "https://app.example.com", logger)
	authHandler := handler.NewAuthHandler(userService, verificationService, 15*time.Minute, 7*24*time.Hour, false, logger)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	post := func(target string, payload any) *http.Response {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req := httptest.NewRequest("POST", target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	register := map[string]string{
		"first_name": "Ada", "last_name": "Lovelace", "gender": "Female",
		"dob": "1990-12-10", "address": "1 Analytical Way", "id_number": "ID-0001",
		"phone": "+254700000001", "email": "a@x.com", "password": "pw12345678",
	}

	// Register: 201, user is unverified.
	resp := post("/register", register)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	stored, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsVerified)

	// Duplicate registration: 409, names the colliding field, creates nothing.
	resp = post("/register", register)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Login before verification is blocked.
	resp = post("/login", map[string]string{"email": "a@x.com", "password": "pw12345678"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Verify with the token from the registration email.
	verifyToken := sender.tokenFromLastEmail(t)
	req := httptest.NewRequest("GET", "/verify-email/"+verifyToken, nil)
	vresp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, vresp.StatusCode)

	stored, err = repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)

	// Verifying again is an idempotent success.
	req = httptest.NewRequest("GET", "/verify-email/"+verifyToken, nil)
	vresp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, vresp.StatusCode)

	// Login now succeeds and activates the refresh token.
	resp = post("/login", map[string]string{"email": "a@x.com", "password": "pw12345678"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
	require.NotEmpty(t, tokens.RefreshToken)

	active, err := memLedger.IsActive(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.True(t, active)

	// Refresh mints a new access token; the refresh token stays active.
	req = httptest.NewRequest("POST", "/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: constant.RefreshTokenCookie, Value: tokens.RefreshToken})
	rresp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, rresp.StatusCode)

	active, err = memLedger.IsActive(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.True(t, active)

	// Logout revokes it.
	req = httptest.NewRequest("POST", "/logout", nil)
	req.AddCookie(&http.Cookie{Name: constant.RefreshTokenCookie, Value: tokens.RefreshToken})
	lresp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, lresp.StatusCode)

	active, err = memLedger.IsActive(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.False(t, active)

	// Refresh after logout: unauthorized, even though the token signature
	// and embedded expiry are still valid.
	req = httptest.NewRequest("POST", "/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: constant.RefreshTokenCookie, Value: tokens.RefreshToken})
	rresp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, rresp.StatusCode)
}

func TestPasswordResetFlow_EndToEnd(t *testing.T) {
	repo := newMemoryRepo()
	sender := &capturingSender{}
	tokenService := service.NewTokenService("access-secret", "refresh-secret", 15, 10080, 1440, 60)
	memLedger := ledger.NewMemoryLedger()
	hasher := &service.BcryptHasher{Cost: bcrypt.MinCost}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userService := service.NewUserService(repo, tokenService, memLedger, hasher)
	verificationService := service.NewVerificationService(repo, tokenService, hasher, sender, "https://app.example.com", logger)
	authHandler := handler.NewAuthHandler(userService, verificationService, 15*time.Minute, 7*24*time.Hour, false, logger)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	hashed, err := bcrypt.GenerateFromPassword([]byte("old-password-1"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &domain.User{
		ID: "user-123", FirstName: "Ada", Email: "a@x.com",
		PasswordHash: string(hashed), IsVerified: true,
	}))

	post := func(target string, payload any) *http.Response {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req := httptest.NewRequest("POST", target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := post("/forgot-password", map[string]string{"email": "a@x.com"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resetToken := sender.tokenFromLastEmail(t)
	resp = post("/reset-password/"+resetToken, map[string]string{"password": "new-password-1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Old password no longer works, new one does.
	resp = post("/login", map[string]string{"email": "a@x.com", "password": "old-password-1"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = post("/login", map[string]string{"email": "a@x.com", "password": "new-password-1"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
