package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactdesk/contactdesk/internal/auth"
	"github.com/contactdesk/contactdesk/internal/config"
	"github.com/contactdesk/contactdesk/internal/contact"
	"github.com/contactdesk/contactdesk/internal/logging"
	"github.com/contactdesk/contactdesk/internal/user"
)

var testSecretKey = []byte("0123456789abcdef0123456789abcdef")

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func (r *memUserRepo) Create(_ context.Context, email, passwordHash string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[email]; ok {
		return nil, user.ErrDuplicateEmail
	}
	u := &user.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash}
	r.users[email] = u
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) update(userID uuid.UUID, fn func(*user.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			fn(u)
			return nil
		}
	}
	return user.ErrNotFound
}

func (r *memUserRepo) UpdatePassword(_ context.Context, userID uuid.UUID, hash string) error {
	return r.update(userID, func(u *user.User) { u.PasswordHash = hash })
}

func (r *memUserRepo) SetResetToken(_ context.Context, userID uuid.UUID, token string) error {
	return r.update(userID, func(u *user.User) { u.ResetToken = &token })
}

func (r *memUserRepo) ClearResetToken(_ context.Context, userID uuid.UUID) error {
	return r.update(userID, func(u *user.User) { u.ResetToken = nil })
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]uuid.UUID
}

func (s *memSessionStore) Create(_ context.Context, userID uuid.UUID, sessionID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = userID
	return nil
}

func (s *memSessionStore) Active(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[sessionID]
	return ok, nil
}

func (s *memSessionStore) Revoke(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *memSessionStore) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, uid := range s.sessions {
		if uid == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}

type memMailer struct {
	mu        sync.Mutex
	lastToken string
}

func (m *memMailer) SendPasswordResetEmail(_ context.Context, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastToken = token
	return nil
}

type memContactRepo struct {
	mu    sync.Mutex
	byReg map[string]*contact.Contact
}

func (r *memContactRepo) Create(_ context.Context, mobile, email, address, regNumber string) (*contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &contact.Contact{
		ID: uuid.New(), Mobile: mobile, Email: email, Address: address,
		RegNumber: regNumber, CreatedAt: time.Now(),
	}
	r.byReg[regNumber] = c
	return c, nil
}

func (r *memContactRepo) GetByRegNumber(_ context.Context, regNumber string) (*contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byReg[regNumber]
	if !ok {
		return nil, contact.ErrNotFound
	}
	return c, nil
}

type routerFixture struct {
	router http.Handler
	mailer *memMailer
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	logger := logging.NewLogger(true)

	tokens, err := auth.NewPasetoService(testSecretKey)
	require.NoError(t, err)

	reset, err := auth.NewResetTokenService(testSecretKey, 30*time.Minute)
	require.NoError(t, err)

	userRepo := &memUserRepo{users: make(map[string]*user.User)}
	sessions := &memSessionStore{sessions: make(map[string]uuid.UUID)}
	mailer := &memMailer{}

	authService := auth.NewService(userRepo, sessions, tokens, reset, mailer, logger, time.Hour)
	authHandler := auth.NewHandler(authService, logger, false, time.Hour)
	authMiddleware := auth.NewMiddleware(tokens, sessions)

	contactRepo := &memContactRepo{byReg: make(map[string]*contact.Contact)}
	contactHandler := contact.NewHandler(contactRepo, logger)

	cfg := &config.Config{}
	cfg.Server.Env = "test"

	return &routerFixture{
		router: NewRouter(cfg, authHandler, authMiddleware, contactHandler, logger),
		mailer: mailer,
	}
}

func (f *routerFixture) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *routerFixture) login(t *testing.T, email, password string) (string, int) {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	if rec.Code != http.StatusOK {
		return "", rec.Code
	}

	var session auth.AuthSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	return session.Token, rec.Code
}

func TestHealth(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)
	rec := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthScenario(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)

	// Register
	rec := f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "bob@x.com", "password": "password1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate registration conflicts
	rec = f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "bob@x.com", "password": "password2",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Protected operation without a session is rejected
	rec = f.do(t, http.MethodPost, "/contacts", "", map[string]string{
		"mobile": "555-0100", "email": "c@x.com", "address": "1 Main St", "reg_number": "REG-1",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Login
	token, code := f.login(t, "bob@x.com", "password1")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, token)

	// Submit and search contacts while authenticated
	rec = f.do(t, http.MethodPost, "/contacts", token, map[string]string{
		"mobile": "555-0100", "email": "c@x.com", "address": "1 Main St", "reg_number": "REG-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/contacts/search?reg_number=REG-1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Logout, then the same token no longer grants access
	rec = f.do(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/contacts", token, map[string]string{
		"mobile": "555-0101", "email": "d@x.com", "address": "2 Main St", "reg_number": "REG-2",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Until logging in again
	token, code = f.login(t, "bob@x.com", "password1")
	require.Equal(t, http.StatusOK, code)

	rec = f.do(t, http.MethodPost, "/contacts", token, map[string]string{
		"mobile": "555-0101", "email": "d@x.com", "address": "2 Main St", "reg_number": "REG-2",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "bob@x.com", "password": "password1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "bob@x.com", "password": "nope12345",
	})
	noSuchUser := f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@x.com", "password": "password1",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, noSuchUser.Code)
	// Same status, same body: nothing reveals whether the account exists
	assert.Equal(t, wrongPassword.Body.String(), noSuchUser.Body.String())
}

func TestPasswordResetOverHTTP(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "a@x.com", "password": "oldpassword",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Unknown email is reported as not found
	rec = f.do(t, http.MethodPost, "/auth/forgot-password", "", map[string]string{
		"email": "nobody@x.com",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Known email sends the reset mail
	rec = f.do(t, http.MethodPost, "/auth/forgot-password", "", map[string]string{
		"email": "a@x.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, f.mailer.lastToken)

	// Consume the token
	rec = f.do(t, http.MethodPost, "/auth/reset-password", "", map[string]string{
		"token": f.mailer.lastToken, "new_password": "newpassword",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Reuse fails
	rec = f.do(t, http.MethodPost, "/auth/reset-password", "", map[string]string{
		"token": f.mailer.lastToken, "new_password": "anotherpw1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// New password works, old one does not
	_, code := f.login(t, "a@x.com", "newpassword")
	assert.Equal(t, http.StatusOK, code)
	_, code = f.login(t, "a@x.com", "oldpassword")
	assert.Equal(t, http.StatusUnauthorized, code)
}
