package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactdesk/contactdesk/internal/logging"
)

// fakeRepo is an in-memory contact store
type fakeRepo struct {
	byReg map[string]*Contact
	calls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byReg: make(map[string]*Contact)}
}

func (r *fakeRepo) Create(_ context.Context, mobile, email, address, regNumber string) (*Contact, error) {
	r.calls++
	c := &Contact{
		ID:        uuid.New(),
		Mobile:    mobile,
		Email:     email,
		Address:   address,
		RegNumber: regNumber,
		CreatedAt: time.Now(),
	}
	r.byReg[regNumber] = c
	return c, nil
}

func (r *fakeRepo) GetByRegNumber(_ context.Context, regNumber string) (*Contact, error) {
	c, ok := r.byReg[regNumber]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func newTestHandler() (*Handler, *fakeRepo) {
	repo := newFakeRepo()
	return NewHandler(repo, logging.NewLogger(true)), repo
}

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/contacts", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestCreate_Success(t *testing.T) {
	t.Parallel()

	h, repo := newTestHandler()

	rec := postJSON(t, h.Create, CreateRequest{
		Mobile:    "555-0100",
		Email:     "bob@x.com",
		Address:   "1 Main St",
		RegNumber: "REG-42",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var created Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "REG-42", created.RegNumber)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, 1, repo.calls)
}

func TestCreate_MissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"missing reg_number", CreateRequest{Mobile: "555-0100", Email: "bob@x.com", Address: "1 Main St"}},
		{"missing mobile", CreateRequest{Email: "bob@x.com", Address: "1 Main St", RegNumber: "REG-42"}},
		{"missing email", CreateRequest{Mobile: "555-0100", Address: "1 Main St", RegNumber: "REG-42"}},
		{"missing address", CreateRequest{Mobile: "555-0100", Email: "bob@x.com", RegNumber: "REG-42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo := newTestHandler()

			rec := postJSON(t, h.Create, tt.req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			// Validation rejects before the store is touched
			assert.Zero(t, repo.calls)
		})
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/contacts", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	h, repo := newTestHandler()

	_, err := repo.Create(context.Background(), "555-0100", "bob@x.com", "1 Main St", "REG-42")
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contacts/search?reg_number=REG-42", nil)
		rec := httptest.NewRecorder()
		h.Search(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var found Contact
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
		assert.Equal(t, "bob@x.com", found.Email)
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contacts/search?reg_number=REG-999", nil)
		rec := httptest.NewRecorder()
		h.Search(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing reg_number", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contacts/search", nil)
		rec := httptest.NewRecorder()
		h.Search(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
