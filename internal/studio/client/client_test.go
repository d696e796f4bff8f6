package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"memorial-app/internal/domain/memorials"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// draftServer is an in-memory stand-in for the memorial API.
type draftServer struct {
	mu     sync.Mutex
	drafts map[string]*memorials.Memorial
}

func newDraftServer() *draftServer {
	return &draftServer{drafts: map[string]*memorials.Memorial{}}
}

func (s *draftServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /memorials", func(w http.ResponseWriter, r *http.Request) {
		var m memorials.Memorial
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		m.ID = uuid.NewString()
		s.mu.Lock()
		s.drafts[m.ID] = &m
		s.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(&m)
	})
	mux.HandleFunc("PUT /memorials/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var m memorials.Memorial
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		m.ID = id
		s.mu.Lock()
		s.drafts[id] = &m
		s.mu.Unlock()
		json.NewEncoder(w).Encode(&m)
	})
	mux.HandleFunc("GET /memorials/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		m, ok := s.drafts[r.PathValue("id")]
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
			return
		}
		json.NewEncoder(w).Encode(m)
	})
	return mux
}

func TestSave_CreateThenUpdate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newDraftServer().handler())
	defer srv.Close()
	c := New(srv.URL, "test-token")

	res, err := c.Save(context.Background(), &memorials.Memorial{FirstName: "John"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	require.NotEmpty(t, res.ID)

	res2, err := c.Save(context.Background(), &memorials.Memorial{ID: res.ID, FirstName: "Johnny"})
	require.NoError(t, err)
	assert.False(t, res2.Created)
	assert.Equal(t, res.ID, res2.ID)
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newDraftServer().handler())
	defer srv.Close()
	c := New(srv.URL, "test-token")

	birth := time.Date(1950, 6, 15, 0, 0, 0, 0, time.UTC)
	death := time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)
	in := &memorials.Memorial{
		FirstName:  "John",
		MiddleName: "Q",
		LastName:   "Doe",
		Nickname:   "Johnny",
		Title:      "In Loving Memory",
		Headline:   "A life well lived",
		Obituary:   "John was born...",
		BirthDate:  &birth,
		DeathDate:  &death,
		Privacy:    memorials.PrivacyPublic,
	}

	res, err := c.Save(context.Background(), in)
	require.NoError(t, err)

	got, err := c.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, in.FirstName, got.FirstName)
	assert.Equal(t, in.MiddleName, got.MiddleName)
	assert.Equal(t, in.LastName, got.LastName)
	assert.Equal(t, in.Nickname, got.Nickname)
	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, in.Headline, got.Headline)
	assert.Equal(t, in.Obituary, got.Obituary)
	require.NotNil(t, got.BirthDate)
	assert.True(t, got.BirthDate.Equal(birth))
	require.NotNil(t, got.DeathDate)
	assert.True(t, got.DeathDate.Equal(death))
	assert.Equal(t, in.Privacy, got.Privacy)
}

func TestSave_CancelledContextSurfacesAsCancellation(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)
	c := New(srv.URL, "")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Save(ctx, &memorials.Memorial{FirstName: "John"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_ErrorMapping(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/unauthorized"):
			w.WriteHeader(http.StatusUnauthorized)
		case strings.HasSuffix(r.URL.Path, "/conflict"):
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "This URL is already taken", "code": "slug_taken"})
		}
	}))
	defer srv.Close()
	c := New(srv.URL, "")

	err := c.do(context.Background(), http.MethodGet, "/unauthorized", nil, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = c.do(context.Background(), http.MethodGet, "/conflict", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "slug_taken", apiErr.Code)
}

func TestAuthorizationHeader(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]bool{"available": true})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok123")
	ok, err := c.CheckURL(context.Background(), "john-smith-123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bearer tok123", got)
}
