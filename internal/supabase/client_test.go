package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seulink/internal/domain"
	"seulink/internal/store"
)

const testKey = "anon-key"

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c, err := New(srv.URL, testKey, logger, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("not a url", testKey, logrus.New())
	assert.Error(t, err)
}

func TestQuery_SingleSendsFilterAndObjectAccept(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/profiles", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "eq.ana", r.URL.Query().Get("username"))
		assert.Equal(t, "application/vnd.pgrst.object+json", r.Header.Get("Accept"))
		assert.Equal(t, testKey, r.Header.Get("apikey"))
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"u1","username":"ana","links":[{"id":"l1","title":"Site","url":"https://a","active":true}],"updated_at":"2024-03-01T12:00:00.123456+00:00"}`)
	})

	p, err := c.Profiles().Eq("username", "ana").Single(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	require.Len(t, p.Links, 1)
	assert.True(t, p.Links[0].Active)
	require.NotNil(t, p.UpdatedAt)
	assert.Equal(t, 2024, p.UpdatedAt.Year())
}

func TestQuery_SingleMapsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = io.WriteString(w, `{"code":"PGRST116","details":"The result contains 0 rows","hint":null,"message":"JSON object requested, multiple (or no) rows returned"}`)
	})

	_, err := c.Profiles().Eq("id", "missing").Single(context.Background())
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))

	var apiErr *store.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotAcceptable, apiErr.Status)
	assert.Equal(t, "The result contains 0 rows", apiErr.Details)
}

func TestQuery_ExecuteUsesCallerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "eq.#000000", r.URL.Query().Get("theme_color"))
		_, _ = io.WriteString(w, `[{"id":"u1"},{"id":"u2"}]`)
	})

	ctx := store.WithAccessToken(context.Background(), "user-token")
	rows, err := c.Profiles().Eq("theme_color", "#000000").Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestQuery_UpsertMergesDuplicates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/profiles", r.URL.Path)
		assert.Equal(t, "resolution=merge-duplicates,return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body domain.UserProfile
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body.ID)
		body.Bio = "stored"

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]domain.UserProfile{body})
	})

	saved, err := c.Profiles().Upsert(context.Background(), domain.UserProfile{ID: "u1", Username: "ana"})
	require.NoError(t, err)
	assert.Equal(t, "stored", saved.Bio)
}

func TestQuery_UpsertSurfacesPolicyErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":"42501","message":"new row violates row-level security policy for table \"profiles\""}`)
	})

	_, err := c.Profiles().Upsert(context.Background(), domain.UserProfile{ID: "u1"})
	require.Error(t, err)
	assert.True(t, store.HasCode(err, "42501"))
	assert.False(t, store.IsNotFound(err))
}

func TestDecodeError_NonJSON(t *testing.T) {
	e := decodeError(http.StatusBadGateway, []byte("upstream down"))
	assert.Equal(t, "upstream down", e.Message)
	assert.Equal(t, http.StatusBadGateway, e.Status)
}
