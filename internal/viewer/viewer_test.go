package viewer

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seulink/internal/domain"
	"seulink/internal/storage"
	"seulink/internal/store"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func setupTestClient(t *testing.T) store.Client {
	t.Helper()

	engine, err := storage.Open(t.TempDir(), testLogger())
	require.NoError(t, err, "Failed to open test engine")
	client := storage.NewMockClient(engine, []byte("test-secret"))
	t.Cleanup(func() { _ = client.Close() })
	return client
}

type mapCache struct {
	profiles map[string]domain.UserProfile
	sets     int
}

func (m *mapCache) Get(_ context.Context, username string) (domain.UserProfile, error) {
	p, ok := m.profiles[username]
	if !ok {
		return p, errors.New("miss")
	}
	return p, nil
}

func (m *mapCache) Set(_ context.Context, p domain.UserProfile) error {
	m.profiles[p.Username] = p
	m.sets++
	return nil
}

type failingClient struct{ store.Client }

func (failingClient) Profiles() store.Query[domain.UserProfile] { return failingQuery{} }

type failingQuery struct{}

func (q failingQuery) Eq(string, any) store.Query[domain.UserProfile] { return q }
func (failingQuery) Single(context.Context) (domain.UserProfile, error) {
	return domain.UserProfile{}, &store.Error{Code: "PGRST301", Message: "JWT expired", Status: 401}
}
func (failingQuery) Execute(context.Context) ([]domain.UserProfile, error) { return nil, nil }
func (failingQuery) Upsert(_ context.Context, p domain.UserProfile) (domain.UserProfile, error) {
	return p, nil
}

func TestLookup(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()
	_, err := client.Profiles().Upsert(ctx, domain.UserProfile{ID: "1", Username: "alice", Links: []domain.LinkItem{}})
	require.NoError(t, err)

	cache := &mapCache{profiles: map[string]domain.UserProfile{}}
	s := NewService(client, cache, testLogger())

	got := s.Lookup(ctx, "alice")
	require.True(t, got.OK())
	assert.Equal(t, "1", got.Profile.ID)
	assert.Equal(t, 1, cache.sets)

	got = s.Lookup(ctx, "alice")
	require.True(t, got.OK())
	assert.Equal(t, 1, cache.sets, "Second lookup is served from cache")

	missing := s.Lookup(ctx, "nobody")
	assert.Equal(t, NotFound, missing.Status)
	assert.True(t, store.IsNotFound(missing.Err))

	assert.Equal(t, NotFound, s.Lookup(ctx, "  ").Status)
}

func TestLookup_DuplicateUsernameIsNotFound(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()
	for _, id := range []string{"1", "2"} {
		_, err := client.Profiles().Upsert(ctx, domain.UserProfile{ID: id, Username: "twin"})
		require.NoError(t, err)
	}

	got := NewService(client, nil, testLogger()).Lookup(ctx, "twin")
	assert.Equal(t, NotFound, got.Status)
}

func TestLookup_BackendFailure(t *testing.T) {
	s := NewService(failingClient{}, nil, testLogger())

	got := s.Lookup(context.Background(), "alice")
	assert.Equal(t, Failed, got.Status)
	assert.True(t, store.HasCode(got.Err, "PGRST301"))
}

func TestNewCard(t *testing.T) {
	p := domain.UserProfile{
		Username: "alice",
		Links: []domain.LinkItem{
			{ID: "a", Title: "Shown", URL: "https://a", Active: true},
			{ID: "b", Title: "Hidden", URL: "https://b", Active: false},
		},
	}

	c := NewCard(p)
	assert.Equal(t, domain.DefaultThemeColor, c.Background)
	assert.True(t, c.Dark)
	assert.True(t, c.BioIsDefault)
	assert.False(t, c.Empty)
	require.Len(t, c.Links, 1)
	assert.Equal(t, "Shown", c.Links[0].Title)
	assert.Equal(t, "A", c.Initial)
	assert.Equal(t, "alice", c.DisplayName())

	light := NewCard(domain.UserProfile{Username: "bob", FullName: "Bob", Bio: "hi", ThemeColor: "#ffffff"})
	assert.False(t, light.Dark)
	assert.True(t, light.Empty)
	assert.False(t, light.BioIsDefault)
	assert.Equal(t, "Bob", light.DisplayName())
}

func TestNewCard_AllLinksInactiveIsNotEmpty(t *testing.T) {
	c := NewCard(domain.UserProfile{Links: []domain.LinkItem{{ID: "a"}}})
	assert.False(t, c.Empty)
	assert.Empty(t, c.Links)
}

func TestVCard(t *testing.T) {
	p := domain.UserProfile{
		Username:  "alice",
		FullName:  "Alice Smith",
		Bio:       "line one\nline two",
		AvatarURL: "https://img.example/a.png",
	}

	raw, err := VCard(p, PublicURL("https://seu.link", "alice"))
	require.NoError(t, err)
	text := string(raw)

	assert.True(t, strings.HasPrefix(text, "BEGIN:VCARD\r\nVERSION:3.0\r\n"))
	assert.Contains(t, text, "FN:Alice Smith\r\n")
	assert.Contains(t, text, "URL:https://seu.link/#/u/alice\r\n")
	assert.Contains(t, text, "PHOTO;VALUE=uri:")
	assert.Contains(t, text, "https://img.example/a.png")
	assert.Contains(t, text, `NOTE:line one\nline two`)
	assert.True(t, strings.HasSuffix(text, "END:VCARD\r\n"))
	assert.Equal(t, "alice.vcf", VCardFilename(p))
}

func TestVCard_FallsBackToUsername(t *testing.T) {
	raw, err := VCard(domain.UserProfile{Username: "bob"}, "https://x/#/u/bob")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "FN:bob\r\n")
	assert.NotContains(t, string(raw), "PHOTO")
}

func TestQRCode(t *testing.T) {
	raw, err := QRCode("https://seu.link/#/u/alice", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, DefaultQRSize, img.Bounds().Dx())
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://seu.link/#/u/alice", PublicURL("https://seu.link", "alice"))
}
