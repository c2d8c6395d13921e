package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seulink/internal/domain"
	"seulink/internal/viewer"
)

type stubProfiles map[string]domain.UserProfile

func (s stubProfiles) Lookup(_ context.Context, username string) viewer.Lookup {
	p, ok := s[username]
	if !ok {
		return viewer.Lookup{Status: viewer.NotFound}
	}
	return viewer.Lookup{Status: viewer.Found, Profile: p}
}

func TestParseCardCommand(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"/card alice", "alice", true},
		{"/card@SeuLinkBot @alice", "alice", true},
		{"/card", "", false},
		{"/card a b", "", false},
		{"/cards alice", "", false},
	}
	for _, tt := range tests {
		got, ok := parseCardCommand(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestCard(t *testing.T) {
	h := &Handler{
		profiles: stubProfiles{"alice": {
			Username: "alice",
			FullName: "Alice",
			Bio:      "Designer",
			Links: []domain.LinkItem{
				{ID: "1", Title: "Site", URL: "https://alice.dev", Active: true},
				{ID: "2", Title: "Old", URL: "https://old", Active: false},
			},
		}},
		baseURL: "https://seu.link",
		log:     logrus.New(),
	}

	c, err := h.card(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "https://seu.link/#/u/alice", c.url)
	assert.True(t, strings.HasPrefix(c.summary, "Alice\nDesigner"))
	assert.Contains(t, c.summary, "Site: https://alice.dev")
	assert.NotContains(t, c.summary, "Old")
	assert.Equal(t, "alice.vcf", c.filename)
	assert.NotEmpty(t, c.qr)
	assert.Contains(t, string(c.vcf), "FN:Alice")

	_, err = h.card(context.Background(), "ghost")
	assert.EqualError(t, err, `Profile "ghost" not found.`)
}
