package scraper

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://example.com/a"))
	assert.NoError(t, ValidateURL("http://example.com"))

	for _, bad := range []string{"", "example.com", "ftp://example.com", "javascript:alert(1)", "https://"} {
		assert.ErrorIs(t, ValidateURL(bad), ErrInvalidURL, bad)
	}

	for _, local := range []string{
		"http://localhost:8080/admin",
		"http://api.localhost/",
		"http://127.0.0.1/",
		"http://10.0.0.5/",
		"http://192.168.1.1/",
		"http://169.254.169.254/latest/meta-data",
		"http://[::1]:9000/",
		"http://0.0.0.0/",
	} {
		assert.ErrorIs(t, ValidateURL(local), ErrBlockedHost, local)
	}
	assert.NoError(t, ValidateURL("http://93.184.216.34/"))
}

func TestCheckResolvedHost(t *testing.T) {
	err := CheckResolvedHost(context.Background(), net.DefaultResolver, "http://127.0.0.1:9/")
	assert.ErrorIs(t, err, ErrBlockedHost)

	err = CheckResolvedHost(context.Background(), net.DefaultResolver, "http://8.8.8.8/")
	assert.NoError(t, err)
}

func TestRodScraper_RejectsPrivateHost(t *testing.T) {
	s := NewRodScraper(logrus.New())
	_, err := s.ScrapeMetadata(context.Background(), "http://169.254.169.254/latest/meta-data")
	assert.ErrorIs(t, err, ErrBlockedHost)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.ScrapeMetadata(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestRodScraper_RejectsInvalidURL(t *testing.T) {
	s := NewRodScraper(logrus.New())
	_, err := s.ScrapeMetadata(context.Background(), "not a url")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestRodScraper_ScrapeMetadata(t *testing.T) {
	if os.Getenv("SCRAPER_INTEGRATION") == "" || !Available() {
		t.Skip("set SCRAPER_INTEGRATION and install Chromium to run")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title> My Blog </title>`+
			`<meta name="description" content="Notes and essays"></head><body></body></html>`)
	}))
	defer srv.Close()

	s := NewRodScraper(logrus.New())
	s.allowPrivate = true
	md, err := s.ScrapeMetadata(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "My Blog", md.Title)
	assert.Equal(t, "Notes and essays", md.Description)
}
