// Package scraper suggests link titles by loading the target page.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrDisabled is returned when link previews are turned off.
var ErrDisabled = errors.New("link preview is disabled")

// ErrInvalidURL is returned for anything that is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid link url")

// ErrBlockedHost is returned for links pointing at loopback, private or
// link-local addresses.
var ErrBlockedHost = errors.New("link host is not publicly routable")

// Metadata is what a link preview shows.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Scraper fetches page metadata for a link.
type Scraper interface {
	ScrapeMetadata(ctx context.Context, rawURL string) (Metadata, error)
}

// Disabled is the Scraper used when no browser is configured.
type Disabled struct{}

func (Disabled) ScrapeMetadata(context.Context, string) (Metadata, error) {
	return Metadata{}, ErrDisabled
}

// ValidateURL accepts absolute http and https URLs whose host is not a
// local name or a non-public IP literal.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("%w: %s", ErrBlockedHost, host)
	}
	if ip := net.ParseIP(host); ip != nil && blockedIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedHost, host)
	}
	return nil
}

// CheckResolvedHost resolves the URL's host and rejects it when any address
// is not publicly routable.
func CheckResolvedHost(ctx context.Context, resolver *net.Resolver, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	addrs, err := resolver.LookupIPAddr(ctx, u.Hostname())
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", u.Hostname(), err)
	}
	for _, a := range addrs {
		if blockedIP(a.IP) {
			return fmt.Errorf("%w: %s resolves to %s", ErrBlockedHost, u.Hostname(), a.IP)
		}
	}
	return nil
}

func blockedIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast()
}
