package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single page load.
const DefaultTimeout = 15 * time.Second

var descriptionSelectors = []string{
	`meta[name="description"]`,
	`meta[property="og:description"]`,
}

// RodScraper loads pages in a headless browser launched per request.
type RodScraper struct {
	log      logrus.FieldLogger
	timeout  time.Duration
	resolver *net.Resolver
	// allowPrivate skips the resolved-address check; tests serve pages on loopback.
	allowPrivate bool
}

// NewRodScraper returns a scraper using the local Chromium install.
func NewRodScraper(logger logrus.FieldLogger) *RodScraper {
	return &RodScraper{
		log:      logger.WithField("component", "scraper"),
		timeout:  DefaultTimeout,
		resolver: net.DefaultResolver,
	}
}

// Available reports whether a browser binary can be found.
func Available() bool {
	_, ok := launcher.LookPath()
	return ok
}

// ScrapeMetadata returns the page title and meta description of rawURL.
func (s *RodScraper) ScrapeMetadata(ctx context.Context, rawURL string) (md Metadata, err error) {
	log := s.log.WithField("url", rawURL)
	if err := ValidateURL(rawURL); err != nil && !(s.allowPrivate && errors.Is(err, ErrBlockedHost)) {
		return Metadata{}, err
	}
	if !s.allowPrivate {
		if err := CheckResolvedHost(ctx, s.resolver, rawURL); err != nil {
			log.WithError(err).Warn("Refusing to load link")
			return Metadata{}, err
		}
	}

	path, ok := launcher.LookPath()
	if !ok {
		log.Error("Cannot find browser executable for rod")
		return Metadata{}, errors.New("rod browser dependency not found")
	}

	l := launcher.New().Bin(path).Headless(true)
	controlURL, err := l.Launch()
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		log.WithError(err).Error("Failed to connect to rod browser")
		return Metadata{}, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Error closing rod browser instance")
		}
	}()

	pageCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	page, err := browser.Context(pageCtx).Page(proto.TargetCreateTarget{URL: rawURL})
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to open page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
			log.Warn("Page load timed out")
			return Metadata{}, fmt.Errorf("timed out loading %s: %w", rawURL, pageCtx.Err())
		}
		return Metadata{}, fmt.Errorf("failed waiting for page load: %w", err)
	}

	info, err := page.Info()
	if err == nil {
		md.Title = strings.TrimSpace(info.Title)
	}
	md.Description = s.description(page)

	log.WithField("title", md.Title).Debug("Link metadata scraped")
	return md, nil
}

func (s *RodScraper) description(page *rod.Page) string {
	for _, selector := range descriptionSelectors {
		has, el, err := page.Has(selector)
		if err != nil || !has {
			continue
		}
		content, err := el.Attribute("content")
		if err != nil || content == nil {
			continue
		}
		if d := strings.TrimSpace(*content); d != "" {
			return d
		}
	}
	return ""
}
