package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"seulink/internal/authstate"
	"seulink/internal/domain"
	"seulink/internal/store"
)

var (
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrUsernameRequired = errors.New("username is required")
	ErrNotLoaded        = errors.New("profile could not be loaded")
)

// Invalidator drops cached public profiles.
type Invalidator interface {
	Delete(ctx context.Context, usernames ...string) error
}

// Service loads and saves drafts against the backend.
type Service struct {
	client store.Client
	cache  Invalidator
	now    func() time.Time
	log    logrus.FieldLogger
}

// NewService builds a Service. cache may be nil.
func NewService(client store.Client, cache Invalidator, logger logrus.FieldLogger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		now:    time.Now,
		log:    logger.WithField("component", "editor"),
	}
}

// Load reads the account's profile into a new draft. A missing record yields
// the default profile under a username nobody else holds. Other failures are
// returned together with a detached default draft: it renders, but Save
// refuses it so the stored profile is never overwritten with defaults.
func (s *Service) Load(ctx context.Context, account domain.Account) (*Draft, error) {
	p, err := s.client.Profiles().Eq("id", account.ID).Single(ctx)
	switch {
	case err == nil:
		return newDraft(account, p, true), nil
	case store.IsNotFound(err):
		def := domain.DefaultProfile(account)
		def.Username, err = store.FreeUsername(ctx, s.client.Profiles, def.Username, account.ID)
		if err != nil {
			return s.detached(account, err)
		}
		return newDraft(account, def, false), nil
	default:
		return s.detached(account, err)
	}
}

func (s *Service) detached(account domain.Account, err error) (*Draft, error) {
	s.log.WithError(err).WithField("account_id", account.ID).Error("Failed to load profile")
	d := newDraft(account, domain.DefaultProfile(account), false)
	d.detached = true
	return d, fmt.Errorf("failed to load profile: %w", err)
}

// Save persists the whole working copy and leaves a flash on the draft.
func (s *Service) Save(ctx context.Context, d *Draft) (domain.UserProfile, error) {
	saved, err := s.save(ctx, d)
	if err != nil {
		s.log.WithError(err).WithField("account_id", d.account.ID).Warn("Profile save failed")
		d.setFlash(Flash{Kind: FlashError, Key: errorKey(err), Text: err.Error(), ExpiresAt: s.now().Add(FlashTTL)})
		return domain.UserProfile{}, err
	}
	d.setFlash(Flash{Kind: FlashSuccess, Key: "saved_success", ExpiresAt: s.now().Add(FlashTTL)})
	return saved, nil
}

func (s *Service) save(ctx context.Context, d *Draft) (domain.UserProfile, error) {
	if d.isDetached() {
		return domain.UserProfile{}, ErrNotLoaded
	}
	record := d.Profile()
	record.ID = d.account.ID
	if record.Username == "" {
		return domain.UserProfile{}, ErrUsernameRequired
	}

	owners, err := s.client.Profiles().Eq("username", record.Username).Execute(ctx)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to check username: %w", err)
	}
	for _, o := range owners {
		if o.ID != record.ID {
			return domain.UserProfile{}, fmt.Errorf("%w: %s", ErrUsernameTaken, record.Username)
		}
	}

	now := s.now().UTC()
	record.UpdatedAt = &now
	saved, err := s.client.Profiles().Upsert(ctx, record)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	previous := d.markSaved(saved)
	if s.cache != nil {
		stale := []string{saved.Username}
		if previous != "" && previous != saved.Username {
			stale = append(stale, previous)
		}
		if err := s.cache.Delete(ctx, stale...); err != nil {
			s.log.WithError(err).Warn("Failed to invalidate cached profile")
		}
	}

	s.log.WithFields(logrus.Fields{
		"account_id": saved.ID,
		"username":   saved.Username,
		"links":      len(saved.Links),
	}).Info("Profile saved")
	return saved, nil
}

func errorKey(err error) string {
	switch {
	case errors.Is(err, ErrUsernameTaken):
		return "username_taken"
	case errors.Is(err, ErrUsernameRequired):
		return "username_required"
	case errors.Is(err, ErrNotLoaded):
		return "load_failed"
	default:
		return ""
	}
}

// TitleFetcher suggests a title for a link URL.
type TitleFetcher func(ctx context.Context, url string) (string, error)

// FillTitle replaces the link's title with the fetched one. Failures leave
// the link untouched and are reported through the flash.
func (s *Service) FillTitle(ctx context.Context, d *Draft, linkID string, fetch TitleFetcher) error {
	link, ok := d.Link(linkID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrLinkNotFound, linkID)
	}
	title, err := fetch(ctx, link.URL)
	if err != nil {
		s.log.WithError(err).WithField("url", link.URL).Warn("Title lookup failed")
		d.setFlash(Flash{Kind: FlashError, Text: err.Error(), ExpiresAt: s.now().Add(FlashTTL)})
		return err
	}
	if title == "" {
		return nil
	}
	return d.UpdateLink(linkID, LinkTitle, title)
}

// Drafts keeps one draft per signed-in account.
type Drafts struct {
	mu      sync.Mutex
	service *Service
	drafts  map[string]*Draft
}

// NewDrafts returns an empty registry backed by service.
func NewDrafts(service *Service) *Drafts {
	return &Drafts{service: service, drafts: make(map[string]*Draft)}
}

// Get returns the account's draft, loading it on first use. Load failures
// are not cached so the next call retries.
func (r *Drafts) Get(ctx context.Context, account domain.Account) (*Draft, error) {
	r.mu.Lock()
	d, ok := r.drafts[account.ID]
	r.mu.Unlock()
	if ok {
		return d, nil
	}

	d, err := r.service.Load(ctx, account)
	if err != nil {
		return d, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.drafts[account.ID]; ok {
		return existing, nil
	}
	r.drafts[account.ID] = d
	return d, nil
}

// Discard forgets the account's draft.
func (r *Drafts) Discard(accountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, accountID)
}

// Len reports how many drafts are held.
func (r *Drafts) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

// Watch discards drafts when their account signs out or signs in afresh.
func (r *Drafts) Watch(b *authstate.Broker) (unsubscribe func()) {
	return b.Subscribe(func(ev authstate.Event) {
		switch ev.Kind {
		case authstate.SignedOut, authstate.SignedIn:
			r.Discard(ev.Account.ID)
		}
	})
}
