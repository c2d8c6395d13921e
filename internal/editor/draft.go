// Package editor holds the dashboard's in-memory working copy of a profile
// and persists it on explicit save.
package editor

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"seulink/internal/domain"
)

var (
	ErrLinkNotFound     = errors.New("link not found")
	ErrUnknownLinkField = errors.New("unknown link field")
)

// LinkField names an editable field of a link.
type LinkField string

const (
	LinkTitle  LinkField = "title"
	LinkURL    LinkField = "url"
	LinkActive LinkField = "active"
)

// FlashKind is the tone of a transient message.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// FlashTTL is how long a save message stays visible.
const FlashTTL = 3 * time.Second

// Flash is a transient message shown after a save.
// Key is a message catalog key; Text is used when Key is empty.
type Flash struct {
	Kind      FlashKind
	Key       string
	Text      string
	ExpiresAt time.Time
}

// Draft is the working copy of one account's profile. Edits never reach
// the store until Service.Save.
type Draft struct {
	mu      sync.Mutex
	account domain.Account
	profile domain.UserProfile
	// savedUsername is the username currently persisted, for cache invalidation.
	savedUsername string
	flash         *Flash
	newID         func() string
	// detached drafts were built without reading the stored profile.
	detached bool
}

func newDraft(account domain.Account, p domain.UserProfile, persisted bool) *Draft {
	p = p.Clone()
	p.ID = account.ID
	if p.Links == nil {
		p.Links = []domain.LinkItem{}
	}
	d := &Draft{account: account, profile: p, newID: uuid.NewString}
	if persisted {
		d.savedUsername = p.Username
	}
	return d
}

// Account returns the owner of the draft.
func (d *Draft) Account() domain.Account { return d.account }

// Profile returns a copy of the working copy.
func (d *Draft) Profile() domain.UserProfile {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.profile.Clone()
}

func (d *Draft) edit(fn func(p *domain.UserProfile)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.profile)
}

// SetUsername stores the sanitized username.
func (d *Draft) SetUsername(v string) {
	d.edit(func(p *domain.UserProfile) { p.Username = domain.SanitizeUsername(v) })
}

func (d *Draft) SetFullName(v string) {
	d.edit(func(p *domain.UserProfile) { p.FullName = v })
}

func (d *Draft) SetBio(v string) {
	d.edit(func(p *domain.UserProfile) { p.Bio = v })
}

func (d *Draft) SetAvatarURL(v string) {
	d.edit(func(p *domain.UserProfile) { p.AvatarURL = v })
}

func (d *Draft) SetThemeColor(v string) {
	d.edit(func(p *domain.UserProfile) { p.ThemeColor = v })
}

// Replace swaps the whole working copy, keeping the account's id.
func (d *Draft) Replace(p domain.UserProfile) {
	d.edit(func(cur *domain.UserProfile) {
		next := p.Clone()
		next.ID = d.account.ID
		next.Username = domain.SanitizeUsername(next.Username)
		if next.Links == nil {
			next.Links = []domain.LinkItem{}
		}
		*cur = next
	})
}

// AddLink appends an empty, active link and returns it.
func (d *Draft) AddLink() domain.LinkItem {
	link := domain.LinkItem{ID: d.newID(), Active: true}
	d.edit(func(p *domain.UserProfile) { p.Links = append(p.Links, link) })
	return link
}

// RemoveLink drops the link with id. Unknown ids are ignored.
func (d *Draft) RemoveLink(id string) {
	d.edit(func(p *domain.UserProfile) {
		kept := p.Links[:0:0]
		for _, l := range p.Links {
			if l.ID != id {
				kept = append(kept, l)
			}
		}
		p.Links = kept
	})
}

// Link returns the link with id.
func (d *Draft) Link(id string) (domain.LinkItem, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, l := range d.profile.Links {
		if l.ID == id {
			return l, true
		}
	}
	return domain.LinkItem{}, false
}

// UpdateLink sets one field of the link with id.
func (d *Draft) UpdateLink(id string, field LinkField, value string) error {
	var active bool
	if field == LinkActive {
		var err error
		if active, err = strconv.ParseBool(value); err != nil {
			return fmt.Errorf("invalid active value %q: %w", value, err)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.profile.Links {
		l := &d.profile.Links[i]
		if l.ID != id {
			continue
		}
		switch field {
		case LinkTitle:
			l.Title = value
		case LinkURL:
			l.URL = value
		case LinkActive:
			l.Active = active
		default:
			return fmt.Errorf("%w: %s", ErrUnknownLinkField, field)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrLinkNotFound, id)
}

// Flash returns the pending message, or nil once it has expired.
func (d *Draft) Flash(now time.Time) *Flash {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.flash == nil {
		return nil
	}
	if !now.Before(d.flash.ExpiresAt) {
		d.flash = nil
		return nil
	}
	f := *d.flash
	return &f
}

func (d *Draft) isDetached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detached
}

func (d *Draft) setFlash(f Flash) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flash = &f
}

// markSaved records what was persisted without touching edits made meanwhile.
func (d *Draft) markSaved(saved domain.UserProfile) (previous string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	previous = d.savedUsername
	d.savedUsername = saved.Username
	if saved.UpdatedAt != nil {
		t := *saved.UpdatedAt
		d.profile.UpdatedAt = &t
	}
	return previous
}
