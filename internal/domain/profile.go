package domain

import (
	"strings"
	"time"
	"unicode"
)

// ProfilesTable is the logical table holding one UserProfile per account.
const ProfilesTable = "profiles"

// DefaultThemeColor is used when a profile has no theme color set.
const DefaultThemeColor = "#000000"

// Palette lists the preset theme colors offered by the editor.
// Any other color value is accepted as a custom color.
var Palette = []string{
	"#000000", // Black
	"#2563EB", // Blue
	"#7C3AED", // Purple
	"#DB2777", // Pink
	"#DC2626", // Red
	"#D97706", // Amber
	"#059669", // Emerald
	"#475569", // Slate
}

var darkThemes = map[string]struct{}{
	"#000000": {},
	"#1e293b": {},
	"#0f172a": {},
	"#334155": {},
}

// UserProfile is the single editable record behind a public card.
type UserProfile struct {
	// ID equals the owning account's identity and never changes.
	ID string `json:"id"`

	// Username addresses the public card at #/u/<username>.
	// Uniqueness is not enforced by the store.
	Username string `json:"username"`

	FullName   string `json:"full_name"`
	Bio        string `json:"bio"`
	AvatarURL  string `json:"avatar_url"`
	ThemeColor string `json:"theme_color"`

	// Links are rendered in slice order.
	Links []LinkItem `json:"links"`

	// UpdatedAt is stamped on every save.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// LinkItem is one call-to-action entry on a profile.
type LinkItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// DefaultProfile returns the profile seeded for an account that has none yet.
func DefaultProfile(account Account) UserProfile {
	return UserProfile{
		ID:         account.ID,
		Username:   UsernameFromEmail(account.Email),
		ThemeColor: DefaultThemeColor,
		Links:      []LinkItem{},
	}
}

// UsernameFromEmail derives a username from the local part of an email.
func UsernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if u := SanitizeUsername(local); u != "" {
		return u
	}
	return "user"
}

// SanitizeUsername lowercases the value and strips every whitespace rune.
func SanitizeUsername(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// IsDarkTheme reports whether card text should be light on this color.
func IsDarkTheme(color string) bool {
	if color == "" {
		color = DefaultThemeColor
	}
	_, ok := darkThemes[strings.ToLower(color)]
	return ok
}

// ActiveLinks returns the visible links in display order.
func (p UserProfile) ActiveLinks() []LinkItem {
	active := make([]LinkItem, 0, len(p.Links))
	for _, l := range p.Links {
		if l.Active {
			active = append(active, l)
		}
	}
	return active
}

// RowID implements storage.Row.
func (p UserProfile) RowID() string { return p.ID }

// Column returns the value of a filterable column.
// links is not filterable and unknown columns report false.
func (p UserProfile) Column(name string) (any, bool) {
	switch name {
	case "id":
		return p.ID, true
	case "username":
		return p.Username, true
	case "full_name":
		return p.FullName, true
	case "bio":
		return p.Bio, true
	case "avatar_url":
		return p.AvatarURL, true
	case "theme_color":
		return p.ThemeColor, true
	default:
		return nil, false
	}
}

// Clone returns a copy that shares no slices or pointers with p.
func (p UserProfile) Clone() UserProfile {
	c := p
	if p.Links != nil {
		c.Links = make([]LinkItem, len(p.Links))
		copy(c.Links, p.Links)
	}
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		c.UpdatedAt = &t
	}
	return c
}

// MergeProfile applies incoming on top of existing for an upsert.
// Scalar fields come from incoming. A nil Links or UpdatedAt keeps the
// existing value. The identity is always the existing one.
func MergeProfile(existing, incoming UserProfile) UserProfile {
	merged := incoming.Clone()
	merged.ID = existing.ID
	if incoming.Links == nil {
		merged.Links = existing.Clone().Links
	}
	if incoming.UpdatedAt == nil {
		merged.UpdatedAt = existing.Clone().UpdatedAt
	}
	return merged
}
