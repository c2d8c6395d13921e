package viewer

import (
	"strings"

	"seulink/internal/domain"
)

// Card is what the public page and the dashboard preview render.
type Card struct {
	Username   string
	FullName   string
	Bio        string
	AvatarURL  string
	Initial    string
	Background string
	Dark       bool
	Links      []domain.LinkItem
	// Empty is set when the profile has no links at all, active or not.
	Empty        bool
	BioIsDefault bool
}

// NewCard builds the view model for p.
func NewCard(p domain.UserProfile) Card {
	bg := p.ThemeColor
	if bg == "" {
		bg = domain.DefaultThemeColor
	}
	c := Card{
		Username:   p.Username,
		FullName:   p.FullName,
		Bio:        p.Bio,
		AvatarURL:  p.AvatarURL,
		Background: bg,
		Dark:       domain.IsDarkTheme(bg),
		Links:      p.ActiveLinks(),
		Empty:      len(p.Links) == 0,
	}
	if strings.TrimSpace(c.Bio) == "" {
		c.BioIsDefault = true
	}
	c.Initial = initial(p)
	return c
}

// DisplayName is the full name, or the username when none is set.
func (c Card) DisplayName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return c.Username
}

func initial(p domain.UserProfile) string {
	name := p.FullName
	if name == "" {
		name = p.Username
	}
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}
