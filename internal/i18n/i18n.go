// Package i18n holds the UI strings and picks the visitor's language.
package i18n

import (
	"golang.org/x/text/language"
)

// Lang is a supported UI language.
type Lang string

const (
	PT Lang = "pt"
	EN Lang = "en"
)

// Default is served when nothing better matches.
const Default = PT

// CookieName stores an explicit language choice.
const CookieName = "seulink_lang"

var (
	supported = []language.Tag{language.Portuguese, language.English}
	langs     = []Lang{PT, EN}
	matcher   = language.NewMatcher(supported)
)

// Parse accepts "pt" or "en" in any case.
func Parse(s string) (Lang, bool) {
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for _, l := range langs {
		if base.String() == string(l) {
			return l, true
		}
	}
	return "", false
}

// Negotiate prefers an explicit choice, then the Accept-Language header.
func Negotiate(choice, acceptLanguage string) Lang {
	if l, ok := Parse(choice); ok {
		return l
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return langs[idx]
}

// Other is the language the toggle switches to.
func (l Lang) Other() Lang {
	if l == PT {
		return EN
	}
	return PT
}

// T returns the string for key, falling back to English and then to key.
func T(l Lang, key string) string {
	if s, ok := catalogs[l][key]; ok {
		return s
	}
	if s, ok := catalogs[EN][key]; ok {
		return s
	}
	return key
}
