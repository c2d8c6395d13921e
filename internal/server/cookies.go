package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"seulink/internal/domain"
)

const (
	sessionCookie = "seulink_session"
	flashCookie   = "seulink_flash"
)

func setSessionCookie(w http.ResponseWriter, r *http.Request, session domain.Session) {
	c := &http.Cookie{
		Name:     sessionCookie,
		Value:    session.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	if !session.ExpiresAt.IsZero() {
		c.Expires = session.ExpiresAt
	}
	http.SetCookie(w, c)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

// pageFlash is a one-shot message carried across a redirect.
type pageFlash struct {
	Kind string `json:"kind"`
	Key  string `json:"key,omitempty"`
	Text string `json:"text,omitempty"`
	// Mode reopens the auth form in sign-in or sign-up mode.
	Mode string `json:"mode,omitempty"`
}

func setFlashCookie(w http.ResponseWriter, f pageFlash) {
	b, err := json.Marshal(f)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashCookie reads and clears the one-shot message.
func popFlashCookie(w http.ResponseWriter, r *http.Request) (pageFlash, bool) {
	var f pageFlash
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return f, false
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return f, false
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return f, false
	}
	return f, true
}
