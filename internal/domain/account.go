package domain

import "time"

// Account is the authenticated identity that owns a profile.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken string    `json:"access_token"`
	Account     Account   `json:"user"`
	ExpiresAt   time.Time `json:"expires_at"`
}
