package supabase

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"seulink/internal/domain"
	"seulink/internal/store"
)

const authPrefix = "/auth/v1/"

// Auth implements store.Auth with the GoTrue endpoints.
type Auth struct {
	client *Client
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type gotrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u gotrueUser) account() domain.Account {
	return domain.Account{ID: u.ID, Email: u.Email}
}

type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	ExpiresIn   int64      `json:"expires_in"`
	User        gotrueUser `json:"user"`
}

// SignIn exchanges email and password for a session.
func (a *Auth) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	var resp tokenResponse
	err := a.client.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "token",
		query:  url.Values{"grant_type": {"password"}},
		body:   credentials{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		AccessToken: resp.AccessToken,
		Account:     resp.User.account(),
		ExpiresAt:   time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

// SignUp registers a new account. Depending on project settings GoTrue
// answers with a bare user or with a session wrapping it.
func (a *Auth) SignUp(ctx context.Context, email, password string) (domain.Account, error) {
	var resp struct {
		gotrueUser
		User *gotrueUser `json:"user"`
	}
	err := a.client.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "signup",
		body:   credentials{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return domain.Account{}, err
	}
	if resp.User != nil {
		return resp.User.account(), nil
	}
	return resp.gotrueUser.account(), nil
}

// SignOut revokes the session behind token.
func (a *Auth) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return a.client.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "logout",
		token:  token,
	}, nil)
}

// User resolves token to its account.
func (a *Auth) User(ctx context.Context, token string) (domain.Account, error) {
	if token == "" {
		return domain.Account{}, &store.Error{Code: store.CodeSessionNotFound, Message: "Session not found", Status: 401}
	}
	var u gotrueUser
	err := a.client.do(ctx, request{
		method: http.MethodGet,
		path:   authPrefix + "user",
		token:  token,
	}, &u)
	if err != nil {
		return domain.Account{}, err
	}
	return u.account(), nil
}
