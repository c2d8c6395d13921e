// Package store defines the persistence contract shared by the mock engine
// and the real backend client.
package store

import (
	"context"

	"seulink/internal/domain"
)

// Mode tells which backend a Client talks to.
type Mode string

const (
	ModeMock   Mode = "mock"
	ModeRemote Mode = "remote"
)

// Query is a handle scoped to one table.
// Filters added with Eq narrow Single and Execute; they are combined as a conjunction.
type Query[T any] interface {
	// Eq keeps only records whose column strictly equals value.
	Eq(column string, value any) Query[T]

	// Single returns the only matching record. Zero or several matches
	// return an *Error with CodeNoRows.
	Single(ctx context.Context) (T, error)

	// Execute returns every matching record.
	Execute(ctx context.Context) ([]T, error)

	// Upsert inserts the record, or merges it into the record with the same id.
	Upsert(ctx context.Context, record T) (T, error)
}

// Auth is the identity side of a backend.
type Auth interface {
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	SignUp(ctx context.Context, email, password string) (domain.Account, error)
	SignOut(ctx context.Context, accessToken string) error

	// User resolves an access token to its account.
	User(ctx context.Context, accessToken string) (domain.Account, error)
}

// Client is the process-wide backend handle, built once at startup.
type Client interface {
	// Profiles starts a query on the profiles table.
	Profiles() Query[domain.UserProfile]
	Auth() Auth
	Mode() Mode
	Close() error
}

type accessTokenKey struct{}

// WithAccessToken attaches the caller's access token to ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessToken returns the token stored by WithAccessToken, if any.
func AccessToken(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}
