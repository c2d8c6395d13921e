package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"seulink/internal/domain"
	"seulink/internal/store"
)

const (
	mockIssuer     = "seulink-mock"
	mockSessionTTL = 7 * 24 * time.Hour
)

// accountNamespace scopes the name-based UUIDs of mock accounts.
var accountNamespace = uuid.MustParse("8d3c6a51-2f0e-4b8a-9c1d-5e7f3a2b9c40")

// MockAccountID returns the stable account id for an email.
func MockAccountID(email string) string {
	return uuid.NewSHA1(accountNamespace, []byte(normalizeEmail(email))).String()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// sessionRecord is the single "current session" marker.
type sessionRecord struct {
	Account  domain.Account `json:"user"`
	TokenID  string         `json:"token_id"`
	IssuedAt time.Time      `json:"issued_at"`
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// MockAuth is a demo identity store: any password is accepted and at most
// one session exists at a time.
type MockAuth struct {
	engine   *Engine
	profiles *Table[domain.UserProfile]
	secret   []byte
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewMockAuth creates the identity store. Tokens are signed with secret.
func NewMockAuth(e *Engine, profiles *Table[domain.UserProfile], secret []byte) *MockAuth {
	return &MockAuth{
		engine:   e,
		profiles: profiles,
		secret:   secret,
		now:      time.Now,
		log:      e.log.WithField("component", "mock_auth"),
	}
}

func validateEmail(email string) error {
	if normalizeEmail(email) == "" {
		return &store.Error{Code: store.CodeValidation, Message: "Email is required", Status: 400}
	}
	return nil
}

// SignIn stores the session marker for email, replacing any previous one.
// The password is not checked.
func (a *MockAuth) SignIn(ctx context.Context, email, _ string) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	if err := validateEmail(email); err != nil {
		return domain.Session{}, err
	}

	account := domain.Account{ID: MockAccountID(email), Email: normalizeEmail(email)}
	now := a.now()
	rec := sessionRecord{Account: account, TokenID: uuid.NewString(), IssuedAt: now}

	err := a.engine.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, []byte(sessionKey), rec)
	})
	if err != nil {
		a.log.WithError(err).Error("Failed to persist session marker")
		return domain.Session{}, fmt.Errorf("failed to store session: %w", err)
	}

	expires := now.Add(mockSessionTTL)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    mockIssuer,
			Subject:   account.ID,
			ID:        rec.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}).SignedString(a.secret)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	a.log.WithField("user_id", account.ID).Info("Mock sign-in")
	return domain.Session{AccessToken: token, Account: account, ExpiresAt: expires}, nil
}

// SignUp registers email and seeds its default profile when it has none.
// It does not open a session.
func (a *MockAuth) SignUp(ctx context.Context, email, _ string) (domain.Account, error) {
	if err := validateEmail(email); err != nil {
		return domain.Account{}, err
	}
	account := domain.Account{ID: MockAccountID(email), Email: normalizeEmail(email)}

	existing, err := a.profiles.Select().Eq("id", account.ID).Execute(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	if len(existing) == 0 {
		seed := domain.DefaultProfile(account)
		seed.Username, err = store.FreeUsername(ctx, a.selectProfiles, seed.Username, account.ID)
		if err != nil {
			return domain.Account{}, err
		}
		if _, err := a.profiles.Select().Upsert(ctx, seed); err != nil {
			return domain.Account{}, err
		}
		a.log.WithFields(logrus.Fields{"user_id": account.ID, "username": seed.Username}).Info("Seeded default profile")
	}
	return account, nil
}

func (a *MockAuth) selectProfiles() store.Query[domain.UserProfile] { return a.profiles.Select() }

// SignOut clears the session marker.
func (a *MockAuth) SignOut(ctx context.Context, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := a.engine.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(sessionKey))
	})
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	a.log.Info("Mock sign-out")
	return nil
}

// User validates token against the current session marker.
func (a *MockAuth) User(ctx context.Context, token string) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}
	invalid := &store.Error{Code: store.CodeSessionNotFound, Message: "Session not found", Status: 401}
	if token == "" {
		return domain.Account{}, invalid
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(mockIssuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		a.log.WithError(err).Debug("Rejected session token")
		return domain.Account{}, invalid
	}

	rec, ok, err := a.current()
	if err != nil {
		return domain.Account{}, err
	}
	if !ok || rec.Account.ID != claims.Subject || rec.TokenID != claims.ID {
		return domain.Account{}, invalid
	}
	return rec.Account, nil
}

func (a *MockAuth) current() (sessionRecord, bool, error) {
	var rec sessionRecord
	var found bool
	err := a.engine.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getJSON(txn, []byte(sessionKey), &rec)
		return err
	})
	if err != nil {
		return rec, false, fmt.Errorf("failed to read session: %w", err)
	}
	return rec, found, nil
}
