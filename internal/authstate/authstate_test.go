package authstate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seulink/internal/domain"
)

type fakeAuth struct {
	signInErr error
}

func (f *fakeAuth) SignIn(_ context.Context, email, _ string) (domain.Session, error) {
	if f.signInErr != nil {
		return domain.Session{}, f.signInErr
	}
	return domain.Session{AccessToken: "tok", Account: domain.Account{ID: "u1", Email: email}}, nil
}

func (f *fakeAuth) SignUp(_ context.Context, email, _ string) (domain.Account, error) {
	return domain.Account{ID: "u1", Email: email}, nil
}

func (f *fakeAuth) SignOut(context.Context, string) error { return nil }

func (f *fakeAuth) User(_ context.Context, token string) (domain.Account, error) {
	if token != "tok" {
		return domain.Account{}, errors.New("no session")
	}
	return domain.Account{ID: "u1", Email: "ana@example.com"}, nil
}

func TestBroker_SubscribeAndUnsubscribe(t *testing.T) {
	b := NewBroker()
	var first, second []Kind

	unsub := b.Subscribe(func(ev Event) { first = append(first, ev.Kind) })
	b.Subscribe(func(ev Event) { second = append(second, ev.Kind) })

	b.Publish(Event{Kind: SignedIn})
	unsub()
	unsub()
	b.Publish(Event{Kind: SignedOut})

	assert.Equal(t, []Kind{SignedIn}, first)
	assert.Equal(t, []Kind{SignedIn, SignedOut}, second)
}

func TestObserve_PublishesOnSuccess(t *testing.T) {
	b := NewBroker()
	var events []Event
	b.Subscribe(func(ev Event) { events = append(events, ev) })

	auth := Observe(&fakeAuth{}, b)
	ctx := context.Background()

	_, err := auth.SignUp(ctx, "ana@example.com", "")
	require.NoError(t, err)
	_, err = auth.SignIn(ctx, "ana@example.com", "")
	require.NoError(t, err)
	require.NoError(t, auth.SignOut(ctx, "tok"))

	require.Len(t, events, 3)
	assert.Equal(t, SignedUp, events[0].Kind)
	assert.Equal(t, SignedIn, events[1].Kind)
	assert.Equal(t, SignedOut, events[2].Kind)
	assert.Equal(t, "u1", events[2].Account.ID)
}

func TestObserve_SilentOnFailure(t *testing.T) {
	b := NewBroker()
	called := false
	b.Subscribe(func(Event) { called = true })

	auth := Observe(&fakeAuth{signInErr: errors.New("bad credentials")}, b)
	_, err := auth.SignIn(context.Background(), "ana@example.com", "")
	require.Error(t, err)
	assert.False(t, called)
}
