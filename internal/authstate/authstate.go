// Package authstate publishes session changes to interested components.
package authstate

import (
	"context"
	"sync"

	"seulink/internal/domain"
	"seulink/internal/store"
)

// Kind is the type of a session change.
type Kind string

const (
	SignedIn  Kind = "SIGNED_IN"
	SignedUp  Kind = "SIGNED_UP"
	SignedOut Kind = "SIGNED_OUT"
)

// Event describes one session change.
type Event struct {
	Kind    Kind
	Account domain.Account
}

// Broker fans events out to subscribers synchronously, in subscription order.
type Broker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
	order  []int
}

// NewBroker returns an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Broker) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers ev to every current subscriber.
func (b *Broker) Publish(ev Event) {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Observe wraps auth so that successful calls publish events on b.
func Observe(auth store.Auth, b *Broker) store.Auth {
	return &observedAuth{Auth: auth, broker: b}
}

type observedAuth struct {
	store.Auth
	broker *Broker
}

func (o *observedAuth) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	s, err := o.Auth.SignIn(ctx, email, password)
	if err == nil {
		o.broker.Publish(Event{Kind: SignedIn, Account: s.Account})
	}
	return s, err
}

func (o *observedAuth) SignUp(ctx context.Context, email, password string) (domain.Account, error) {
	a, err := o.Auth.SignUp(ctx, email, password)
	if err == nil {
		o.broker.Publish(Event{Kind: SignedUp, Account: a})
	}
	return a, err
}

// SignOut resolves the account first so subscribers know who left.
func (o *observedAuth) SignOut(ctx context.Context, token string) error {
	account, _ := o.Auth.User(ctx, token)
	if err := o.Auth.SignOut(ctx, token); err != nil {
		return err
	}
	o.broker.Publish(Event{Kind: SignedOut, Account: account})
	return nil
}
