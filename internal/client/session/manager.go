// Package session is the client's authentication state machine.
//
// A Manager starts Unknown (loading), resolves to Authenticated or Anonymous
// in Bootstrap, and afterwards moves only through Login and Logout. It is the
// single writer of State; readers take snapshots with State or subscribe to
// transitions.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// CredentialStore is the persisted credential plus its header attachment.
type CredentialStore interface {
	Get(ctx context.Context) (token, tokenType string, ok bool)
	Set(ctx context.Context, token, tokenType string)
	Clear(ctx context.Context)
}

// IdentityClient is the slice of the identity API the state machine needs.
// CurrentUser authenticates with whatever credential is attached.
type IdentityClient interface {
	Login(ctx context.Context, username, password string) (*models.AuthToken, error)
	CurrentUser(ctx context.Context) (*models.User, error)
}

type subscriber struct {
	id int
	fn func(State)
}

type Manager struct {
	creds    CredentialStore
	identity IdentityClient
	log      logging.Logger

	// notify serializes publish so subscribers see states in the order
	// they were set.
	notify sync.Mutex

	mu          sync.RWMutex
	state       State
	subscribers []subscriber
	nextID      int

	bootstrap sync.Once
}

func New(creds CredentialStore, identity IdentityClient, log logging.Logger) *Manager {
	return &Manager{
		creds:    creds,
		identity: identity,
		log:      log.With("component", "session"),
		state:    State{IsLoading: true},
	}
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Subscribe registers fn to be called synchronously, in registration order,
// with every new state. States are delivered in the order they were set, even
// with concurrent Login and Logout calls. fn must not call Login or Logout.
// The returned func removes the subscription.
func (m *Manager) Subscribe(fn func(State)) (cancel func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subscribers = append(m.subscribers, subscriber{id: id, fn: fn})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subscribers {
			if s.id == id {
				m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Bootstrap resolves the initial state from the persisted credential. It
// runs once per Manager; later calls return the current state untouched.
// A stored credential that cannot resolve a user is discarded, whatever
// the reason.
func (m *Manager) Bootstrap(ctx context.Context) State {
	m.bootstrap.Do(func() {
		m.runBootstrap(ctx)
	})
	return m.State()
}

func (m *Manager) runBootstrap(ctx context.Context) {
	token, tokenType, ok := m.creds.Get(ctx)
	if !ok {
		m.creds.Clear(ctx)
		m.publish(ctx, anonymous())
		return
	}

	m.creds.Set(ctx, token, tokenType)

	user, err := m.identity.CurrentUser(ctx)
	if err != nil {
		m.log.Info(ctx, "stored credential rejected", "error", err)
		m.creds.Clear(ctx)
		m.publish(ctx, anonymous())
		return
	}

	m.publish(ctx, State{IsAuthenticated: true, User: user, Token: token})
}

// Login acquires a token, attaches it and hydrates the user. If either step
// fails the session falls back to Anonymous with no credential kept, and the
// error is returned for the caller to show.
func (m *Manager) Login(ctx context.Context, creds models.LoginCredentials) error {
	loading := m.State()
	loading.IsLoading = true
	m.publish(ctx, loading)

	tok, err := m.identity.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		m.rollback(ctx)
		return fmt.Errorf("login: %w", err)
	}

	m.creds.Set(ctx, tok.AccessToken, tok.TokenType)

	user, err := m.identity.CurrentUser(ctx)
	if err != nil {
		m.rollback(ctx)
		return fmt.Errorf("load profile: %w", err)
	}

	m.publish(ctx, State{IsAuthenticated: true, User: user, Token: tok.AccessToken})
	return nil
}

// Logout drops the credential and the user. It never fails and does not
// navigate.
func (m *Manager) Logout(ctx context.Context) {
	m.creds.Clear(ctx)
	m.publish(ctx, anonymous())
}

func (m *Manager) rollback(ctx context.Context) {
	m.creds.Clear(ctx)
	m.publish(ctx, anonymous())
}

func (m *Manager) publish(ctx context.Context, next State) {
	m.notify.Lock()
	defer m.notify.Unlock()

	m.mu.Lock()
	prev := m.state
	m.state = next
	subs := make([]subscriber, len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	if prev.Status() != next.Status() || prev.Username() != next.Username() {
		m.log.Debug(ctx, "session transition", "from", prev.Status(), "to", next.Status(), "user", next.Username())
	}

	for _, s := range subs {
		s.fn(next)
	}
}
