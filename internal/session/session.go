// Package session holds the authenticated identity of the client and persists
// it between runs.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gamerhub/internal/models"
)

// ErrNoSession is returned by stores that hold nothing.
var ErrNoSession = errors.New("no stored session")

// Identity is the persisted view of the signed-in user.
type Identity struct {
	ID      uint   `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Email   string `json:"email" yaml:"email"`
	Picture string `json:"picture,omitempty" yaml:"picture,omitempty"`
	IsAdmin bool   `json:"isAdmin" yaml:"isAdmin"`
}

// IdentityOf copies the persisted fields of u.
func IdentityOf(u models.User) Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Picture: u.Picture, IsAdmin: u.IsAdmin}
}

// User converts the identity back to a domain user.
func (i Identity) User() models.User {
	return models.User{ID: i.ID, Name: i.Name, Email: i.Email, Picture: i.Picture, IsAdmin: i.IsAdmin}
}

// State is what a Store persists.
type State struct {
	Token    string    `json:"token" yaml:"token"`
	User     Identity  `json:"user" yaml:"user"`
	IssuedAt time.Time `json:"issuedAt" yaml:"issuedAt"`
}

// Store persists a single session.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, st *State) error
	Clear(ctx context.Context) error
}

// Session is an in-memory view of the stored session. It is safe for concurrent use.
type Session struct {
	// writeMu serializes store writes.
	writeMu sync.Mutex
	mu      sync.RWMutex
	store   Store
	state *State
	now   func() time.Time
}

// New returns a session backed by store. Call Restore to read what the store holds.
func New(store Store) *Session {
	return &Session{store: store, now: time.Now}
}

// Restore loads the stored session, if any.
func (s *Session) Restore(ctx context.Context) error {
	st, err := s.store.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		s.mu.Lock()
		s.state = nil
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

// Establish records a fresh token and user and persists them.
func (s *Session) Establish(ctx context.Context, token string, user models.User) error {
	if strings.TrimSpace(token) == "" {
		return models.NewValidationError("token is required")
	}
	st := &State{Token: token, User: IdentityOf(user), IssuedAt: s.now().UTC()}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.store.Save(ctx, st); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

// Expire drops the session after the backend refused the token rejected.
// A session established since that token was sent is kept.
func (s *Session) Expire(ctx context.Context, rejected string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	if s.state == nil || s.state.Token != rejected {
		s.mu.Unlock()
		return nil
	}
	s.state = nil
	s.mu.Unlock()
	return s.store.Clear(ctx)
}

// Logout forgets the session locally and in the store.
func (s *Session) Logout(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	s.state = nil
	s.mu.Unlock()
	return s.store.Clear(ctx)
}

// Token returns the bearer token or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return ""
	}
	return s.state.Token
}

// User returns the signed-in user.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil || s.state.Token == "" {
		return models.User{}, false
	}
	return s.state.User.User(), true
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
