// Package session holds the process-wide authenticated identity and bearer
// token. The store is the single writer of session state; every mutation
// replaces the identity/token pair atomically, so no caller can ever observe
// a half-populated session.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avencello/inkfeed/internal/client/models"
)

// Store is the session container. The zero value is not usable; use New.
type Store struct {
	mu          sync.RWMutex
	session     models.Session
	subscribers []func(models.Session)
}

func New() *Store {
	return &Store{}
}

// Login installs a fresh session from a successful login.
func (s *Store) Login(identity models.Identity, token string) {
	s.set(&identity, token)
}

// Register installs a fresh session from a successful registration.
func (s *Store) Register(identity models.Identity, token string) {
	s.set(&identity, token)
}

// ApplyPasswordReset installs the session returned by a completed password
// reset, so the user is authenticated without a separate login step.
func (s *Store) ApplyPasswordReset(identity models.Identity, token string) {
	s.set(&identity, token)
}

// Logout clears the session. In-flight requests that captured the prior
// token at dispatch time are allowed to complete; their responses do not
// re-authenticate the store.
func (s *Store) Logout() {
	s.set(nil, "")
}

// Current returns a snapshot of the session. The identity is copied, so
// callers cannot mutate the stored state through it.
func (s *Store) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSession(s.session)
}

// Token returns the current bearer token, or "" when signed out.
// Satisfies api.TokenProvider.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// Subscribe registers fn to be called synchronously after every session
// change, with the new snapshot.
func (s *Store) Subscribe(fn func(models.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// TokenExpiry returns the expiry of the current bearer token, read from its
// JWT exp claim without signature verification (the client has no key and
// only uses the value for display). Returns the zero time when signed out or
// when the token carries no usable claim.
func (s *Store) TokenExpiry() time.Time {
	token := s.Token()
	if token == "" {
		return time.Time{}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// set replaces the identity/token pair as one unit and notifies subscribers
// with the new snapshot. Notification happens outside the lock so a
// subscriber may call back into the store.
func (s *Store) set(identity *models.Identity, token string) {
	s.mu.Lock()
	if identity != nil {
		copied := *identity
		s.session = models.Session{Identity: &copied, Token: token}
	} else {
		s.session = models.Session{}
	}
	snapshot := cloneSession(s.session)
	subs := make([]func(models.Session), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

func cloneSession(sess models.Session) models.Session {
	if sess.Identity != nil {
		copied := *sess.Identity
		sess.Identity = &copied
	}
	return sess
}
