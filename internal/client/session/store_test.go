package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avencello/inkfeed/internal/client/models"
)

func alice() models.Identity {
	return models.Identity{ID: "u1", Name: "Alice", Email: "alice@example.com"}
}

// The invariant: at every observable point, identity and token are either
// both set or both empty, for any sequence of mutations.
func TestStore_AtomicPairInvariant(t *testing.T) {
	s := New()

	check := func() {
		sess := s.Current()
		assert.Equal(t, sess.Identity == nil, sess.Token == "")
	}

	check()
	s.Login(alice(), "tok-1")
	check()
	s.Logout()
	check()
	s.Register(alice(), "tok-2")
	check()
	s.ApplyPasswordReset(alice(), "tok-3")
	check()
	s.Logout()
	check()
	s.Logout() // double logout is a no-op
	check()
}

func TestStore_CurrentIsSnapshot(t *testing.T) {
	s := New()
	s.Login(alice(), "tok")

	sess := s.Current()
	sess.Identity.Name = "Mallory"

	require.Equal(t, "Alice", s.Current().Identity.Name)
}

func TestStore_SubscribersNotifiedSynchronously(t *testing.T) {
	s := New()

	var seen []models.Session
	s.Subscribe(func(sess models.Session) {
		seen = append(seen, sess)
	})

	s.Login(alice(), "tok")
	s.Logout()

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Authenticated())
	assert.Equal(t, "tok", seen[0].Token)
	assert.False(t, seen[1].Authenticated())
	assert.Empty(t, seen[1].Token)
}

// Notification happens on a copied subscriber list outside the lock, so a
// subscriber may read the store (or add another subscriber) without
// deadlocking.
func TestStore_SubscriberMayReenterStore(t *testing.T) {
	s := New()

	var tokenSeen string
	s.Subscribe(func(sess models.Session) {
		tokenSeen = s.Token()
		s.Subscribe(func(models.Session) {})
	})

	s.Login(alice(), "tok")
	assert.Equal(t, "tok", tokenSeen)
}

func TestStore_TokenProviderContract(t *testing.T) {
	s := New()
	assert.Empty(t, s.Token())

	s.Login(alice(), "tok")
	assert.Equal(t, "tok", s.Token())

	s.Logout()
	assert.Empty(t, s.Token())
}

func TestStore_TokenExpiry(t *testing.T) {
	s := New()

	// Signed out: zero time.
	assert.True(t, s.TokenExpiry().IsZero())

	// Opaque (non-JWT) token: zero time.
	s.Login(alice(), "not-a-jwt")
	assert.True(t, s.TokenExpiry().IsZero())

	// JWT with an exp claim: that claim, regardless of the signing key.
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u1",
		"exp":    exp.Unix(),
	})
	signed, err := token.SignedString([]byte("some-unknown-key"))
	require.NoError(t, err)

	s.Login(alice(), signed)
	assert.True(t, s.TokenExpiry().Equal(exp))
}
