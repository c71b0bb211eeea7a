package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestIssueAndParseToken(t *testing.T) {
	issued := time.Now()
	token, err := IssueToken(testSecret, "uid-1", "admin@example.com", "Ananta", "admin", issued)
	require.NoError(t, err)

	session := ParseToken(testSecret, token)
	require.NotNil(t, session)
	assert.Equal(t, "uid-1", session.UserID)
	assert.Equal(t, "admin@example.com", session.Email)
	assert.Equal(t, "Ananta", session.Name)
	assert.Equal(t, "admin", session.Role)
	assert.WithinDuration(t, issued, session.IssuedAt, time.Second)
}

func TestParseTokenRejectsBadInput(t *testing.T) {
	token, err := IssueToken(testSecret, "uid-1", "a@example.com", "", "user", time.Now())
	require.NoError(t, err)

	// wrong secret, garbage and empty tokens all resolve to no session
	assert.Nil(t, ParseToken([]byte("other-secret"), token))
	assert.Nil(t, ParseToken(testSecret, "not-a-token"))
	assert.Nil(t, ParseToken(testSecret, ""))
}

func TestResolveMissingCredentials(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Nil(t, Resolve(r, testSecret))
}

func TestResolveCookie(t *testing.T) {
	token, err := IssueToken(testSecret, "uid-1", "a@example.com", "", "user", time.Now())
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Cookie", SessionCookieName+"="+token)
	session := Resolve(r, testSecret)
	require.NotNil(t, session)
	assert.Equal(t, "a@example.com", session.Email)
}

func TestResolveBearer(t *testing.T) {
	token, err := IssueToken(testSecret, "uid-1", "a@example.com", "", "user", time.Now())
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	session := Resolve(r, testSecret)
	require.NotNil(t, session)
	assert.Equal(t, "uid-1", session.UserID)
}

func TestStale(t *testing.T) {
	s := &Session{IssuedAt: time.Now().Add(-30 * time.Minute)}
	assert.False(t, s.Stale(time.Now()))

	s = &Session{IssuedAt: time.Now().Add(-MaxSessionAge - time.Minute)}
	assert.True(t, s.Stale(time.Now()))
}

func TestIsAuthorizedAdmin(t *testing.T) {
	fresh := time.Now()
	stale := time.Now().Add(-2 * time.Hour)

	cases := []struct {
		name    string
		session *Session
		want    bool
	}{
		{"no session", nil, false},
		{"fresh admin", &Session{Role: "admin", IssuedAt: fresh}, true},
		{"fresh non-admin", &Session{Role: "user", IssuedAt: fresh}, false},
		{"stale admin", &Session{Role: "admin", IssuedAt: stale}, false},
		{"empty role", &Session{IssuedAt: fresh}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsAuthorizedAdmin(tc.session))
		})
	}
}

func TestIsAuthenticated(t *testing.T) {
	assert.False(t, IsAuthenticated(nil))
	assert.True(t, IsAuthenticated(&Session{Role: "user", IssuedAt: time.Now()}))
	assert.False(t, IsAuthenticated(&Session{Role: "user", IssuedAt: time.Now().Add(-2 * time.Hour)}))
}
