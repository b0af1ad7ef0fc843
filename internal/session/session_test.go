package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkchq/projectboard/internal/models"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	mgr := NewManager("test-secret", 24*time.Hour)

	identity := Identity{UserID: 7, Username: "sarada", Role: models.RoleAdmin}
	token, err := mgr.Issue(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := mgr.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, *got)
}

func TestVerify_ExpiredToken(t *testing.T) {
	// A negative TTL produces a token that is already expired.
	mgr := NewManager("test-secret", -time.Hour)

	token, err := mgr.Issue(Identity{UserID: 1, Username: "nkc", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = mgr.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", 24*time.Hour).
		Issue(Identity{UserID: 1, Username: "nkc", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = NewManager("secret-b", 24*time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	mgr := NewManager("test-secret", 24*time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := mgr.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestIssue_DistinctPayloadsDistinctTokens(t *testing.T) {
	mgr := NewManager("test-secret", 24*time.Hour)

	a, err := mgr.Issue(Identity{UserID: 1, Username: "nkc", Role: models.RoleAdmin})
	require.NoError(t, err)
	b, err := mgr.Issue(Identity{UserID: 2, Username: "rahul", Role: models.RoleUser})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)

	gotA, err := mgr.Verify(a)
	require.NoError(t, err)
	gotB, err := mgr.Verify(b)
	require.NoError(t, err)
	assert.NotEqual(t, gotA.UserID, gotB.UserID)
}
