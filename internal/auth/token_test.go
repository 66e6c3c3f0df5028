package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueVerify(t *testing.T) {
	m, err := NewTokenManager("secret", "todo-app", time.Hour)
	require.NoError(t, err)

	userID := uuid.NewString()
	token, err := m.Issue(userID)
	require.NoError(t, err)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenManager_Verify_Rejects(t *testing.T) {
	m, err := NewTokenManager("secret", "todo-app", time.Hour)
	require.NoError(t, err)
	userID := uuid.NewString()

	other, err := NewTokenManager("other-secret", "todo-app", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue(userID)
	require.NoError(t, err)

	wrongIssuer, err := NewTokenManager("secret", "someone-else", time.Hour)
	require.NoError(t, err)
	issuerToken, err := wrongIssuer.Issue(userID)
	require.NoError(t, err)

	expired, err := NewTokenManager("secret", "todo-app", time.Hour)
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.Issue(userID)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: userID})
	noneToken, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	notUUID := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "test-user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "test-user",
			Issuer:    "todo-app",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	notUUIDToken, err := notUUID.SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"wrong issuer", issuerToken},
		{"expired", expiredToken},
		{"alg none", noneToken},
		{"subject not uuid", notUUIDToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	_, err := NewTokenManager("", "x", time.Hour)
	assert.Error(t, err)
}
