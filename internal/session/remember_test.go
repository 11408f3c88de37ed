package session

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-signing-secret-0123456789"

func TestRememberMe_IssueAndRedeem(t *testing.T) {
	svc := NewRememberMeService(testSecret, 24*time.Hour)

	token, err := svc.Issue("user123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := svc.Redeem(token)
	require.NoError(t, err)
	assert.Equal(t, "user123", userID)
}

func TestRememberMe_Issue_EmptyUserID(t *testing.T) {
	svc := NewRememberMeService(testSecret, 24*time.Hour)

	_, err := svc.Issue("")

	assert.Error(t, err)
}

func TestRememberMe_Redeem_Garbage(t *testing.T) {
	svc := NewRememberMeService(testSecret, 24*time.Hour)

	for _, token := range []string{"", "not-base64!!", base64.RawURLEncoding.EncodeToString([]byte("no-colons"))} {
		_, err := svc.Redeem(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestRememberMe_Redeem_TamperedPayload(t *testing.T) {
	svc := NewRememberMeService(testSecret, 24*time.Hour)

	token, err := svc.Issue("user123")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)

	// Swap the user ID, keep the original signature
	tampered := strings.Replace(string(raw), "user123", "user456", 1)
	_, err = svc.Redeem(base64.RawURLEncoding.EncodeToString([]byte(tampered)))

	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRememberMe_Redeem_WrongSecret(t *testing.T) {
	issuer := NewRememberMeService(testSecret, 24*time.Hour)
	verifier := NewRememberMeService("a-completely-different-secret-value", 24*time.Hour)

	token, err := issuer.Issue("user123")
	require.NoError(t, err)

	_, err = verifier.Redeem(token)

	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRememberMe_Redeem_Expired(t *testing.T) {
	svc := NewRememberMeService(testSecret, -1*time.Hour)

	token, err := svc.Issue("user123")
	require.NoError(t, err)

	_, err = svc.Redeem(token)

	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRememberMe_Validity(t *testing.T) {
	svc := NewRememberMeService(testSecret, 24*time.Hour)

	assert.Equal(t, 24*time.Hour, svc.Validity())
}
