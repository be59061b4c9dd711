package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "shopd-test"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestNewHS256RejectsShortSecrets(t *testing.T) {
	t.Parallel()

	_, err := NewHS256([]byte("too-short"), testIssuer)
	require.Error(t, err)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	h, err := NewHS256(testSecret, testIssuer)
	require.NoError(t, err)

	claims := NewSessionClaims("user-1", "alice@example.com", "admin", "co-1", testIssuer, time.Hour, time.Now().UTC())
	token, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "admin", got.Role)
	require.Equal(t, "co-1", got.CompanyID)
	require.NoError(t, got.ValidateExpiry())
}

func TestVerifyFailures(t *testing.T) {
	t.Parallel()

	h, err := NewHS256(testSecret, testIssuer)
	require.NoError(t, err)

	t.Run("expired token", func(t *testing.T) {
		claims := NewSessionClaims("user-1", "a@b.c", "clerk", "co-1", testIssuer, time.Hour, time.Now().UTC().Add(-2*time.Hour))
		token, err := h.Sign(claims)
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("tampered payload", func(t *testing.T) {
		claims := NewSessionClaims("user-1", "a@b.c", "clerk", "co-1", testIssuer, time.Hour, time.Now().UTC())
		token, err := h.Sign(claims)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		// Flip a character in the payload; the signature no longer matches.
		payload := []byte(parts[1])
		if payload[0] == 'A' {
			payload[0] = 'B'
		} else {
			payload[0] = 'A'
		}
		tampered := parts[0] + "." + string(payload) + "." + parts[2]

		_, err = h.Verify(tampered)
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewHS256([]byte("ffffffffffffffffffffffffffffffff"), testIssuer)
		require.NoError(t, err)

		claims := NewSessionClaims("user-1", "a@b.c", "clerk", "co-1", testIssuer, time.Hour, time.Now().UTC())
		token, err := other.Sign(claims)
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		minted := NewSessionClaims("user-1", "a@b.c", "clerk", "co-1", "someone-else", time.Hour, time.Now().UTC())
		token, err := h.Sign(minted)
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := h.Verify("not.a.token")
		require.ErrorIs(t, err, ErrMalformed)

		_, err = h.Verify("")
		require.ErrorIs(t, err, ErrMalformed)
	})
}
