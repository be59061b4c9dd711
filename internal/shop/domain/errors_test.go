package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, KindAuthentication, KindOf(Authenticationf("invalid credentials")))
	require.Equal(t, KindAuthorization, KindOf(Authorizationf("insufficient permissions")))
	require.Equal(t, KindValidation, KindOf(Validationf("insufficient quantity for item %s", "x")))
	require.Equal(t, KindNotFound, KindOf(NotFoundf("item not found: %s", "x")))
	require.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	require.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("placing order: %w", Validationf("insufficient quantity"))
	require.Equal(t, KindValidation, KindOf(err))
}

func TestWithCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("cache unreachable")
	err := Authenticationf("invalid or expired code").WithCause(cause)

	// Cause available for logging, kind preserved, message unchanged.
	require.ErrorIs(t, err, cause)
	require.Equal(t, KindAuthentication, KindOf(err))
	require.NotContains(t, err.Error(), "cache unreachable")
}

func TestParseFunctionsAreTotal(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"admin", "Clerk", " CUSTOMER "} {
		_, err := ParseRole(raw)
		require.NoError(t, err, raw)
	}
	_, err := ParseRole("superuser")
	require.Error(t, err)

	for _, raw := range []string{"placed", "processed", "shipped", "delivered", "completed", "canceled"} {
		_, err := ParseOrderStatus(raw)
		require.NoError(t, err, raw)
	}
	_, err = ParseOrderStatus("refunded")
	require.Error(t, err)

	for _, raw := range []string{"active", "suspended", "inactive"} {
		_, err := ParseAccountStatus(raw)
		require.NoError(t, err, raw)
	}
	_, err = ParseAccountStatus("banned")
	require.Error(t, err)
}
