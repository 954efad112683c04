package auth_test

import (
	"testing"

	"github.com/aussiebroadwan/passport/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestLoginAndReissue covers the full credential lifecycle against a real
// container: login, re-issue and logout.
func TestLoginAndReissue(t *testing.T) {
	baseURL, dir := setupPassportContainer(t, relaxedRateLimits)

	client := authsdk.NewSDKClient(baseURL)
	ctx := t.Context()

	login, err := client.Login(ctx, "apple", appleIdentifier)
	require.NoError(t, err, "Login should succeed")
	assertTokenResponse(t, login)

	stored, persists := dir.storedRefresh(appleUserID)
	require.NotEmpty(t, stored, "Refresh token should be persisted to the directory")
	require.Equal(t, 1, persists)
	require.NotEqual(t, stored, login.Authorization, "Only the access token is handed out")

	// Re-issue from the access token
	fresh, err := client.Tokens(ctx, login.Authorization)
	require.NoError(t, err, "Re-issue should succeed")
	assertTokenResponse(t, fresh)

	rotated, persists := dir.storedRefresh(appleUserID)
	require.Equal(t, 2, persists)
	require.NotEqual(t, stored, rotated, "Refresh token should rotate on re-issue")

	require.NoError(t, client.Logout(ctx))

	t.Logf("Login, re-issue and logout succeeded for user %s", appleUserID)
}

// TestLoginErrors verifies each failure maps to its envelope code.
func TestLoginErrors(t *testing.T) {
	baseURL, _ := setupPassportContainer(t, relaxedRateLimits)

	client := authsdk.NewSDKClient(baseURL)
	ctx := t.Context()

	t.Run("unknown user", func(t *testing.T) {
		_, err := client.Login(ctx, "apple", "nobody")
		require.ErrorIs(t, err, authsdk.ErrNotUser)
	})

	t.Run("unsupported provider", func(t *testing.T) {
		_, err := client.Login(ctx, "google", appleIdentifier)
		require.ErrorIs(t, err, authsdk.ErrInvalidParameter)
	})

	t.Run("provider type is case sensitive", func(t *testing.T) {
		_, err := client.Login(ctx, "APPLE", appleIdentifier)
		require.ErrorIs(t, err, authsdk.ErrInvalidParameter)
	})

	t.Run("empty identifier", func(t *testing.T) {
		_, err := client.Login(ctx, "apple", "")
		require.ErrorIs(t, err, authsdk.ErrInvalidParameter)
	})
}

// TestTokensErrors verifies re-issue refuses forged tokens and expired
// stored refresh tokens.
func TestTokensErrors(t *testing.T) {
	baseURL, dir := setupPassportContainer(t, relaxedRateLimits)

	client := authsdk.NewSDKClient(baseURL)
	ctx := t.Context()

	login, err := client.Login(ctx, "apple", appleIdentifier)
	require.NoError(t, err)

	t.Run("forged access token", func(t *testing.T) {
		_, err := client.Tokens(ctx, login.Authorization+"tampered")
		require.ErrorIs(t, err, authsdk.ErrInvalidToken)
	})

	t.Run("stored refresh token cleared", func(t *testing.T) {
		dir.setRefresh(appleUserID, "")

		_, err := client.Tokens(ctx, login.Authorization)
		require.ErrorIs(t, err, authsdk.ErrExpiredRefreshToken)
	})

	t.Run("login again restores re-issue", func(t *testing.T) {
		again, err := client.Login(ctx, "apple", appleIdentifier)
		require.NoError(t, err)

		_, err = client.Tokens(ctx, again.Authorization)
		require.NoError(t, err)
	})
}
