package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token := makeToken()
		assert.Len(t, token, 40)
		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}

func TestProfileFromUserInfo(t *testing.T) {
	t.Run("full profile", func(t *testing.T) {
		profile, err := profileFromUserInfo(userInfoResponse{
			Sub:     "provider-id-1",
			Name:    "Shiro",
			Email:   "shiro@example.com",
			Picture: "https://example.com/avatar.png",
		})
		require.NoError(t, err)
		assert.Equal(t, "provider-id-1", profile.ProviderUserID)
		assert.Equal(t, "Shiro", profile.Name)
		require.NotNil(t, profile.Email)
		assert.Equal(t, "shiro@example.com", *profile.Email)
		require.NotNil(t, profile.AvatarUrl)
	})

	t.Run("optional fields stay nil", func(t *testing.T) {
		profile, err := profileFromUserInfo(userInfoResponse{Sub: "x", Name: "y"})
		require.NoError(t, err)
		assert.Nil(t, profile.Email)
		assert.Nil(t, profile.AvatarUrl)
	})

	t.Run("missing subject", func(t *testing.T) {
		_, err := profileFromUserInfo(userInfoResponse{Name: "nobody"})
		assert.Error(t, err)
	})
}

func TestProfileFromIDToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "provider-id-2",
		"name":  "Shiro",
		"email": "shiro@example.com",
	})
	signed, err := token.SignedString([]byte("irrelevant"))
	require.NoError(t, err)

	profile, err := profileFromIDToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "provider-id-2", profile.ProviderUserID)
	require.NotNil(t, profile.Email)
	assert.Equal(t, "shiro@example.com", *profile.Email)

	_, err = profileFromIDToken("not-a-jwt")
	assert.Error(t, err)
}
