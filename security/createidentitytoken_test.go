package security

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("reunion-signing-secret-0123456789"))

func TestIdentityTokenRoundTrip(t *testing.T) {
	token, err := CreateIdentityToken(&AdminIdentity{Id: 3, UserName: "organizer"}, testSecret, time.Hour)
	require.NoError(t, err)

	secret, err := DecodeSecret(testSecret)
	require.NoError(t, err)

	identity, err := ParseIdentityToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, 3, identity.ID)
	assert.Equal(t, "organizer", identity.UniqueName)
}

func TestParseIdentityTokenRejects(t *testing.T) {
	secret, _ := DecodeSecret(testSecret)

	expired, err := CreateIdentityToken(&AdminIdentity{Id: 1}, testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseIdentityToken(expired, secret)
	assert.Error(t, err)

	_, err = ParseIdentityToken(expired+"x", secret)
	assert.Error(t, err)

	_, err = DecodeSecret("not base64!")
	assert.Error(t, err)
}
