package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRefreshToken(t *testing.T) {
	token, err := ParseRefreshToken("example-us.com::test-ci::test-rt")
	require.NoError(t, err)
	assert.Equal(t, "example-us.com", token.AuthEndpoint)
	assert.Equal(t, "test-ci", token.ClientID)
	assert.Equal(t, "test-rt", token.Token)
	assert.Equal(t, "example-us.com::test-ci::test-rt", token.String())
}

func TestParseRefreshTokenMalformed(t *testing.T) {
	for _, value := range []string{"test::1", "test", "test::::2", "::1::2", "::::2", "1::::", "", "a::b::c::d"} {
		_, err := ParseRefreshToken(value)
		assert.ErrorIs(t, err, ErrMalformedRefreshToken, "value %q", value)
	}
	assert.Equal(t, "Refresh Token is malformed. The format is `<auth_endpoint>::<client_id>::<refresh_token>`", ErrMalformedRefreshToken.Error())
}
