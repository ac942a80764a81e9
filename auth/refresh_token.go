package auth

import (
	"strings"

	"github.com/pkg/errors"
)

// refreshTokenSeparator separates the parts of a refresh token triple.
const refreshTokenSeparator = "::"

// ErrMalformedRefreshToken is returned for refresh tokens that are not a <auth_endpoint>::<client_id>::<refresh_token>
// triple.
var ErrMalformedRefreshToken = errors.New("Refresh Token is malformed. The format is `<auth_endpoint>::<client_id>::<refresh_token>`")

// RefreshToken is a parsed refresh token triple.
type RefreshToken struct {
	// AuthEndpoint is the host of the authorization server, e.g. "auth.example.com".
	AuthEndpoint string

	// ClientID is the OAuth client the refresh token was issued to.
	ClientID string

	// Token is the refresh token itself.
	Token string
}

// ParseRefreshToken splits a refresh token triple. Exactly three non-empty parts are required.
func ParseRefreshToken(value string) (*RefreshToken, error) {
	parts := strings.Split(value, refreshTokenSeparator)
	if len(parts) != 3 {
		return nil, ErrMalformedRefreshToken
	}
	for _, part := range parts {
		if part == "" {
			return nil, ErrMalformedRefreshToken
		}
	}
	return &RefreshToken{AuthEndpoint: parts[0], ClientID: parts[1], Token: parts[2]}, nil
}

// String returns the triple form of the refresh token.
func (r *RefreshToken) String() string {
	return strings.Join([]string{r.AuthEndpoint, r.ClientID, r.Token}, refreshTokenSeparator)
}
