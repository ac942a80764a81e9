package auth

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoCredentials is returned when neither an API key nor a refresh token was provided.
var ErrNoCredentials = errors.New("API key or Refresh Token were not provided.")

// AuthorizationErrorKind classifies the error code returned by the authorization server.
type AuthorizationErrorKind int

const (
	// UnknownAuthorizationError is any error code not listed below.
	UnknownAuthorizationError AuthorizationErrorKind = iota
	// InvalidGrant means the refresh token is invalid, expired or revoked.
	InvalidGrant
	// UnauthorizedClient means the client is not allowed to use the refresh token grant.
	UnauthorizedClient
	// AccessDenied means the server refused the request.
	AccessDenied
)

// String returns the OAuth error code of the kind.
func (k AuthorizationErrorKind) String() string {
	switch k {
	case InvalidGrant:
		return "invalid_grant"
	case UnauthorizedClient:
		return "unauthorized_client"
	case AccessDenied:
		return "access_denied"
	default:
		return "unknown"
	}
}

// AuthorizationError is returned when the authorization server rejects a token exchange.
type AuthorizationError struct {
	// Code is the OAuth "error" field of the response.
	Code string `json:"error"`

	// Description is the OAuth "error_description" field of the response.
	Description string `json:"error_description"`

	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("Authorization failed. Error: %s", e.Code)
}

// Kind classifies the error code.
func (e *AuthorizationError) Kind() AuthorizationErrorKind {
	switch e.Code {
	case "invalid_grant":
		return InvalidGrant
	case "unauthorized_client":
		return UnauthorizedClient
	case "access_denied":
		return AccessDenied
	default:
		return UnknownAuthorizationError
	}
}

// Hint returns a suggestion for the user based on the error kind, or an empty string.
func (e *AuthorizationError) Hint() string {
	switch e.Kind() {
	case InvalidGrant:
		return "the refresh token is invalid, expired or revoked, generate a new one"
	case UnauthorizedClient:
		return "the client id of the refresh token is not allowed to refresh tokens"
	case AccessDenied:
		return "access was denied, check that your account may submit campaigns"
	default:
		return ""
	}
}
