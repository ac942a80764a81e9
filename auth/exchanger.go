package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crytic/fuzz-cli/logging"
	"github.com/crytic/fuzz-cli/logging/colors"
	"github.com/crytic/fuzz-cli/version"
	"github.com/pkg/errors"
)

// defaultExchangeTimeout bounds a single token request.
const defaultExchangeTimeout = 30 * time.Second

// Exchanger trades refresh tokens for access tokens at the authorization server named in the token.
type Exchanger struct {
	// client is used to send requests.
	client *http.Client

	// logger describes the Exchanger's log object that can be used to log important events
	logger *logging.Logger
}

// NewExchanger creates an Exchanger using client, or a client with a default timeout if client is nil. Token requests
// are always sent over HTTPS.
func NewExchanger(client *http.Client) *Exchanger {
	if client == nil {
		client = &http.Client{Timeout: defaultExchangeTimeout}
	}
	return &Exchanger{
		client: client,
		logger: logging.GlobalLogger.NewSubLogger("module", logging.AUTH_SERVICE),
	}
}

// tokenResponse is the body of a successful token response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// TokenURL returns the token endpoint of the authorization server named in refreshToken.
func TokenURL(refreshToken *RefreshToken) string {
	return (&url.URL{Scheme: "https", Host: refreshToken.AuthEndpoint, Path: "/oauth/token"}).String()
}

// RetrieveAccessToken parses a refresh token triple and exchanges it for an access token. A malformed triple yields
// ErrMalformedRefreshToken and a rejection by the server yields an *AuthorizationError.
func (e *Exchanger) RetrieveAccessToken(ctx context.Context, triple string) (string, error) {
	refreshToken, err := ParseRefreshToken(triple)
	if err != nil {
		return "", err
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", refreshToken.ClientID)
	data.Set("refresh_token", refreshToken.Token)

	tokenURL := TokenURL(refreshToken)
	e.logger.Debug("Exchanging refresh token at ", colors.Bold, tokenURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.GetInfo().UserAgent())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "could not reach the authorization server at %s", refreshToken.AuthEndpoint)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.WithStack(err)
	}

	if resp.StatusCode != http.StatusOK {
		authErr := &AuthorizationError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, authErr); jsonErr != nil || authErr.Code == "" {
			authErr.Code = strings.TrimSpace(string(body))
			if authErr.Code == "" {
				authErr.Code = http.StatusText(resp.StatusCode)
			}
		}
		e.logger.Debug("Token exchange rejected with status ", resp.StatusCode, ": ", authErr.Description)
		return "", authErr
	}

	var token tokenResponse
	if err = json.Unmarshal(body, &token); err != nil {
		return "", errors.Wrap(err, "could not parse the token response")
	}
	if token.AccessToken == "" {
		return "", errors.New("the token response does not contain an access token")
	}
	return token.AccessToken, nil
}

// ResolveAPIKey returns apiKey if set, otherwise the access token obtained for refreshToken. ErrNoCredentials is
// returned when both are empty.
func (e *Exchanger) ResolveAPIKey(ctx context.Context, apiKey string, refreshToken string) (string, error) {
	if apiKey != "" {
		return apiKey, nil
	}
	if refreshToken == "" {
		return "", ErrNoCredentials
	}
	return e.RetrieveAccessToken(ctx, refreshToken)
}
