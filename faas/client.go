package faas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
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

// defaultRequestTimeout bounds a single API request. Campaign payloads carry every source and AST of the project, so
// it is generous.
const defaultRequestTimeout = 2 * time.Minute

// Client talks to the fuzzing-as-a-service API.
type Client struct {
	// baseURL is the root of the service, without a trailing slash.
	baseURL string

	// apiKey is sent as a bearer token with every request.
	apiKey string

	// client is used to send requests.
	client *http.Client

	// logger describes the Client's log object that can be used to log important events
	logger *logging.Logger
}

// NewClient creates a Client for the service at baseURL authenticating with apiKey. A nil httpClient is replaced by
// one with a default timeout.
func NewClient(baseURL string, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  httpClient,
		logger:  logging.GlobalLogger.NewSubLogger("module", logging.FAAS_SERVICE),
	}
}

// CampaignURL returns the dashboard page of a campaign.
func (c *Client) CampaignURL(id string) string {
	return c.baseURL + "/campaigns/" + id
}

// do sends a request with an optional JSON body and decodes a JSON response into result.
func (c *Client) do(ctx context.Context, method string, requestURL string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.WithStack(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.GetInfo().UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "could not reach %s", c.baseURL)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WithStack(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &BadStatusCodeError{StatusCode: resp.StatusCode, URL: requestURL, Detail: detailFromBody(respBody)}
	}
	if result == nil {
		return nil
	}
	if err = json.Unmarshal(respBody, result); err != nil {
		return errors.Wrapf(err, "could not parse the response of %s", requestURL)
	}
	return nil
}

// detailFromBody extracts the "detail" field of an error body, falling back to the raw body.
func detailFromBody(body []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != nil {
		if detail, ok := parsed.Detail.(string); ok {
			return detail
		}
		// Validation errors carry a list of objects
		if encoded, err := json.Marshal(parsed.Detail); err == nil {
			return string(encoded)
		}
	}
	return strings.TrimSpace(string(body))
}

// CreateCampaign submits a campaign and starts it immediately. It returns the campaign id.
func (c *Client) CreateCampaign(ctx context.Context, request *CampaignRequest) (string, error) {
	requestURL := c.baseURL + "/api/campaigns?" + url.Values{"start_immediately": {"true"}}.Encode()
	c.logger.Debug("Submitting campaign ", colors.Bold, request.Name, colors.Reset, " with ", len(request.Contracts), " contracts to ", c.baseURL)

	var created createCampaignResponse
	if err := c.do(ctx, http.MethodPost, requestURL, request, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", errors.New("the service did not return a campaign id")
	}
	return created.ID, nil
}

// GetCampaign fetches the current state of a campaign.
func (c *Client) GetCampaign(ctx context.Context, id string) (*Campaign, error) {
	var campaign Campaign
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/api/campaigns/"+url.PathEscape(id), nil, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

// WaitForCampaign polls the campaign every interval until it reaches a terminal state or ctx is done. Status changes
// are logged. Failed requests end the wait.
func (c *Client) WaitForCampaign(ctx context.Context, id string, interval time.Duration) (*Campaign, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastStatus CampaignStatus
	for {
		campaign, err := c.GetCampaign(ctx, id)
		if err != nil {
			return nil, err
		}
		if campaign.Status != lastStatus {
			c.logger.Info("Campaign ", colors.Bold, id, colors.Reset, " is ", logging.GetCampaignStatusStyle(string(campaign.Status)).Render(string(campaign.Status)),
				fmt.Sprintf(" (%d issues)", campaign.NumIssues))
			lastStatus = campaign.Status
		}
		if campaign.Status.IsTerminal() {
			return campaign, nil
		}

		select {
		case <-ctx.Done():
			return campaign, errors.WithStack(ctx.Err())
		case <-ticker.C:
		}
	}
}
