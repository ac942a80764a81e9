package faas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crytic/fuzz-cli/ide"
	"github.com/crytic/fuzz-cli/rpc"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", "test-key", server.Client())
}

func TestCreateCampaign(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/campaigns", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("start_immediately"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "fuzz-cli/"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "proj_1a2b3c4d", body["name"])
		assert.Equal(t, true, body["quickCheck"])
		assert.NotContains(t, body, "project")
		parameters := body["parameters"].(map[string]any)
		assert.Equal(t, true, parameters["emit-mythx-report"])
		assert.Nil(t, parameters["time-limit-secs"])
		assert.Contains(t, body["corpus"], "steps")
		assert.Len(t, body["contracts"], 1)

		_, _ = w.Write([]byte(`{"id": "cmp_42"}`))
	})

	id, err := client.CreateCampaign(context.Background(), &CampaignRequest{
		Name:       "proj_1a2b3c4d",
		Parameters: CampaignParameters{NumCores: 1, AssertionCheckingMode: 1, EmitMythXReport: true},
		Corpus:     rpc.AnalysisSetup{AddressUnderTest: "0x01"},
		Sources:    map[string]ide.Source{"contracts/Token.sol": {FileIndex: 0, Source: "contract Token {}"}},
		Contracts:  []ide.Contract{{ContractName: "Token", MainSourceFile: "contracts/Token.sol"}},
		QuickCheck: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "cmp_42", id)
	assert.Equal(t, client.baseURL+"/campaigns/cmp_42", client.CampaignURL(id))
}

func TestCreateCampaignBadStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"detail": "Free tier limit reached"}`))
	})

	_, err := client.CreateCampaign(context.Background(), &CampaignRequest{Name: "x"})
	require.Error(t, err)
	var statusErr *BadStatusCodeError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusPaymentRequired, statusErr.StatusCode)
	assert.Equal(t, "Free tier limit reached", statusErr.Detail)
	assert.Contains(t, err.Error(), "Got http status code 402 for request "+client.baseURL+"/api/campaigns?start_immediately=true")
}

func TestDetailFromBody(t *testing.T) {
	assert.Equal(t, "plain", detailFromBody([]byte("plain\n")))
	assert.Equal(t, `[{"loc":["body","name"]}]`, detailFromBody([]byte(`{"detail": [{"loc": ["body", "name"]}]}`)))
	assert.Equal(t, `{"other": 1}`, detailFromBody([]byte(`{"other": 1}`)))
}

func TestCreateCampaignWithoutID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	_, err := client.CreateCampaign(context.Background(), &CampaignRequest{Name: "x"})
	assert.Error(t, err)
}

func TestWaitForCampaign(t *testing.T) {
	var polls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/campaigns/cmp_42", r.URL.Path)
		status := CampaignStatusRunning
		if atomic.AddInt32(&polls, 1) >= 3 {
			status = CampaignStatusCompleted
		}
		_ = json.NewEncoder(w).Encode(Campaign{ID: "cmp_42", Status: status, NumIssues: 2})
	})

	campaign, err := client.WaitForCampaign(context.Background(), "cmp_42", time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, CampaignStatusCompleted, campaign.Status)
	assert.Equal(t, 2, campaign.NumIssues)
	assert.EqualValues(t, 3, atomic.LoadInt32(&polls))
}

func TestWaitForCampaignCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Campaign{ID: "cmp_42", Status: CampaignStatusRunning})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	campaign, err := client.WaitForCampaign(ctx, "cmp_42", 5*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	if campaign != nil {
		assert.Equal(t, CampaignStatusRunning, campaign.Status)
	}
}

func TestCampaignStatusIsTerminal(t *testing.T) {
	assert.False(t, CampaignStatusPending.IsTerminal())
	assert.False(t, CampaignStatusRunning.IsTerminal())
	for _, status := range []CampaignStatus{CampaignStatusCompleted, CampaignStatusStopped, CampaignStatusFailed, CampaignStatusError} {
		assert.True(t, status.IsTerminal(), status)
	}
}
