package faas

import (
	"github.com/crytic/fuzz-cli/ide"
	"github.com/crytic/fuzz-cli/rpc"
)

// CampaignParameters tune the remote fuzzer.
type CampaignParameters struct {
	DiscoveryProbabilityThreshold float64 `json:"discovery-probability-threshold"`
	NumCores                      int     `json:"num-cores"`
	AssertionCheckingMode         int     `json:"assertion-checking-mode"`
	EmitMythXReport               bool    `json:"emit-mythx-report"`
	TimeLimitSecs                 *int64  `json:"time-limit-secs"`
}

// CampaignRequest is the body of a campaign creation request.
type CampaignRequest struct {
	Name                string                `json:"name"`
	Parameters          CampaignParameters    `json:"parameters"`
	Corpus              rpc.AnalysisSetup     `json:"corpus"`
	Sources             map[string]ide.Source `json:"sources"`
	Contracts           []ide.Contract        `json:"contracts"`
	Project             string                `json:"project,omitempty"`
	QuickCheck          bool                  `json:"quickCheck"`
	MapToOriginalSource bool                  `json:"mapToOriginalSource"`
	TimeLimit           string                `json:"timeLimit,omitempty"`
}

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignStatusPending   CampaignStatus = "pending"
	CampaignStatusRunning   CampaignStatus = "running"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusStopped   CampaignStatus = "stopped"
	CampaignStatusFailed    CampaignStatus = "failed"
	CampaignStatusError     CampaignStatus = "error"
)

// IsTerminal returns whether the campaign will not change state anymore.
func (s CampaignStatus) IsTerminal() bool {
	switch s {
	case CampaignStatusCompleted, CampaignStatusStopped, CampaignStatusFailed, CampaignStatusError:
		return true
	default:
		return false
	}
}

// Campaign is a campaign as reported by the service.
type Campaign struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Status CampaignStatus `json:"status"`

	// NumIssues counts the failed properties found so far.
	NumIssues int `json:"numIssues"`
}

// createCampaignResponse is the body of a successful campaign creation.
type createCampaignResponse struct {
	ID string `json:"id"`
}

// errorResponse is the body of a failed request.
type errorResponse struct {
	Detail any `json:"detail"`
}
