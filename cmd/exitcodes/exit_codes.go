package exitcodes

const (
	// ================================
	// Platform-universal exit codes
	// ================================

	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// ExitCodeUsageError indicates the command line or configuration contained an invalid parameter.
	ExitCodeUsageError = 2

	// ================================
	// Application-specific exit codes
	// ================================

	// ExitCodeHandledError indicates that there was an error that was logged already and does not need to be handled
	// by main.
	ExitCodeHandledError = 3

	// ExitCodeCampaignFailed indicates a campaign that was waited on finished unsuccessfully or reported issues.
	ExitCodeCampaignFailed = 7
)
