package logging

// These constants identify the services that log through their own sub-logger (see Logger.NewSubLogger).
const (
	// CLI_SERVICE is the constant used to identify the cmd package
	CLI_SERVICE = "cli"
	// WIZARD_SERVICE is the constant used to identify the configuration wizard
	WIZARD_SERVICE = "wizard"
	// IDE_SERVICE is the constant used to identify the IDE artifact detectors
	IDE_SERVICE = "ide"
	// AUTH_SERVICE is the constant used to identify the token exchange
	AUTH_SERVICE = "auth"
	// RPC_SERVICE is the constant used to identify the seed state RPC client
	RPC_SERVICE = "rpc"
	// FAAS_SERVICE is the constant used to identify the FaaS API client
	FAAS_SERVICE = "faas"
	// CAMPAIGN_SERVICE is the constant used to identify campaign assembly
	CAMPAIGN_SERVICE = "campaign"
)
