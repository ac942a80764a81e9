package cmd

import "time"

// DefaultPollInterval is the interval at which `run --wait` polls the campaign status.
const DefaultPollInterval = 30 * time.Second

// EnvPrefix is the prefix of environment variables overriding run flags, e.g. FUZZ_API_KEY for --api-key.
const EnvPrefix = "FUZZ"

// envBoundFlags lists the run flags that can also be set through the environment.
var envBoundFlags = []string{"api-key", "refresh-token", "faas-url", "rpc-url"}
