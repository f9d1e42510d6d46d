package chain

// Config holds configuration for the contract connection.
type Config struct {
	// RPCURL is the JSON-RPC endpoint used for contract calls.
	RPCURL string `mapstructure:"rpc_url" default:""`
	// WSURL is the websocket endpoint used for event subscriptions. Empty reuses RPCURL.
	WSURL string `mapstructure:"ws_url" default:""`
	// ContractAddress is the address of the collectible contract.
	ContractAddress string `mapstructure:"contract_address" default:""`
	// RetryAttempts is the number of attempts per contract call.
	RetryAttempts int `mapstructure:"retry_attempts" default:"3"`
	// RetryDelayMs is the delay before the first retry; it doubles on every attempt.
	RetryDelayMs int `mapstructure:"retry_delay_ms" default:"1000"`
	// CallTimeoutSeconds bounds a single contract call.
	CallTimeoutSeconds int `mapstructure:"call_timeout_seconds" default:"15"`
	// ListenerEnabled starts the event listener with the server.
	ListenerEnabled bool `mapstructure:"listener_enabled" default:"true"`
	// ReconnectCooldownSeconds is the wait between a subscription failure and the next attempt.
	ReconnectCooldownSeconds int `mapstructure:"reconnect_cooldown_seconds" default:"5"`
}
