// Package chain reads the collectible contract.
//
// The Client interface is what the importer, the gap detector and the event
// listener depend on. EthClient implements it with go-ethereum: contract calls are
// ABI encoded eth_calls with a bounded retry whose delay doubles per attempt, and
// events arrive through a log filter subscription.
//
// Pixels are stored on chain as bytes8 words holding ASCII hex ARGB text padded
// with NUL bytes; FetchItem returns them as trimmed strings. Parent and child ids
// of zero mean absent.
package chain
