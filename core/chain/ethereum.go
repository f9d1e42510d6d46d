package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Backend is the part of ethclient.Client the contract client uses.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
}

// EthClient reads the collectible contract over JSON-RPC. It is created once at
// startup and shared by every component that talks to the chain.
type EthClient struct {
	caller      Backend
	subscriber  Backend
	address     common.Address
	abi         abi.ABI
	attempts    int
	delay       time.Duration
	callTimeout time.Duration
	logger      *zap.Logger
	closers     []func()
}

// Dial connects to the configured RPC endpoint, and to the websocket endpoint when
// one is set.
func Dial(ctx context.Context, cfg Config, logger *zap.Logger) (*EthClient, error) {
	if cfg.RPCURL == "" {
		return nil, errors.New("chain rpc url is not configured")
	}

	rpc, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial chain rpc: %w", err)
	}
	closers := []func(){rpc.Close}

	sub := rpc
	if cfg.WSURL != "" && cfg.WSURL != cfg.RPCURL {
		ws, err := ethclient.DialContext(ctx, cfg.WSURL)
		if err != nil {
			rpc.Close()
			return nil, fmt.Errorf("failed to dial chain websocket: %w", err)
		}
		sub = ws
		closers = append(closers, ws.Close)
	}

	c, err := NewEthClient(rpc, sub, cfg, logger)
	if err != nil {
		for _, closeFn := range closers {
			closeFn()
		}
		return nil, err
	}
	c.closers = closers
	return c, nil
}

// NewEthClient builds a contract client on existing backends.
func NewEthClient(caller, subscriber Backend, cfg Config, logger *zap.Logger) (*EthClient, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}

	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract abi: %w", err)
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	callTimeout := time.Duration(cfg.CallTimeoutSeconds) * time.Second
	if callTimeout <= 0 {
		callTimeout = 15 * time.Second
	}

	return &EthClient{
		caller:      caller,
		subscriber:  subscriber,
		address:     common.HexToAddress(cfg.ContractAddress),
		abi:         parsed,
		attempts:    attempts,
		delay:       time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		callTimeout: callTimeout,
		logger:      logger,
	}, nil
}

// Close releases the underlying connections.
func (c *EthClient) Close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
}

// FetchItem implements Client.
func (c *EthClient) FetchItem(ctx context.Context, id int) (*RawItem, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid item id %d", id)
	}

	values, err := c.call(ctx, "getBorg", big.NewInt(int64(id)))
	if err != nil {
		return nil, err
	}
	if len(values) != 6 {
		return nil, fmt.Errorf("getBorg returned %d values", len(values))
	}

	name, _ := values[0].(string)
	image, ok := values[1].([][8]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected getBorg image type %T", values[1])
	}
	attributes, ok := values[2].([]string)
	if !ok {
		return nil, fmt.Errorf("unexpected getBorg attributes type %T", values[2])
	}

	item := &RawItem{
		Name:       name,
		Pixels:     decodePixels(image),
		Attributes: attributes,
	}
	for i, dst := range []*int{&item.ParentA, &item.ParentB, &item.Child} {
		if *dst, err = toInt(values[3+i]); err != nil {
			return nil, fmt.Errorf("getBorg value %d: %w", 3+i, err)
		}
	}
	return item, nil
}

// FetchTotalGeneratedCount implements Client.
func (c *EthClient) FetchTotalGeneratedCount(ctx context.Context) (int, error) {
	values, err := c.call(ctx, "totalSupply")
	if err != nil {
		return 0, err
	}
	if len(values) != 1 {
		return 0, fmt.Errorf("totalSupply returned %d values", len(values))
	}
	return toInt(values[0])
}

func (c *EthClient) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &c.address, Data: data}

	var out []byte
	delay := c.delay
	for attempt := 1; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		out, err = c.caller.CallContract(callCtx, msg, nil)
		cancel()
		if err == nil {
			break
		}
		if attempt >= c.attempts || ctx.Err() != nil {
			return nil, fmt.Errorf("%s failed after %d attempts: %w", method, attempt, err)
		}

		c.logger.Warn("Contract call failed, retrying",
			zap.String("method", method),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry_in", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	values, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return values, nil
}

// SubscribeEvents implements Client.
func (c *EthClient) SubscribeEvents(ctx context.Context, sink chan<- Event) (Subscription, error) {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{c.address},
		Topics: [][]common.Hash{{
			c.abi.Events[string(EventGenerated)].ID,
			c.abi.Events[string(EventBred)].ID,
		}},
	}

	logs := make(chan types.Log, 64)
	inner, err := c.subscriber.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to contract logs: %w", err)
	}

	s := &eventSubscription{
		inner: inner,
		errCh: make(chan error, 1),
		quit:  make(chan struct{}),
	}
	go s.forward(ctx, c, logs, sink)
	return s, nil
}

func (c *EthClient) decodeLog(l types.Log) (Event, error) {
	if len(l.Topics) == 0 {
		return Event{}, errors.New("log has no topics")
	}

	ev := Event{Block: l.BlockNumber, TxHash: l.TxHash.Hex()}
	var err error

	switch l.Topics[0] {
	case c.abi.Events[string(EventGenerated)].ID:
		if len(l.Topics) < 2 {
			return Event{}, fmt.Errorf("%s log has %d topics", EventGenerated, len(l.Topics))
		}
		ev.Kind = EventGenerated
		ev.ItemID, err = topicInt(l.Topics[1])
	case c.abi.Events[string(EventBred)].ID:
		if len(l.Topics) < 4 {
			return Event{}, fmt.Errorf("%s log has %d topics", EventBred, len(l.Topics))
		}
		ev.Kind = EventBred
		if ev.ItemID, err = topicInt(l.Topics[1]); err == nil {
			if ev.ParentA, err = topicInt(l.Topics[2]); err == nil {
				ev.ParentB, err = topicInt(l.Topics[3])
			}
		}
	default:
		return Event{}, fmt.Errorf("unknown event topic %s", l.Topics[0].Hex())
	}
	return ev, err
}

type eventSubscription struct {
	inner ethereum.Subscription
	errCh chan error
	quit  chan struct{}
	once  sync.Once
}

func (s *eventSubscription) Err() <-chan error {
	return s.errCh
}

func (s *eventSubscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.quit)
		s.inner.Unsubscribe()
	})
}

func (s *eventSubscription) forward(ctx context.Context, c *EthClient, logs <-chan types.Log, sink chan<- Event) {
	defer close(s.errCh)

	for {
		select {
		case l := <-logs:
			if l.Removed {
				continue
			}
			ev, err := c.decodeLog(l)
			if err != nil {
				c.logger.Warn("Skipping undecodable contract log", zap.String("tx", l.TxHash.Hex()), zap.Error(err))
				continue
			}
			select {
			case sink <- ev:
			case <-s.quit:
				return
			case <-ctx.Done():
				s.errCh <- ctx.Err()
				return
			}
		case err := <-s.inner.Err():
			if err == nil {
				err = errors.New("subscription closed")
			}
			s.errCh <- err
			return
		case <-s.quit:
			return
		case <-ctx.Done():
			s.errCh <- ctx.Err()
			return
		}
	}
}

// decodePixels turns bytes8 words into hex colour strings. Each word holds ASCII
// text padded with NUL bytes.
func decodePixels(words [][8]byte) []string {
	pixels := make([]string, len(words))
	for i, w := range words {
		s := string(w[:])
		if idx := strings.IndexByte(s, 0); idx >= 0 {
			s = s[:idx]
		}
		pixels[i] = strings.TrimSpace(s)
	}
	return pixels
}

func toInt(v interface{}) (int, error) {
	b, ok := v.(*big.Int)
	if !ok {
		return 0, fmt.Errorf("expected *big.Int, got %T", v)
	}
	if !b.IsInt64() {
		return 0, fmt.Errorf("value %s overflows int", b.String())
	}
	return int(b.Int64()), nil
}

func topicInt(h common.Hash) (int, error) {
	return toInt(new(big.Int).SetBytes(h.Bytes()))
}
