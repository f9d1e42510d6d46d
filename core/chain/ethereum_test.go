package chain

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAddress = "0x00000000000000000000000000000000000000b0"

type fakeSub struct {
	errCh chan error
}

func (s *fakeSub) Err() <-chan error { return s.errCh }
func (s *fakeSub) Unsubscribe()      {}

type fakeBackend struct {
	parsed   abi.ABI
	outputs  map[string][]byte
	failures int
	calls    int
	logs     chan<- types.Log
	sub      *fakeSub
}

func (b *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.calls++
	if b.failures > 0 {
		b.failures--
		return nil, errors.New("rpc timeout")
	}
	for name, method := range b.parsed.Methods {
		if bytes.HasPrefix(msg.Data, method.ID) {
			return b.outputs[name], nil
		}
	}
	return nil, errors.New("unknown method")
}

func (b *fakeBackend) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	b.logs = ch
	b.sub = &fakeSub{errCh: make(chan error, 1)}
	return b.sub, nil
}

func newTestClient(t *testing.T, failures int) (*EthClient, *fakeBackend) {
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	require.NoError(t, err)

	word := func(s string) [8]byte {
		var w [8]byte
		copy(w[:], s)
		return w
	}
	itemOut, err := parsed.Methods["getBorg"].Outputs.Pack(
		"Unit 7",
		[][8]byte{word("FFFF0000"), word(""), word(" FF00FF00")},
		[]string{"blank1", "Visor", ""},
		big.NewInt(3), big.NewInt(4), big.NewInt(0),
	)
	require.NoError(t, err)
	totalOut, err := parsed.Methods["totalSupply"].Outputs.Pack(big.NewInt(12))
	require.NoError(t, err)

	backend := &fakeBackend{
		parsed:   parsed,
		outputs:  map[string][]byte{"getBorg": itemOut, "totalSupply": totalOut},
		failures: failures,
	}
	c, err := NewEthClient(backend, backend, Config{
		ContractAddress: testAddress,
		RetryAttempts:   3,
		RetryDelayMs:    1,
	}, zap.NewNop())
	require.NoError(t, err)
	return c, backend
}

func TestFetchItem(t *testing.T) {
	c, _ := newTestClient(t, 0)

	item, err := c.FetchItem(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Unit 7", item.Name)
	assert.Equal(t, []string{"FFFF0000", "", "FF00FF00"}, item.Pixels)
	assert.Equal(t, []string{"blank1", "Visor", ""}, item.Attributes)
	assert.Equal(t, 3, item.ParentA)
	assert.Equal(t, 4, item.ParentB)
	assert.Equal(t, 0, item.Child)
	assert.True(t, item.HasAttributes())

	_, err = c.FetchItem(context.Background(), 0)
	assert.ErrorContains(t, err, "invalid item id")
}

func TestFetchTotalGeneratedCount(t *testing.T) {
	c, _ := newTestClient(t, 0)

	total, err := c.FetchTotalGeneratedCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, total)
}

func TestRetry(t *testing.T) {
	t.Run("Recovers Within Attempts", func(t *testing.T) {
		c, backend := newTestClient(t, 2)

		total, err := c.FetchTotalGeneratedCount(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 12, total)
		assert.Equal(t, 3, backend.calls)
	})

	t.Run("Gives Up", func(t *testing.T) {
		c, backend := newTestClient(t, 5)

		_, err := c.FetchTotalGeneratedCount(context.Background())
		assert.ErrorContains(t, err, "failed after 3 attempts")
		assert.Equal(t, 3, backend.calls)
	})
}

func TestNewEthClient_InvalidAddress(t *testing.T) {
	_, err := NewEthClient(nil, nil, Config{ContractAddress: "nope"}, zap.NewNop())
	assert.ErrorContains(t, err, "invalid contract address")
}

func TestSubscribeEvents(t *testing.T) {
	c, backend := newTestClient(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := make(chan Event, 4)
	sub, err := c.SubscribeEvents(ctx, sink)
	require.NoError(t, err)

	id := func(n int64) common.Hash { return common.BigToHash(big.NewInt(n)) }

	backend.logs <- types.Log{Topics: []common.Hash{c.abi.Events["GeneratedBorg"].ID, id(15), common.Hash{}}}
	backend.logs <- types.Log{Topics: []common.Hash{c.abi.Events["BredBorg"].ID, id(16), id(3), id(4)}}
	backend.logs <- types.Log{Topics: []common.Hash{common.HexToHash("0xdead")}}

	first := <-sink
	assert.Equal(t, Event{Kind: EventGenerated, ItemID: 15, TxHash: first.TxHash}, first)

	second := <-sink
	assert.Equal(t, EventBred, second.Kind)
	assert.Equal(t, 16, second.ItemID)
	assert.Equal(t, 3, second.ParentA)
	assert.Equal(t, 4, second.ParentB)

	backend.sub.errCh <- errors.New("socket closed")
	select {
	case err := <-sub.Err():
		assert.EqualError(t, err, "socket closed")
	case <-time.After(time.Second):
		t.Fatal("subscription error not forwarded")
	}
	sub.Unsubscribe()
}

func TestDecodePixels(t *testing.T) {
	var padded [8]byte
	copy(padded[:], "FF00")
	assert.Equal(t, []string{"FF00"}, decodePixels([][8]byte{padded}))
}
