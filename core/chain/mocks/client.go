package mocks

import (
	"context"

	"borg-link/core/chain"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of chain.Client.
type Client struct {
	mock.Mock
}

func (m *Client) FetchItem(ctx context.Context, id int) (*chain.RawItem, error) {
	args := m.Called(ctx, id)
	if item, ok := args.Get(0).(*chain.RawItem); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) FetchTotalGeneratedCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *Client) SubscribeEvents(ctx context.Context, sink chan<- chain.Event) (chain.Subscription, error) {
	args := m.Called(ctx, sink)
	if sub, ok := args.Get(0).(chain.Subscription); ok {
		return sub, args.Error(1)
	}
	return nil, args.Error(1)
}
