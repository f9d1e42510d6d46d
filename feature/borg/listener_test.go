package borg

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"borg-link/core/chain"
	chainmocks "borg-link/core/chain/mocks"
	"borg-link/core/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSubscription struct {
	errCh chan error
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{errCh: make(chan error, 1)}
}

func (s *fakeSubscription) Err() <-chan error { return s.errCh }
func (s *fakeSubscription) Unsubscribe()      {}

func TestListener_EnqueuesEvents(t *testing.T) {
	client := new(chainmocks.Client)
	q := queue.NewMemoryQueue(10)
	sub := newFakeSubscription()

	client.On("SubscribeEvents", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sink := args.Get(1).(chan<- chain.Event)
			sink <- chain.Event{Kind: chain.EventGenerated, ItemID: 11}
			sink <- chain.Event{Kind: chain.EventBred, ItemID: 12, ParentA: 3, ParentB: 4}
		}).
		Return(sub, nil)

	l := NewListener(client, q, time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return q.Len() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateStreaming, l.State())

	cancel()
	<-done
	assert.Equal(t, StateStopped, l.State())

	for _, want := range []int{11, 12} {
		d, err := q.Dequeue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, d.Job.ItemID)
		assert.True(t, d.Job.TriggerDownstream)
	}
}

func TestListener_Resubscribes(t *testing.T) {
	client := new(chainmocks.Client)
	q := queue.NewMemoryQueue(10)

	failed := newFakeSubscription()
	failed.errCh <- errors.New("socket closed")
	healthy := newFakeSubscription()

	var attempts atomic.Int32
	count := func(mock.Arguments) { attempts.Add(1) }
	client.On("SubscribeEvents", mock.Anything, mock.Anything).Run(count).Return(nil, errors.New("dial failed")).Once()
	client.On("SubscribeEvents", mock.Anything, mock.Anything).Run(count).Return(failed, nil).Once()
	client.On("SubscribeEvents", mock.Anything, mock.Anything).Run(count).Return(healthy, nil)

	l := NewListener(client, q, time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	require.Eventually(t, func() bool {
		return l.State() == StateStreaming && attempts.Load() == 3
	}, time.Second, 5*time.Millisecond)
}

func TestListenerState_String(t *testing.T) {
	assert.Equal(t, "streaming", StateStreaming.String())
	assert.Equal(t, "unknown", ListenerState(42).String())
}
