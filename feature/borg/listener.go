package borg

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"borg-link/core/chain"
	"borg-link/core/queue"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListenerState is a stage of the event subscription lifecycle.
type ListenerState int32

const (
	StateDisconnected ListenerState = iota
	StateSubscribing
	StateStreaming
	StateErrored
	StateStopped
)

func (s ListenerState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateSubscribing:
		return "subscribing"
	case StateStreaming:
		return "streaming"
	case StateErrored:
		return "errored"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

var errSubscriptionEnded = errors.New("subscription ended")

// Listener follows contract events and enqueues an import for every new item. A
// failed subscription is retried after a cooldown until the context is cancelled.
type Listener struct {
	chain    chain.Client
	queue    queue.Queue
	cooldown time.Duration
	logger   *zap.Logger
	state    atomic.Int32
}

// NewListener creates a listener.
func NewListener(client chain.Client, q queue.Queue, cooldown time.Duration, logger *zap.Logger) *Listener {
	if cooldown <= 0 {
		cooldown = 5 * time.Second
	}
	return &Listener{chain: client, queue: q, cooldown: cooldown, logger: logger}
}

// State returns the current lifecycle stage.
func (l *Listener) State() ListenerState {
	return ListenerState(l.state.Load())
}

func (l *Listener) setState(s ListenerState) {
	prev := ListenerState(l.state.Swap(int32(s)))
	if prev != s {
		l.logger.Debug("Listener state changed", zap.Stringer("from", prev), zap.Stringer("to", s))
	}
}

// Run drives the subscription until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) {
	defer l.setState(StateStopped)
	l.setState(StateDisconnected)

	for ctx.Err() == nil {
		err := l.stream(ctx)
		if ctx.Err() != nil {
			return
		}

		l.setState(StateErrored)
		l.logger.Warn("Event subscription failed", zap.Error(err), zap.Duration("cooldown", l.cooldown))

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.cooldown):
		}
		l.setState(StateDisconnected)
	}
}

func (l *Listener) stream(ctx context.Context) error {
	l.setState(StateSubscribing)

	events := make(chan chain.Event, 16)
	sub, err := l.chain.SubscribeEvents(ctx, events)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	l.setState(StateStreaming)
	l.logger.Info("Listening for contract events")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-sub.Err():
			if !ok || err == nil {
				return errSubscriptionEnded
			}
			return err
		case ev := <-events:
			l.handle(ctx, ev)
		}
	}
}

func (l *Listener) handle(ctx context.Context, ev chain.Event) {
	job := queue.Job{ID: uuid.NewString(), ItemID: ev.ItemID, TriggerDownstream: true}
	if err := l.queue.Enqueue(ctx, job); err != nil {
		l.logger.Error("Failed to enqueue event import",
			zap.String("event", string(ev.Kind)), zap.Int("item_id", ev.ItemID), zap.Error(err))
		return
	}
	l.logger.Info("Enqueued import from event",
		zap.String("event", string(ev.Kind)),
		zap.Int("item_id", ev.ItemID),
		zap.Uint64("block", ev.Block),
		zap.String("tx", ev.TxHash))
}
