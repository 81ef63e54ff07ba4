// Package tradedispatcher drains the engine's outbound trade queue and fans
// each trade out to the configured sinks. It is the only consumer of that
// queue, so sinks always observe trades in execution order.
package tradedispatcher

import (
	"context"
	"sync/atomic"
	"time"

	orderbookv1 "github.com/tradeforge/matching-engine/internal/domain/orderbook/v1"
	"github.com/tradeforge/matching-engine/pkg/logger"
	"github.com/tradeforge/matching-engine/pkg/queue"
)

// Sink receives executed trades. A failing sink is logged and skipped for
// that trade; it never blocks delivery to the other sinks.
type Sink interface {
	Name() string
	Consume(ctx context.Context, trade orderbookv1.Trade) error
}

// Dispatcher polls the trade queue and delivers to its sinks.
type Dispatcher struct {
	trades   *queue.Queue[orderbookv1.Trade]
	sinks    []Sink
	interval time.Duration
	logger   logger.Interface

	dispatched atomic.Int64
}

// New creates a dispatcher. interval is the backoff between polls when the
// queue is empty; zero falls back to 10ms.
func New(trades *queue.Queue[orderbookv1.Trade], interval time.Duration, log logger.Interface, sinks ...Sink) *Dispatcher {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	return &Dispatcher{
		trades:   trades,
		sinks:    sinks,
		interval: interval,
		logger:   log,
	}
}

// Run polls until ctx is cancelled. It uses non-blocking pops with a sleep
// between empty polls so cancellation is always observed promptly.
func (d *Dispatcher) Run(ctx context.Context) {
	timer := time.NewTimer(d.interval)
	defer timer.Stop()

	for {
		trade, ok := d.trades.TryPop()
		if ok {
			d.deliver(ctx, trade)
			continue
		}

		timer.Reset(d.interval)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// Drain delivers everything still queued. Call after the engine has stopped,
// when no producer can race the drain.
func (d *Dispatcher) Drain(ctx context.Context) {
	for {
		trade, ok := d.trades.TryPop()
		if !ok {
			return
		}
		d.deliver(ctx, trade)
	}
}

// Dispatched returns how many trades have been delivered to the sinks.
func (d *Dispatcher) Dispatched() int64 {
	return d.dispatched.Load()
}

func (d *Dispatcher) deliver(ctx context.Context, trade orderbookv1.Trade) {
	d.dispatched.Add(1)
	for _, sink := range d.sinks {
		if err := sink.Consume(ctx, trade); err != nil {
			d.logger.Error(err,
				logger.Field{Key: "sink", Value: sink.Name()},
				logger.Field{Key: "trade", Value: trade.String()},
			)
		}
	}
}
