// Package engine runs the matching loop. A single goroutine owns the book:
// orders arrive on an inbound queue, trades leave on an outbound queue, and
// nothing else ever touches the book. Producers and consumers on either side
// only interact with the queues.
package engine

import (
	"context"
	"sync/atomic"

	orderbookv1 "github.com/tradeforge/matching-engine/internal/domain/orderbook/v1"
	"github.com/tradeforge/matching-engine/internal/usecase/orderbook"
	"github.com/tradeforge/matching-engine/pkg/logger"
	"github.com/tradeforge/matching-engine/pkg/queue"
)

type commandKind uint8

const (
	commandOrder commandKind = iota
	commandShutdown
)

// command is what travels on the inbound queue. Shutdown is a distinct kind
// rather than a reserved order value, so no client input can ever spell it.
type command struct {
	kind  commandKind
	order *orderbookv1.Order
}

// Engine matches incoming orders against the book and emits the resulting
// trades. Run must be called exactly once; Submit and Stop are safe from any
// goroutine.
type Engine struct {
	book   *orderbook.Orderbook
	in     *queue.Queue[command]
	out    *queue.Queue[orderbookv1.Trade]
	logger logger.Interface
	opts   *Options

	running         atomic.Bool
	ordersProcessed atomic.Int64
	tradesExecuted  atomic.Int64
}

// New creates an engine with an empty book. The engine accepts submissions
// immediately; they queue up until Run starts draining them.
func New(log logger.Interface, opts *Options) *Engine {
	if opts == nil {
		opts = DefaultEngineOptions()
	}

	e := &Engine{
		book:   orderbook.NewOrderbook(),
		in:     queue.New[command](),
		out:    queue.New[orderbookv1.Trade](),
		logger: log,
		opts:   opts,
	}
	e.running.Store(true)
	return e
}

// Submit hands an order to the matching loop. It never blocks. The return
// value reports whether the order was accepted; orders submitted after Stop
// are dropped.
func (e *Engine) Submit(order *orderbookv1.Order) bool {
	if order == nil || !e.running.Load() {
		return false
	}
	e.in.Push(command{kind: commandOrder, order: order})
	return true
}

// Stop tells the matching loop to exit once it reaches the stop marker in the
// inbound queue. Orders submitted before Stop are still matched. Calling Stop
// more than once is a no-op.
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}
	e.in.Push(command{kind: commandShutdown})
}

// Run drains the inbound queue until Stop is called or ctx is cancelled.
// It blocks, so callers typically run it on its own goroutine.
func (e *Engine) Run(ctx context.Context) {
	e.logger.Info("engine started",
		logger.Field{Key: "instrument", Value: e.opts.Instrument},
	)

	// Translate context cancellation into an orderly stop. Stop is
	// idempotent, so this is safe alongside an explicit Stop call.
	watcher := context.AfterFunc(ctx, e.Stop)
	defer watcher()

	for {
		cmd := e.in.Pop()
		if cmd.kind == commandShutdown {
			e.logger.Info("engine stopped",
				logger.Field{Key: "orders_processed", Value: e.ordersProcessed.Load()},
				logger.Field{Key: "trades_executed", Value: e.tradesExecuted.Load()},
			)
			return
		}
		e.processOrder(cmd.order)
	}
}

// processOrder matches one order and rests any remainder. Only the Run
// goroutine calls this, which is what makes the lock-free book safe.
func (e *Engine) processOrder(order *orderbookv1.Order) {
	e.ordersProcessed.Add(1)

	fills := e.book.Match(order)
	for _, fill := range fills {
		trade := orderbookv1.TradeFromFill(order, fill)
		e.tradesExecuted.Add(1)
		e.out.Push(trade)
	}

	if order.Quantity > 0 {
		if err := e.book.Add(order); err != nil {
			e.logger.Error(err,
				logger.Field{Key: "order_id", Value: order.ID},
				logger.Field{Key: "client_id", Value: order.ClientID},
			)
			return
		}
	}

	e.logger.Debug("order processed",
		logger.Field{Key: "order_id", Value: order.ID},
		logger.Field{Key: "client_id", Value: order.ClientID},
		logger.Field{Key: "fills", Value: len(fills)},
		logger.Field{Key: "remaining", Value: order.Quantity},
	)
}

// Trades exposes the outbound queue. Consumers poll it with TryPop or block
// on Pop; the engine never blocks on a slow consumer because Push never does.
func (e *Engine) Trades() *queue.Queue[orderbookv1.Trade] {
	return e.out
}

// Book returns the engine's order book. Safe to inspect only after Run has
// returned; while the loop is live the book belongs to the Run goroutine.
func (e *Engine) Book() *orderbook.Orderbook {
	return e.book
}

// OrdersProcessed returns how many orders the loop has consumed so far.
func (e *Engine) OrdersProcessed() int64 {
	return e.ordersProcessed.Load()
}

// TradesExecuted returns how many trades the loop has emitted so far.
func (e *Engine) TradesExecuted() int64 {
	return e.tradesExecuted.Load()
}
