package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/tradeforge/matching-engine/internal/domain/orderbook/v1"
	"github.com/tradeforge/matching-engine/pkg/logger"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ErrorLevel))
	require.NoError(t, err)
	return New(log, nil)
}

// runToCompletion submits the orders, runs the loop until it drains them,
// and returns every trade the engine emitted.
func runToCompletion(t *testing.T, e *Engine, orders ...*orderbookv1.Order) []orderbookv1.Trade {
	t.Helper()

	for _, order := range orders {
		require.True(t, e.Submit(order))
	}
	e.Stop()

	done := make(chan struct{})
	go func() {
		e.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}

	var trades []orderbookv1.Trade
	for {
		trade, ok := e.Trades().TryPop()
		if !ok {
			return trades
		}
		trades = append(trades, trade)
	}
}

func price(t *testing.T, s string) orderbookv1.Price {
	t.Helper()
	p, err := orderbookv1.ParsePrice(s)
	require.NoError(t, err)
	return p
}

func TestEngine_MatchesAndRestsRemainder(t *testing.T) {
	e := newTestEngine(t)

	trades := runToCompletion(t, e,
		orderbookv1.NewOrder("S1", orderbookv1.Sell, price(t, "100.00"), 10),
		orderbookv1.NewOrder("B1", orderbookv1.Buy, price(t, "101.00"), 4),
	)

	require.Len(t, trades, 1)
	assert.Equal(t, "B1", trades[0].BuyClientID)
	assert.Equal(t, "S1", trades[0].SellClientID)
	assert.Equal(t, price(t, "100.00"), trades[0].Price)
	assert.Equal(t, int64(4), trades[0].Quantity)

	assert.Equal(t, int64(6), e.Book().AskVolume())
	assert.Zero(t, e.Book().BidVolume())
	assert.Equal(t, int64(2), e.OrdersProcessed())
	assert.Equal(t, int64(1), e.TradesExecuted())
}

func TestEngine_TimePriorityAcrossSubmissions(t *testing.T) {
	e := newTestEngine(t)

	trades := runToCompletion(t, e,
		orderbookv1.NewOrder("B1", orderbookv1.Buy, price(t, "50.00"), 5),
		orderbookv1.NewOrder("B2", orderbookv1.Buy, price(t, "50.00"), 5),
		orderbookv1.NewOrder("S1", orderbookv1.Sell, price(t, "50.00"), 7),
	)

	require.Len(t, trades, 2)
	assert.Equal(t, "B1", trades[0].BuyClientID)
	assert.Equal(t, int64(5), trades[0].Quantity)
	assert.Equal(t, "B2", trades[1].BuyClientID)
	assert.Equal(t, int64(2), trades[1].Quantity)

	assert.Equal(t, int64(3), e.Book().BidVolume())
}

func TestEngine_NonCrossingOrdersRest(t *testing.T) {
	e := newTestEngine(t)

	trades := runToCompletion(t, e,
		orderbookv1.NewOrder("S1", orderbookv1.Sell, price(t, "45.00"), 5),
		orderbookv1.NewOrder("B1", orderbookv1.Buy, price(t, "40.00"), 3),
	)

	assert.Empty(t, trades)
	assert.Equal(t, int64(5), e.Book().AskVolume())
	assert.Equal(t, int64(3), e.Book().BidVolume())
}

func TestEngine_StopIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	e.Stop()
	e.Stop()
	e.Stop()

	done := make(chan struct{})
	go func() {
		e.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}

	// Duplicate stop markers must not linger in the inbound queue.
	assert.True(t, e.in.IsEmpty())
}

func TestEngine_SubmitAfterStopIsDropped(t *testing.T) {
	e := newTestEngine(t)
	e.Stop()

	accepted := e.Submit(orderbookv1.NewOrder("B1", orderbookv1.Buy, price(t, "10.00"), 1))
	assert.False(t, accepted)

	done := make(chan struct{})
	go func() {
		e.Run(context.Background())
		close(done)
	}()
	<-done

	assert.Zero(t, e.OrdersProcessed())
	assert.Zero(t, e.Book().BidVolume())
}

func TestEngine_SubmitNil(t *testing.T) {
	e := newTestEngine(t)
	assert.False(t, e.Submit(nil))
}

func TestEngine_ContextCancelStops(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	require.True(t, e.Submit(orderbookv1.NewOrder("S1", orderbookv1.Sell, price(t, "100.00"), 10)))
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop on context cancellation")
	}
}

func TestEngine_ConcurrentSubmitters(t *testing.T) {
	e := newTestEngine(t)

	done := make(chan struct{})
	go func() {
		e.Run(context.Background())
		close(done)
	}()

	const perSide = 200
	sendSide := func(clientID string, side orderbookv1.Side) {
		for i := 0; i < perSide; i++ {
			e.Submit(orderbookv1.NewOrder(clientID, side, price(t, "25.00"), 1))
		}
	}
	finished := make(chan struct{}, 2)
	go func() { sendSide("buyer", orderbookv1.Buy); finished <- struct{}{} }()
	go func() { sendSide("seller", orderbookv1.Sell); finished <- struct{}{} }()
	<-finished
	<-finished

	e.Stop()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("engine did not stop")
	}

	// Equal one-unit flow on both sides at one price must net out entirely.
	assert.Equal(t, int64(perSide), e.TradesExecuted())
	assert.Zero(t, e.Book().AskVolume())
	assert.Zero(t, e.Book().BidVolume())
	assert.Equal(t, int64(2*perSide), e.OrdersProcessed())
}
