// Package orderbook implements the price-ordered limit order book and its
// matching algorithm.
//
// Ownership contract: the book carries no lock. Exactly one goroutine, the
// engine loop, may call Add and Match. Read-only views (Asks, Bids, volumes)
// must not run concurrently with that goroutine; diagnostic consumers either
// run on the loop's schedule or after it has stopped.
package orderbook

import (
	"github.com/tidwall/btree"

	orderbookv1 "github.com/tradeforge/matching-engine/internal/domain/orderbook/v1"
)

// limits is an ordered collection of price levels for one side of the book.
type limits = btree.BTreeG[*orderbookv1.Limit]

// Orderbook holds resting orders on two price-ordered sides and matches
// incoming orders against the opposite side in price-time priority.
type Orderbook struct {
	// Both trees sort best level first, so Min() is always top of book:
	// bids descend by price, asks ascend.
	bids *limits
	asks *limits
}

// NewOrderbook creates an empty book.
func NewOrderbook() *Orderbook {
	bids := btree.NewBTreeG(func(a, b *orderbookv1.Limit) bool {
		return a.Price > b.Price
	})
	asks := btree.NewBTreeG(func(a, b *orderbookv1.Limit) bool {
		return a.Price < b.Price
	})
	return &Orderbook{
		bids: bids,
		asks: asks,
	}
}

// Add rests an order at the back of the FIFO level for its exact price,
// creating the level on demand. Orders without remaining quantity are
// rejected; a fully consumed order must never rest in the book.
func (ob *Orderbook) Add(order *orderbookv1.Order) error {
	if order == nil {
		return orderbookv1.ErrNilOrder
	}
	if err := order.Validate(); err != nil {
		return err
	}

	side := ob.sideOf(order.Side)
	level, ok := side.GetMut(&orderbookv1.Limit{Price: order.Price})
	if !ok {
		level = orderbookv1.NewLimit(order.Price)
		side.Set(level)
	}
	return level.AddOrder(order)
}

// Match consumes liquidity from the side opposite incoming while the
// incoming order has remaining quantity and the best opposing level crosses
// its limit price. Within a level resting orders are consumed strictly in
// arrival order; emptied levels are removed from the book. The incoming
// order's quantity is decremented as it fills; any positive remainder is the
// caller's to re-add via Add.
//
// Returns one fill per resting order touched, in consumption order. No
// crossing liquidity yields zero fills, which is a normal outcome.
func (ob *Orderbook) Match(incoming *orderbookv1.Order) []orderbookv1.Fill {
	if incoming == nil {
		return nil
	}

	opposite := ob.sideOf(incoming.Side.Opposite())

	var fills []orderbookv1.Fill
	for incoming.Quantity > 0 {
		best, ok := opposite.MinMut()
		if !ok || !crosses(incoming, best.Price) {
			break
		}

		fills = append(fills, best.Fill(incoming)...)

		// No empty level persists in the book.
		if best.IsEmpty() {
			opposite.Delete(best)
		}
	}
	return fills
}

// crosses reports whether the best opposing level price satisfies the
// incoming order's limit.
func crosses(incoming *orderbookv1.Order, best orderbookv1.Price) bool {
	if incoming.IsBuy() {
		return best <= incoming.Price
	}
	return best >= incoming.Price
}

func (ob *Orderbook) sideOf(side orderbookv1.Side) *limits {
	if side == orderbookv1.Buy {
		return ob.bids
	}
	return ob.asks
}

// Asks returns the sell-side levels ordered ascending by price.
func (ob *Orderbook) Asks() []*orderbookv1.Limit {
	return collect(ob.asks)
}

// Bids returns the buy-side levels ordered descending by price.
func (ob *Orderbook) Bids() []*orderbookv1.Limit {
	return collect(ob.bids)
}

func collect(side *limits) []*orderbookv1.Limit {
	levels := make([]*orderbookv1.Limit, 0, side.Len())
	side.Scan(func(level *orderbookv1.Limit) bool {
		levels = append(levels, level)
		return true
	})
	return levels
}

// AskVolume returns the total resting sell quantity.
func (ob *Orderbook) AskVolume() int64 {
	return volume(ob.asks)
}

// BidVolume returns the total resting buy quantity.
func (ob *Orderbook) BidVolume() int64 {
	return volume(ob.bids)
}

func volume(side *limits) int64 {
	var total int64
	side.Scan(func(level *orderbookv1.Limit) bool {
		total += level.TotalVolume
		return true
	})
	return total
}

// BestAsk returns the lowest sell level, or nil when the side is empty.
func (ob *Orderbook) BestAsk() *orderbookv1.Limit {
	if level, ok := ob.asks.Min(); ok {
		return level
	}
	return nil
}

// BestBid returns the highest buy level, or nil when the side is empty.
func (ob *Orderbook) BestBid() *orderbookv1.Limit {
	if level, ok := ob.bids.Min(); ok {
		return level
	}
	return nil
}
