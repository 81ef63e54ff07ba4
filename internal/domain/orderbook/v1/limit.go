package orderbookv1

import (
	"errors"
	"fmt"
)

var (
	// ErrNilOrder is returned when a nil order is handed to a limit.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrPriceMismatch is returned when an order's price differs from the limit's.
	ErrPriceMismatch = errors.New("order price does not match limit price")
)

// Limit is one price level: the FIFO sequence of resting orders sharing one
// exact price on one side of the book. Orders are appended at the back and
// consumed strictly from the front, which is what gives time priority within
// the level.
//
// A Limit carries no lock. The book is mutated by the single engine loop
// goroutine only; see the orderbook usecase for the ownership contract.
type Limit struct {
	Price       Price
	Orders      []*Order
	TotalVolume int64
}

// NewLimit creates an empty limit at the given price.
func NewLimit(price Price) *Limit {
	return &Limit{
		Price: price,
	}
}

// AddOrder appends an order at the back of the level.
func (l *Limit) AddOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.Quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, order.Quantity)
	}
	if order.Price != l.Price {
		return fmt.Errorf("%w: order %s, limit %s", ErrPriceMismatch, order.Price, l.Price)
	}

	l.Orders = append(l.Orders, order)
	l.TotalVolume += order.Quantity
	return nil
}

// Fill consumes resting orders from the front of the level until incoming is
// fully filled or the level is empty, returning one Fill per resting order
// touched, in consumption order.
//
// A partially consumed resting order has its quantity reduced in place: it
// keeps its identity, client attribution, price and side untouched and stays
// at the front of the level. Only fully consumed orders are removed.
func (l *Limit) Fill(incoming *Order) []Fill {
	if incoming == nil {
		return nil
	}

	var fills []Fill
	for incoming.Quantity > 0 && len(l.Orders) > 0 {
		resting := l.Orders[0]

		quantity := min(incoming.Quantity, resting.Quantity)
		fills = append(fills, Fill{
			OrderID:  resting.ID,
			ClientID: resting.ClientID,
			Price:    l.Price,
			Quantity: quantity,
		})

		resting.Quantity -= quantity
		incoming.Quantity -= quantity
		l.TotalVolume -= quantity

		if resting.Quantity == 0 {
			l.Orders[0] = nil
			l.Orders = l.Orders[1:]
		}
	}
	return fills
}

// IsEmpty reports whether the level holds no orders.
func (l *Limit) IsEmpty() bool {
	return len(l.Orders) == 0
}

// OrderCount returns the number of resting orders at the level.
func (l *Limit) OrderCount() int {
	return len(l.Orders)
}
