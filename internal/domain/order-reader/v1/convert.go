package orderreaderv1

import (
	orderbookv1 "github.com/tradeforge/matching-engine/internal/domain/orderbook/v1"
)

// ToOrder validates the payload and converts it into a book order.
func (p *PlaceOrderPayload) ToOrder() (*orderbookv1.Order, error) {
	side, err := orderbookv1.ParseSide(p.Side)
	if err != nil {
		return nil, err
	}

	price, err := orderbookv1.ParsePrice(p.Price)
	if err != nil {
		return nil, err
	}

	order := orderbookv1.NewOrder(p.ClientID, side, price, p.Quantity)
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}
