package orderbookv1

import "fmt"

// Trade is the immutable record of one matched fill between two clients.
// The execution price is always the resting order's price.
type Trade struct {
	BuyClientID  string `json:"buyClientID"`
	SellClientID string `json:"sellClientID"`
	Price        Price  `json:"price"`
	Quantity     int64  `json:"quantity"`
}

// TradeFromFill synthesizes the trade for one fill produced by matching
// incoming. The incoming order's client takes the side it submitted; the
// resting order's client takes the opposite side.
func TradeFromFill(incoming *Order, fill Fill) Trade {
	trade := Trade{
		Price:    fill.Price,
		Quantity: fill.Quantity,
	}
	if incoming.IsBuy() {
		trade.BuyClientID = incoming.ClientID
		trade.SellClientID = fill.ClientID
	} else {
		trade.BuyClientID = fill.ClientID
		trade.SellClientID = incoming.ClientID
	}
	return trade
}

func (t Trade) String() string {
	return fmt.Sprintf("TRADE: %d @ %s [BUYER: %s, SELLER: %s]",
		t.Quantity, t.Price, t.BuyClientID, t.SellClientID)
}
