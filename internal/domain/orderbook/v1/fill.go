package orderbookv1

// Fill records one consumption of a resting order by an incoming order.
// OrderID and ClientID identify the resting order; Price is the resting
// order's level (price improvement goes to the incoming order); Quantity is
// the amount consumed, which may be less than either order's original size.
type Fill struct {
	OrderID  string `json:"orderID"`
	ClientID string `json:"clientID"`
	Price    Price  `json:"price"`
	Quantity int64  `json:"quantity"`
}
