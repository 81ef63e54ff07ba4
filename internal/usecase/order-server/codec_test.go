package orderserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/tradeforge/matching-engine/internal/domain/orderbook/v1"
)

func TestParseOrderLine(t *testing.T) {
	testCases := []struct {
		name     string
		line     string
		clientID string
		side     orderbookv1.Side
		cents    int64
		quantity int64
	}{
		{
			name:     "buy with decimal price",
			line:     "B1,101.50,10,BUY",
			clientID: "B1",
			side:     orderbookv1.Buy,
			cents:    10150,
			quantity: 10,
		},
		{
			name:     "sell with whole price",
			line:     "S1,100,5,SELL",
			clientID: "S1",
			side:     orderbookv1.Sell,
			cents:    10000,
			quantity: 5,
		},
		{
			name:     "single fraction digit",
			line:     "B2,99.5,1,BUY",
			clientID: "B2",
			side:     orderbookv1.Buy,
			cents:    9950,
			quantity: 1,
		},
		{
			name:     "surrounding whitespace",
			line:     " B3 , 42.00 , 7 , BUY ",
			clientID: "B3",
			side:     orderbookv1.Buy,
			cents:    4200,
			quantity: 7,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			order, err := ParseOrderLine(tc.line)
			require.NoError(t, err)

			assert.Equal(t, tc.clientID, order.ClientID)
			assert.Equal(t, tc.side, order.Side)
			assert.Equal(t, orderbookv1.PriceFromCents(tc.cents), order.Price)
			assert.Equal(t, tc.quantity, order.Quantity)
			assert.NotEmpty(t, order.ID)
		})
	}
}

func TestParseOrderLine_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		line string
	}{
		{name: "empty line", line: ""},
		{name: "too few fields", line: "B1,101.50,10"},
		{name: "too many fields", line: "B1,101.50,10,BUY,extra"},
		{name: "empty client id", line: ",101.50,10,BUY"},
		{name: "bad price", line: "B1,abc,10,BUY"},
		{name: "three fraction digits", line: "B1,101.505,10,BUY"},
		{name: "negative price", line: "B1,-5.00,10,BUY"},
		{name: "bad quantity", line: "B1,101.50,ten,BUY"},
		{name: "zero quantity", line: "B1,101.50,0,BUY"},
		{name: "negative quantity", line: "B1,101.50,-3,BUY"},
		{name: "bad side", line: "B1,101.50,10,HOLD"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOrderLine(tc.line)
			assert.Error(t, err)
		})
	}
}
