package orderserver

import (
	"strconv"
	"strings"

	orderbookv1 "github.com/tradeforge/matching-engine/internal/domain/orderbook/v1"
	"github.com/tradeforge/matching-engine/pkg/errors"
)

// ParseOrderLine decodes one protocol line of the form
//
//	CLIENT_ID,PRICE,QUANTITY,SIDE
//
// for example "B1,101.50,10,BUY". Whitespace around fields is ignored.
func ParseOrderLine(line string) (*orderbookv1.Order, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return nil, errors.NewTracerWithCode(errors.OrderParseError)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	clientID := fields[0]
	if clientID == "" {
		return nil, errors.NewTracerWithCode(errors.OrderParseError)
	}

	price, err := orderbookv1.ParsePrice(fields[1])
	if err != nil {
		return nil, errors.NewTracerWithCode(errors.OrderParseError).Wrap(err)
	}

	quantity, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, errors.NewTracerWithCode(errors.OrderParseError).Wrap(err)
	}

	side, err := orderbookv1.ParseSide(fields[3])
	if err != nil {
		return nil, errors.NewTracerWithCode(errors.OrderParseError).Wrap(err)
	}

	order := orderbookv1.NewOrder(clientID, side, price, quantity)
	if err := order.Validate(); err != nil {
		return nil, errors.NewTracerWithCode(errors.OrderRejectedError).Wrap(err)
	}
	return order, nil
}
