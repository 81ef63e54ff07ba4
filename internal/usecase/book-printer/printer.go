// Package bookprinter renders a human-readable snapshot of the order book,
// used at shutdown to show whatever liquidity was left resting.
package bookprinter

import (
	"fmt"
	"io"
	"strings"

	orderbookv1 "github.com/tradeforge/matching-engine/internal/domain/orderbook/v1"
	"github.com/tradeforge/matching-engine/internal/usecase/orderbook"
)

// Print writes both sides of the book to w. Sells come first in ascending
// price order, then buys descending, so the inside of the market sits in the
// middle of the output. The snapshot is rendered in full before the single
// write to w, so a failed write reports an error without partial state.
func Print(w io.Writer, ob *orderbook.Orderbook) error {
	var sb strings.Builder
	sb.WriteString("----- ORDER BOOK -----\n")

	sb.WriteString("[SELL ORDERS]\n")
	for _, level := range ob.Asks() {
		writeLevel(&sb, level)
	}

	sb.WriteString("\n[BUY ORDERS]\n")
	for _, level := range ob.Bids() {
		writeLevel(&sb, level)
	}

	sb.WriteString("----------------------\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeLevel(sb *strings.Builder, level *orderbookv1.Limit) {
	fmt.Fprintf(sb, "Price %s: ", level.Price)
	for _, order := range level.Orders {
		fmt.Fprintf(sb, "%d ", order.Quantity)
	}
	sb.WriteByte('\n')
}
