// Package tradelog records executed trades to a CSV file, one row per trade
// in execution order.
package tradelog

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"sync"

	orderbookv1 "github.com/tradeforge/matching-engine/internal/domain/orderbook/v1"
	"github.com/tradeforge/matching-engine/pkg/errors"
)

var header = []string{"BuyClientID", "SellClientID", "Price", "Quantity"}

// Log appends trades to a CSV file. Safe for concurrent use, though in
// practice the dispatcher is the only caller.
type Log struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// Open creates or truncates the CSV file at path and writes the header row.
func Open(path string) (*Log, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.NewTracerWithCode(errors.TradeLogError).Wrap(err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		return nil, errors.NewTracerWithCode(errors.TradeLogError).Wrap(err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, errors.NewTracerWithCode(errors.TradeLogError).Wrap(err)
	}

	return &Log{file: file, writer: writer}, nil
}

// Name identifies the log in dispatcher logs.
func (l *Log) Name() string {
	return "csv-trade-log"
}

// Consume appends one trade and flushes it to disk.
func (l *Log) Consume(_ context.Context, trade orderbookv1.Trade) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	record := []string{
		trade.BuyClientID,
		trade.SellClientID,
		trade.Price.String(),
		strconv.FormatInt(trade.Quantity, 10),
	}
	if err := l.writer.Write(record); err != nil {
		return errors.NewTracerWithCode(errors.TradeLogError).Wrap(err)
	}
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		return errors.NewTracerWithCode(errors.TradeLogError).Wrap(err)
	}
	return nil
}

// Close flushes pending rows and closes the file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		l.file.Close()
		return errors.NewTracerWithCode(errors.TradeLogError).Wrap(err)
	}
	if err := l.file.Close(); err != nil {
		return errors.NewTracerWithCode(errors.TradeLogError).Wrap(err)
	}
	return nil
}
