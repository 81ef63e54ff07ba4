package tradelog

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/tradeforge/matching-engine/internal/domain/orderbook/v1"
)

func TestLog_WritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")

	log, err := Open(path)
	require.NoError(t, err)

	trades := []orderbookv1.Trade{
		{BuyClientID: "alice", SellClientID: "bob", Price: orderbookv1.PriceFromCents(10050), Quantity: 4},
		{BuyClientID: "carol", SellClientID: "alice", Price: orderbookv1.PriceFromCents(9900), Quantity: 12},
	}
	for _, trade := range trades {
		require.NoError(t, log.Consume(context.Background(), trade))
	}
	require.NoError(t, log.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"BuyClientID", "SellClientID", "Price", "Quantity"}, records[0])
	assert.Equal(t, []string{"alice", "bob", "100.50", "4"}, records[1])
	assert.Equal(t, []string{"carol", "alice", "99.00", "12"}, records[2])
}

func TestLog_OpenTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale data\n"), 0o644))

	log, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BuyClientID,SellClientID,Price,Quantity\n", string(data))
}

func TestLog_OpenBadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "trades.csv"))
	assert.Error(t, err)
}
