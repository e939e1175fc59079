package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescrape/internal/history"
	"sitescrape/internal/record"
)

func recordRun(t *testing.T, site string) int64 {
	t.Helper()
	ctx := context.Background()
	store, err := history.Open(ctx, historyDB)
	require.NoError(t, err)
	defer store.Close()

	var rec record.Record
	rec.Position = 1
	rec.SetString("title", "Amy's Vegan Margherita Pizza")
	rec.SetString("price", "$6.99")
	rec.Price = record.Float(6.99)
	rec.SetFlag("vegan", true)

	res := record.RunResult{
		Site:      site,
		Title:     "Vegan pizza",
		URL:       "https://shop.example/s?q=pizza",
		Timestamp: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
		Stage:     record.StageSaved,
		Success:   true,
		Total:     1,
		Records:   []record.Record{rec},
		Matches:   []record.Record{rec},
	}
	id, err := store.Record(ctx, res)
	require.NoError(t, err)
	return id
}

func TestShowRun(t *testing.T) {
	db, format := historyDB, outputFormat
	t.Cleanup(func() { historyDB, outputFormat = db, format })
	historyDB = filepath.Join(t.TempDir(), "history.db")
	outputFormat = "markdown"

	// registered site: labels and flags come from its fields
	id := recordRun(t, "target")
	var buf bytes.Buffer
	require.NoError(t, showRun(context.Background(), &buf, id))
	out := buf.String()
	assert.Contains(t, out, "- **Site**: target")
	assert.Contains(t, out, "### 1. Amy's Vegan Margherita Pizza")
	assert.Contains(t, out, "- **Price**: $6.99")
	assert.Contains(t, out, "- **Url**: N/A")
	assert.Contains(t, out, "- **Vegan**: Yes")

	// unknown site: the stored field order is used
	id = recordRun(t, "shop-file")
	buf.Reset()
	require.NoError(t, showRun(context.Background(), &buf, id))
	assert.Contains(t, buf.String(), "- **price**: $6.99")
	assert.NotContains(t, buf.String(), "- **Vegan**:")

	outputFormat = "json"
	buf.Reset()
	require.NoError(t, showRun(context.Background(), &buf, id))
	assert.Contains(t, buf.String(), `"site": "shop-file"`)

	assert.Error(t, showRun(context.Background(), &buf, 999))
}
