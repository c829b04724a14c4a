package persist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AfriQuoteFeed/internal/model"
)

func sampleResult() *model.FetchResult {
	res := model.NewFetchResult(runTime)
	res.Stocks = []model.Series{{
		Symbol: "SAFC.CI",
		Data: []model.QuotePoint{
			{Timestamp: 1000, Open: model.Float(680), Close: model.Float(690), Volume: model.Float(2500)},
			{Timestamp: 2000, Close: model.Float(700)},
		},
	}}
	res.Currencies = []model.CurrencySnapshot{{
		Pair: "EURXOF=X",
		Data: []model.QuotePoint{{Timestamp: 1000, Close: model.Float(655.957)}},
	}}
	return res
}

func TestRows(t *testing.T) {
	rows := Rows(sampleResult())
	require.Len(t, rows, 3)
	assert.Equal(t, KindStock, rows[0].Kind)
	assert.Equal(t, "SAFC.CI", rows[1].Symbol)
	assert.Equal(t, KindCurrency, rows[2].Kind)
	assert.Equal(t, "EURXOF=X", rows[2].Symbol)
}

func TestNewExporter(t *testing.T) {
	assert.IsType(t, CSVExporter{}, NewExporter("CSV"))
	assert.IsType(t, ParquetExporter{}, NewExporter(" parquet "))
	assert.Nil(t, NewExporter("xlsx"))
}

func TestExportBatch(t *testing.T) {
	w := NewWriter(t.TempDir())
	require.NoError(t, os.MkdirAll(w.Dir, 0755))

	paths, err := w.ExportBatch(sampleResult(), runTime, []Exporter{CSVExporter{}, ParquetExporter{}})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(w.Dir, "yahoo_finance_2024-03-15.csv"),
		filepath.Join(w.Dir, "yahoo_finance_2024-03-15.parquet"),
	}, paths)

	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "kind,symbol,timestamp,open,high,low,close,volume", lines[0])
	assert.Equal(t, "stock,SAFC.CI,1000,680,,,690,2500", lines[1])
	assert.Equal(t, "currency,EURXOF=X,1000,,,,655.957,", lines[3])

	rows, err := parquet.ReadFile[Row](paths[1])
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "SAFC.CI", rows[0].Symbol)
	assert.Nil(t, rows[1].Open)
	require.NotNil(t, rows[2].Close)
	assert.Equal(t, 655.957, *rows[2].Close)
}

func TestExportBatch_NoExporters(t *testing.T) {
	paths, err := NewWriter(t.TempDir()).ExportBatch(sampleResult(), runTime, nil)
	require.NoError(t, err)
	assert.Empty(t, paths)
}
