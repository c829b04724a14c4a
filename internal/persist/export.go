package persist

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"AfriQuoteFeed/internal/model"
)

// Row is one quote point flattened for tabular exports.
type Row struct {
	Kind      string   `parquet:"kind"`
	Symbol    string   `parquet:"symbol"`
	Timestamp int64    `parquet:"timestamp"`
	Open      *float64 `parquet:"open,optional"`
	High      *float64 `parquet:"high,optional"`
	Low       *float64 `parquet:"low,optional"`
	Close     *float64 `parquet:"close,optional"`
	Volume    *float64 `parquet:"volume,optional"`
}

const (
	KindStock    = "stock"
	KindCurrency = "currency"
)

// Rows flattens every point of a batch result, stocks first.
func Rows(res *model.FetchResult) []Row {
	var rows []Row
	for _, s := range res.Stocks {
		rows = appendRows(rows, KindStock, s.Symbol, s.Data)
	}
	for _, c := range res.Currencies {
		rows = appendRows(rows, KindCurrency, c.Pair, c.Data)
	}
	return rows
}

func appendRows(rows []Row, kind string, symbol model.Symbol, points []model.QuotePoint) []Row {
	for _, p := range points {
		rows = append(rows, Row{
			Kind:      kind,
			Symbol:    string(symbol),
			Timestamp: p.Timestamp,
			Open:      p.Open,
			High:      p.High,
			Low:       p.Low,
			Close:     p.Close,
			Volume:    p.Volume,
		})
	}
	return rows
}

// Exporter writes flattened rows in one tabular format.
type Exporter interface {
	Export(rows []Row, path string) error
	Extension() string
}

// NewExporter returns the exporter for format, or nil if unsupported.
func NewExporter(format string) Exporter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVExporter{}
	case "parquet":
		return ParquetExporter{}
	default:
		return nil
	}
}

// ExportBatch writes res with every exporter next to the JSON snapshot.
// It returns the written paths and stops at the first failure.
func (w *Writer) ExportBatch(res *model.FetchResult, t time.Time, exporters []Exporter) ([]string, error) {
	if len(exporters) == 0 {
		return nil, nil
	}
	rows := Rows(res)
	base := strings.TrimSuffix(BatchFilename(t), ".json")
	var paths []string
	for _, e := range exporters {
		path := filepath.Join(w.Dir, base+"."+e.Extension())
		if err := e.Export(rows, path); err != nil {
			return paths, fmt.Errorf("export %s: %w", e.Extension(), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
