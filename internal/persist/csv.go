package persist

import (
	"encoding/csv"
	"os"
	"strconv"
)

// CSVExporter writes rows as CSV with a header line. Null values are empty cells.
type CSVExporter struct{}

func (CSVExporter) Extension() string { return "csv" }

func (CSVExporter) Export(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"kind", "symbol", "timestamp", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Kind,
			r.Symbol,
			strconv.FormatInt(r.Timestamp, 10),
			cell(r.Open),
			cell(r.High),
			cell(r.Low),
			cell(r.Close),
			cell(r.Volume),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func cell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
