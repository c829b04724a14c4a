package persist

import (
	"github.com/parquet-go/parquet-go"
)

// ParquetExporter writes rows as a Parquet file.
type ParquetExporter struct{}

func (ParquetExporter) Extension() string { return "parquet" }

func (ParquetExporter) Export(rows []Row, path string) error {
	return parquet.WriteFile(path, rows)
}
