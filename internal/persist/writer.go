package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"AfriQuoteFeed/internal/model"
)

// Writer stores snapshot payloads as pretty-printed JSON files under Dir.
type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Save writes v to Dir/name, creating Dir if needed and replacing any existing file.
func (w *Writer) Save(name string, v any) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid snapshot name %q", name)
	}
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, bytes.TrimSuffix(buf.Bytes(), []byte("\n")), 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// DateStamp is the UTC calendar date used in snapshot names.
func DateStamp(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// BatchFilename names the snapshot of a full run.
func BatchFilename(t time.Time) string {
	return "yahoo_finance_" + DateStamp(t) + ".json"
}

// SymbolFilename names the snapshot of a single-symbol run.
// Currency pairs drop their =X marker.
func SymbolFilename(symbol model.Symbol, t time.Time) string {
	return symbol.FileStem() + "_" + DateStamp(t) + ".json"
}
