package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
)

// ---------------------------------------------------------------------------
// Parquet export (on-disk schema)
// ---------------------------------------------------------------------------

// ExportRecord is the Parquet schema for exported research history.
type ExportRecord struct {
	Symbol     string `parquet:"symbol"`
	Report     string `parquet:"report"`
	Assessment string `parquet:"assessment"`
	Iterations int32  `parquet:"iterations"`
	CreatedAt  int64  `parquet:"created_at,timestamp(millisecond)"` // Unix ms
}

// ExportParquet writes research records to a Parquet file at path, creating
// parent directories as needed.
func ExportParquet(path string, recs []ResearchRecord) error {
	records := make([]ExportRecord, 0, len(recs))
	for _, r := range recs {
		records = append(records, ExportRecord{
			Symbol:     r.Symbol,
			Report:     r.Report,
			Assessment: r.Assessment,
			Iterations: int32(r.Iterations),
			CreatedAt:  r.CreatedAt.UnixMilli(),
		})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

// ReadParquet reads back an exported history file.
func ReadParquet(path string) ([]ResearchRecord, error) {
	rows, err := parquet.ReadFile[ExportRecord](path)
	if err != nil {
		return nil, err
	}
	recs := make([]ResearchRecord, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, ResearchRecord{
			Symbol:     r.Symbol,
			Report:     r.Report,
			Assessment: r.Assessment,
			Iterations: int(r.Iterations),
			CreatedAt:  time.UnixMilli(r.CreatedAt),
		})
	}
	return recs, nil
}
