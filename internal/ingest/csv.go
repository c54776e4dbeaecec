package ingest

import (
	"encoding/csv"
	"os"
	"path/filepath"
)

var ingestCSVHeader = []string{"message_id", "subject", "company", "title", "job_id"}

// appendIngestRows appends one row per ingested message to the run log at
// path, writing the header first when the file is new or empty.
func appendIngestRows(path string, rows [][]string) error {
	if path == "" || len(rows) == 0 {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write(ingestCSVHeader); err != nil {
			return err
		}
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
