package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"time"
)

var exportHeader = []string{
	"id", "company", "title", "job_id", "platform", "application_date", "status", "notes",
}

// ExportCSV streams every stored application as CSV, newest first.
func ExportCSV(ctx context.Context, db *sql.DB, w io.Writer) error {
	apps, err := ListApplications(ctx, db, ListOpts{Limit: 2000})
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, a := range apps {
		appDate := ""
		if a.ApplicationDate != nil {
			appDate = a.ApplicationDate.UTC().Format(time.RFC3339)
		}
		row := []string{a.ID, a.Company, a.Title, a.JobID, a.Platform, appDate, a.Status, a.Notes}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
