package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"apptrack-engine/internal/ingest"
	"apptrack-engine/internal/store"
)

func runIngestOnce() error {
	cfg, _, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	if !cfg.Email.Enabled {
		fmt.Println("Email ingest is disabled in the config (email.enabled: false).")
		return nil
	}

	fmt.Printf("Scanning %d mailbox(es) on %s...\n", max(len(cfg.Email.Mailboxes), 1), cfg.Email.IMAPHost)

	sum, err := ingest.RunOnce(db.Pool, cfg, buildPipeline(cfg), nil)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	fmt.Printf("Done: scanned=%d matched=%d added=%d\n", sum.Scanned, sum.Matched, sum.Added)
	return nil
}

func runExport(out string) error {
	_, _, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	w := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := store.ExportCSV(ctx, db.Pool, w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if out != "" {
		fmt.Fprintf(os.Stderr, "Exported applications to %s\n", out)
	}
	return nil
}
