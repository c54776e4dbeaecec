package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-imap/v2"
	"golang.org/x/sync/errgroup"

	"apptrack-engine/internal/config"
	"apptrack-engine/internal/domain"
	"apptrack-engine/internal/events"
	"apptrack-engine/internal/parse"
	"apptrack-engine/internal/secrets"
	"apptrack-engine/internal/store"
)

// Status reports the outcome of the most recent ingest run.
type Status struct {
	Running     bool   `json:"running"`
	LastRunAt   string `json:"last_run_at,omitempty"`
	LastOkAt    string `json:"last_ok_at,omitempty"`
	LastError   string `json:"last_error,omitempty"`
	LastScanned int    `json:"last_scanned"`
	LastMatched int    `json:"last_matched"`
	LastAdded   int    `json:"last_added"`
}

// Summary counts one run: messages scanned, messages classified as
// application confirmations, and records actually written.
type Summary struct {
	Scanned int `json:"scanned"`
	Matched int `json:"matched"`
	Added   int `json:"added"`
}

// RunOnce scans UNSEEN mail in every configured mailbox, parses each
// message through pipe, records the matches, and marks everything it
// looked at \Seen. Runs are re-entrant: messages whose Message-Id was
// already processed are skipped.
func RunOnce(db *sql.DB, cfg config.Config, pipe parse.Pipeline, hub *events.Hub) (Summary, error) {
	var sum Summary

	if db == nil {
		return sum, errors.New("db is nil")
	}
	if !cfg.Email.Enabled {
		return sum, nil
	}
	if cfg.Email.IMAPHost == "" || cfg.Email.Username == "" {
		return sum, errors.New("email enabled but missing imap_host/username")
	}
	password, err := resolveIMAPPassword(cfg)
	if err != nil {
		return sum, err
	}

	addr := cfg.Email.IMAPHost
	if cfg.Email.IMAPPort != 0 && !strings.Contains(addr, ":") {
		addr = fmt.Sprintf("%s:%d", addr, cfg.Email.IMAPPort)
	} else if !strings.Contains(addr, ":") {
		addr += ":993"
	}

	mailboxes := cfg.Email.Mailboxes
	if len(mailboxes) == 0 {
		mailboxes = []string{"INBOX"}
	}

	parent, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	limiter := newHostLimiter(1.0, 2)

	var (
		mu      sync.Mutex
		rows    [][]string
		lastErr error
	)

	g, ctx := errgroup.WithContext(parent)
	for _, mbox := range mailboxes {
		mbox := mbox
		g.Go(func() error {
			if err := limiter.Wait(ctx, cfg.Email.IMAPHost); err != nil {
				return err
			}

			c, err := DialAndLoginIMAP(ctx, addr, cfg.Email.Username, password, TLSConfigFor(cfg.Email.IMAPHost))
			if err != nil {
				mu.Lock()
				lastErr = fmt.Errorf("mailbox %q: %w", mbox, err)
				mu.Unlock()
				log.Printf("[ingest] mailbox %q: %v", mbox, err)
				return nil
			}
			defer LogoutAndClose(c)

			if err := SelectMailbox(c, mbox); err != nil {
				mu.Lock()
				lastErr = err
				mu.Unlock()
				log.Printf("[ingest] %v", err)
				return nil
			}

			msgs, err := FetchUnseen(ctx, c, cfg.Email.MaxMessages)
			if err != nil {
				mu.Lock()
				lastErr = fmt.Errorf("mailbox %q: %w", mbox, err)
				mu.Unlock()
				log.Printf("[ingest] mailbox %q: %v", mbox, err)
				return nil
			}

			processed := make([]imap.UID, 0, len(msgs))
			for _, m := range msgs {
				receivedAt := m.Date
				msgID, bodyText, htmlBody, subj := parseRFC822(m.RawMessage, m.Subject)
				subj = decodeRFC2047(subj)
				if bodyText == "" && htmlBody != "" {
					bodyText = htmlToText(htmlBody)
				}

				mu.Lock()
				row, err := handleMessage(ctx, db, cfg, pipe, hub, &sum, msgID, subj, bodyText, receivedAt)
				if err != nil {
					lastErr = err
					mu.Unlock()
					log.Printf("[ingest] message %q: %v", msgID, err)
					continue
				}
				if row != nil {
					rows = append(rows, row)
				}
				mu.Unlock()

				processed = append(processed, m.UID)
			}

			if err := MarkSeen(c, processed); err != nil {
				mu.Lock()
				lastErr = fmt.Errorf("mark seen: %w", err)
				mu.Unlock()
				log.Printf("[ingest] mark seen: %v", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sum, err
	}

	if err := appendIngestRows(cfg.Export.CSVPath, rows); err != nil {
		return sum, fmt.Errorf("ingest csv: %w", err)
	}

	return sum, lastErr
}

// handleMessage runs one message through the pipeline and the store.
// Caller holds the run mutex. Returns the CSV row for matched messages.
func handleMessage(ctx context.Context, db *sql.DB, cfg config.Config, pipe parse.Pipeline, hub *events.Hub, sum *Summary, msgID, subj, body string, receivedAt time.Time) ([]string, error) {
	sum.Scanned++

	if len(cfg.Email.SearchSubjectAny) > 0 && !containsAnyCI(subj, cfg.Email.SearchSubjectAny) {
		return nil, nil
	}

	if msgID != "" {
		seen, err := store.MessageSeen(ctx, db, msgID)
		if err != nil {
			return nil, err
		}
		if seen {
			return nil, nil
		}
	}

	res := pipe.Parse(subj, body)
	if !res.IsApplication {
		return nil, store.MarkMessageSeen(ctx, db, msgID)
	}

	sum.Matched++

	app := domain.Application{
		Company:       res.Company,
		Title:         res.Title,
		JobID:         res.JobID,
		Platform:      "email",
		SourceEmailID: msgID,
	}
	if !receivedAt.IsZero() {
		d := receivedAt.UTC()
		app.ApplicationDate = &d
	}

	added, err := store.InsertApplication(ctx, db, &app)
	if err != nil {
		return nil, err
	}
	if added {
		sum.Added++
		if hub != nil {
			hub.Publish(events.MakeEvent("", events.TypeApplicationAdded, 1, app))
		}
	}

	if err := store.MarkMessageSeen(ctx, db, msgID); err != nil {
		return nil, err
	}

	return []string{msgID, subj, res.Company, res.Title, res.JobID}, nil
}

func resolveIMAPPassword(cfg config.Config) (string, error) {
	if v := strings.TrimSpace(os.Getenv("APPTRACK_IMAP_PASSWORD")); v != "" {
		return v, nil
	}
	return secrets.GetIMAPPassword(secrets.IMAPKeyringAccount(cfg))
}
