package store

import (
	"context"
	"database/sql"
	"time"
)

// Seen-message bookkeeping keeps the ingest job re-entrant across runs and
// across mailboxes that surface the same Message-Id.

func MessageSeen(ctx context.Context, db *sql.DB, messageID string) (bool, error) {
	if messageID == "" {
		return false, nil
	}
	var one int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM seen_messages WHERE message_id = ? LIMIT 1;`, messageID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func MarkMessageSeen(ctx context.Context, db *sql.DB, messageID string) error {
	if messageID == "" {
		return nil
	}
	_, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO seen_messages (message_id, processed_at)
VALUES (?, ?);`,
		messageID, time.Now().UTC().Format(time.RFC3339))
	return err
}
