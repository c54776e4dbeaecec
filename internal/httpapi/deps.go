package httpapi

import (
	"database/sql"
	"sync/atomic"

	"apptrack-engine/internal/config"
	"apptrack-engine/internal/events"
	"apptrack-engine/internal/ingest"
	"apptrack-engine/internal/parse"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	Pipeline parse.Pipeline

	// Atomic stores
	CfgVal       *atomic.Value // stores config.Config
	IngestStatus *atomic.Value // stores ingest.Status

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Ingest entrypoint (inject for testability)
	RunIngest func(db *sql.DB, cfg config.Config, pipe parse.Pipeline, hub *events.Hub, status *atomic.Value) ingest.Summary
}
