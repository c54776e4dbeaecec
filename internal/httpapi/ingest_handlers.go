package httpapi

import (
	"database/sql"
	"net/http"
	"sync/atomic"

	"apptrack-engine/internal/config"
	"apptrack-engine/internal/events"
	"apptrack-engine/internal/ingest"
	"apptrack-engine/internal/parse"
)

type IngestHandler struct {
	DB           *sql.DB
	CfgVal       *atomic.Value // config.Config
	IngestStatus *atomic.Value // ingest.Status
	Hub          *events.Hub
	Pipeline     parse.Pipeline
	RunIngest    func(db *sql.DB, cfg config.Config, pipe parse.Pipeline, hub *events.Hub, status *atomic.Value) ingest.Summary
}

func (h IngestHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := ingest.Status{}
	if got := h.IngestStatus.Load(); got != nil {
		st = got.(ingest.Status)
	}
	writeJSON(w, st)
}

func (h IngestHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := ingest.Status{}
	if got := h.IngestStatus.Load(); got != nil {
		st = got.(ingest.Status)
	}
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	go func() {
		cfg := h.CfgVal.Load().(config.Config)
		h.RunIngest(h.DB, cfg, h.Pipeline, h.Hub, h.IngestStatus)
	}()

	writeJSON(w, map[string]any{"ok": true})
}
