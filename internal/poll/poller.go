package poll

import (
	"database/sql"
	"log"
	"sync/atomic"
	"time"

	"apptrack-engine/internal/config"
	"apptrack-engine/internal/events"
	"apptrack-engine/internal/ingest"
	"apptrack-engine/internal/parse"
)

// StartPoller runs the mailbox ingest on a ticker. The interval follows
// polling.ingest_seconds from whatever config is currently loaded, and the
// run outcome is published into ingestStatus for the status endpoint.
func StartPoller(db *sql.DB, cfgVal *atomic.Value, ingestStatus *atomic.Value, pipe parse.Pipeline, hub *events.Hub) {
	go func() {
		interval := intervalFrom(cfgVal, 60*time.Second)
		t := time.NewTicker(interval)
		defer t.Stop()

		for range t.C {
			cfgAny := cfgVal.Load()
			if cfgAny == nil {
				continue
			}
			cfg := cfgAny.(config.Config)

			// If ingest isn't enabled, skip quietly
			if !cfg.Email.Enabled {
				continue
			}

			RunIngest(db, cfg, pipe, hub, ingestStatus)

			if next := intervalFrom(cfgVal, interval); next != interval {
				interval = next
				t.Reset(interval)
			}
		}
	}()
}

// RunIngest executes one ingest pass and records the outcome in status.
// Shared by the poller and the on-demand /ingest/run endpoint.
func RunIngest(db *sql.DB, cfg config.Config, pipe parse.Pipeline, hub *events.Hub, status *atomic.Value) ingest.Summary {
	st := loadStatus(status)
	st.Running = true
	st.LastRunAt = time.Now().Format(time.RFC3339)
	status.Store(st)

	if hub != nil {
		hub.Publish(events.MakeEvent("", events.TypeIngestStarted, 1, nil))
	}

	sum, err := ingest.RunOnce(db, cfg, pipe, hub)

	st = loadStatus(status)
	st.Running = false
	st.LastScanned = sum.Scanned
	st.LastMatched = sum.Matched
	st.LastAdded = sum.Added

	if err != nil {
		st.LastError = err.Error()
		log.Printf("[ingest] error: %v", err)
	} else {
		st.LastError = ""
		st.LastOkAt = time.Now().Format(time.RFC3339)
		log.Printf("[ingest] ok scanned=%d matched=%d added=%d", sum.Scanned, sum.Matched, sum.Added)
	}
	status.Store(st)

	if hub != nil {
		hub.Publish(events.MakeEvent("", events.TypeIngestFinished, 1, sum))
	}

	return sum
}

func loadStatus(v *atomic.Value) ingest.Status {
	if got := v.Load(); got != nil {
		return got.(ingest.Status)
	}
	return ingest.Status{}
}

func intervalFrom(cfgVal *atomic.Value, fallback time.Duration) time.Duration {
	cfgAny := cfgVal.Load()
	if cfgAny == nil {
		return fallback
	}
	cfg := cfgAny.(config.Config)
	if cfg.Polling.IngestSeconds <= 0 {
		return fallback
	}
	return time.Duration(cfg.Polling.IngestSeconds) * time.Second
}
