package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Health
	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Applications
	ah := ApplicationsHandler{DB: d.DB, Hub: d.Hub, Pipeline: d.Pipeline}
	mux.HandleFunc("/applications", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  ah.List,
		http.MethodPost: ah.Create,
	}))
	mux.HandleFunc("/applications/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    ah.GetByPath,       // expects /applications/{id}
		http.MethodDelete: ah.DeleteByPath,    // expects /applications/{id}
		http.MethodPatch:  ah.SetStatusByPath, // expects /applications/{id}
	}))
	mux.HandleFunc("/export", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.Export,
	}))

	// Parsing
	ph := ParseHandler{Pipeline: d.Pipeline}
	mux.HandleFunc("/parse", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Parse,
	}))
	mux.HandleFunc("/parse-and-add", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.ParseAndAdd,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		Hub:         d.Hub,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/imap", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetIMAPPassword,
	}))

	// Ingest
	ih := IngestHandler{
		DB:           d.DB,
		CfgVal:       d.CfgVal,
		IngestStatus: d.IngestStatus,
		Hub:          d.Hub,
		Pipeline:     d.Pipeline,
		RunIngest:    d.RunIngest,
	}
	mux.HandleFunc("/ingest/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.Status,
	}))
	mux.HandleFunc("/ingest/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ih.Run,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// DB maintenance (localhost only)
	dh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Checkpoint,
	}))

	return mux
}
