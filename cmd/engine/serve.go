package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"apptrack-engine/internal/classify"
	"apptrack-engine/internal/config"
	"apptrack-engine/internal/events"
	"apptrack-engine/internal/httpapi"
	"apptrack-engine/internal/ingest"
	"apptrack-engine/internal/parse"
	"apptrack-engine/internal/poll"
	"apptrack-engine/internal/scheduler"
	"apptrack-engine/internal/store"
)

// bootstrap loads config and opens the store; shared by every subcommand.
func bootstrap() (config.Config, string, *store.DB, error) {
	dir := resolveDataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return config.Config{}, "", nil, err
	}

	userCfgPath := cfgFile
	if userCfgPath == "" {
		var err error
		userCfgPath, err = config.EnsureUserConfig(dir, filepath.Join("config", "config.yml"))
		if err != nil {
			return config.Config{}, "", nil, fmt.Errorf("config bootstrap failed: %w", err)
		}
	}

	cfg, err := loadCfg(userCfgPath)
	if err != nil {
		return config.Config{}, "", nil, fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}

	db, err := store.Open(filepath.Join(dir, "apptrack.db"))
	if err != nil {
		return config.Config{}, "", nil, err
	}
	if err := store.Migrate(db.Pool); err != nil {
		_ = db.Close()
		return config.Config{}, "", nil, err
	}

	return cfg, userCfgPath, db, nil
}

func loadCfg(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := config.OverlayClassifyRules(&cfg, filepath.Join(filepath.Dir(path), "rules.yml")); err != nil {
		return cfg, err
	}
	normalized, vr := config.NormalizeAndValidate(cfg)
	if !vr.OK() {
		return cfg, fmt.Errorf("invalid config: %v", vr.Errors)
	}
	for _, w := range vr.Warnings {
		log.Printf("level=warn msg=\"config\" warning=%q", w)
	}
	return normalized, nil
}

func buildPipeline(cfg config.Config) parse.Pipeline {
	var c parse.Classifier = parse.RuleClassifier{}
	if cfg.Classify.Enabled {
		c = parse.Any(c, classify.TermScorer{Cfg: cfg})
	}
	return parse.NewPipeline(c)
}

func runServe(portFlag int) error {
	dir := resolveDataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// Single-instance guard: a second engine on the same data dir would
	// fight over the sqlite file and the IMAP \Seen flags.
	lock := flock.New(filepath.Join(dir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("instance lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another engine instance is already running on %s", dir)
	}
	defer func() { _ = lock.Unlock() }()

	cfg, userCfgPath, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	// Keep config reloadable behind an atomic.Value.
	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	var ingestStatus atomic.Value
	ingestStatus.Store(ingest.Status{})

	hub := events.NewHub()
	pipe := buildPipeline(cfg)

	mux := httpapi.NewMux(httpapi.Deps{
		DB:           db.Pool,
		Hub:          hub,
		Pipeline:     pipe,
		CfgVal:       &cfgVal,
		IngestStatus: &ingestStatus,
		UserCfgPath:  userCfgPath,
		LoadCfg:      func() (config.Config, error) { return loadCfg(userCfgPath) },
		RunIngest:    poll.RunIngest,
	})

	port := portFlag
	if port == 0 {
		port = cfg.App.Port
	}
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.AccessLog,
			httpapi.Recover,
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Shutdown endpoint is attached here because it needs srv and the token.
	token, err := randomToken(16)
	if err != nil {
		return err
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))
	log.Printf("level=info msg=\"shutdown token\" token=%s", token)

	// Background mailbox poller + retention cleanup.
	poll.StartPoller(db.Pool, &cfgVal, &ingestStatus, pipe, hub)

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()
	go scheduler.Every(bgCtx, cleanupInterval(cfg), "cleanup", func(ctx context.Context) error {
		cur := cfgVal.Load().(config.Config)
		n, err := store.CleanupOldApplications(db.Pool, cur.Polling.RetentionMonths)
		if n > 0 {
			log.Printf("level=info msg=\"cleanup\" deleted=%d", n)
		}
		return err
	})

	// Graceful shutdown on SIGINT/SIGTERM.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("level=info msg=\"shutting down\"")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Printf("level=info msg=\"engine listening\" addr=http://%s data_dir=%s", addr, dir)
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func cleanupInterval(cfg config.Config) time.Duration {
	if cfg.Polling.CleanupHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(cfg.Polling.CleanupHours) * time.Hour
}
