package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apptrack-engine/internal/config"
	"apptrack-engine/internal/domain"
	"apptrack-engine/internal/events"
	"apptrack-engine/internal/ingest"
	"apptrack-engine/internal/parse"
	"apptrack-engine/internal/store"
)

func testDeps(t *testing.T) (Deps, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+t.TempDir()+"/api.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)
	require.NoError(t, store.Migrate(db))

	cfgVal := &atomic.Value{}
	cfgVal.Store(config.Config{})
	stVal := &atomic.Value{}
	stVal.Store(ingest.Status{})

	return Deps{
		DB:           db,
		Hub:          events.NewHub(),
		Pipeline:     parse.NewPipeline(nil),
		CfgVal:       cfgVal,
		IngestStatus: stVal,
	}, db
}

func doJSON(t *testing.T, mux http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	deps, _ := testDeps(t)
	mux := NewMux(deps)

	rec := doJSON(t, mux, http.MethodGet, "/health", nil)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestApplicationsCRUD(t *testing.T) {
	deps, _ := testDeps(t)
	mux := NewMux(deps)

	// Create
	rec := doJSON(t, mux, http.MethodPost, "/applications", map[string]any{
		"company": "Acme", "title": "SWE Intern", "job_id": "R-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.StatusApplied, created.Status)

	// List
	rec = doJSON(t, mux, http.MethodGet, "/applications", nil)
	require.Equal(t, 200, rec.Code)
	var list []domain.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	// Get
	rec = doJSON(t, mux, http.MethodGet, "/applications/"+created.ID, nil)
	require.Equal(t, 200, rec.Code)

	// Status update
	rec = doJSON(t, mux, http.MethodPatch, "/applications/"+created.ID, map[string]any{"status": domain.StatusInterview})
	require.Equal(t, 200, rec.Code, rec.Body.String())

	rec = doJSON(t, mux, http.MethodGet, "/applications/"+created.ID, nil)
	var got domain.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.StatusInterview, got.Status)

	// Bad status rejected
	rec = doJSON(t, mux, http.MethodPatch, "/applications/"+created.ID, map[string]any{"status": "Ghosted"})
	assert.Equal(t, 400, rec.Code)

	// Delete
	rec = doJSON(t, mux, http.MethodDelete, "/applications/"+created.ID, nil)
	require.Equal(t, 200, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/applications/"+created.ID, nil)
	assert.Equal(t, 404, rec.Code)
}

func TestCreateRejectsEmpty(t *testing.T) {
	deps, _ := testDeps(t)
	mux := NewMux(deps)

	rec := doJSON(t, mux, http.MethodPost, "/applications", map[string]any{"notes": "nothing else"})
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_fields")
}

func TestParseDryRun(t *testing.T) {
	deps, _ := testDeps(t)
	mux := NewMux(deps)

	rec := doJSON(t, mux, http.MethodPost, "/parse", map[string]any{
		"subject": "Software Engineer Intern - Acme Corp",
		"body":    "Thank you for applying to Acme Corp. Req ID: R-1234",
	})
	require.Equal(t, 200, rec.Code)

	var res parse.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.IsApplication)
	assert.Equal(t, "Acme Corp", res.Company)
	assert.Equal(t, "Software Engineer Intern", res.Title)
	assert.Equal(t, "R-1234", res.JobID)

	// Nothing was stored.
	apps, err := store.ListApplications(context.Background(), deps.DB, store.ListOpts{})
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestParseRejectsEmptyMessage(t *testing.T) {
	deps, _ := testDeps(t)
	mux := NewMux(deps)

	rec := doJSON(t, mux, http.MethodPost, "/parse", map[string]any{"subject": "", "body": ""})
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty_message")
}

func TestParseAndAdd(t *testing.T) {
	deps, _ := testDeps(t)
	mux := NewMux(deps)

	rec := doJSON(t, mux, http.MethodPost, "/parse-and-add", map[string]any{
		"subject": "Application received",
		"body":    "Thank you for applying to Initech.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	apps, err := store.ListApplications(context.Background(), deps.DB, store.ListOpts{})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Initech", apps[0].Company)
	assert.Equal(t, "manual", apps[0].Platform)
}

func TestParseAndAddRejectsNonApplication(t *testing.T) {
	deps, _ := testDeps(t)
	mux := NewMux(deps)

	rec := doJSON(t, mux, http.MethodPost, "/parse-and-add", map[string]any{
		"subject": "Weekly engineering newsletter",
		"body":    "This week in Go.",
	})
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_application")

	apps, err := store.ListApplications(context.Background(), deps.DB, store.ListOpts{})
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestExportCSV(t *testing.T) {
	deps, db := testDeps(t)
	mux := NewMux(deps)

	app := &domain.Application{Company: "Acme", Title: "SWE"}
	_, err := store.InsertApplication(context.Background(), db, app)
	require.NoError(t, err)

	rec := doJSON(t, mux, http.MethodGet, "/export", nil)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Acme")
}

func TestIngestStatusAndRun(t *testing.T) {
	deps, _ := testDeps(t)

	ran := make(chan struct{})
	deps.RunIngest = func(db *sql.DB, cfg config.Config, pipe parse.Pipeline, hub *events.Hub, status *atomic.Value) ingest.Summary {
		close(ran)
		return ingest.Summary{Scanned: 3, Matched: 1, Added: 1}
	}
	mux := NewMux(deps)

	rec := doJSON(t, mux, http.MethodGet, "/ingest/status", nil)
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"running":false`)

	rec = doJSON(t, mux, http.MethodPost, "/ingest/run", nil)
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
	<-ran

	// A run already in flight is refused.
	deps.IngestStatus.Store(ingest.Status{Running: true})
	rec = doJSON(t, mux, http.MethodPost, "/ingest/run", nil)
	assert.Contains(t, rec.Body.String(), `"ok":false`)
}

func TestMethodNotAllowed(t *testing.T) {
	deps, _ := testDeps(t)
	mux := NewMux(deps)

	rec := doJSON(t, mux, http.MethodDelete, "/applications", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	deps, _ := testDeps(t)
	h := Chain(NewMux(deps), RequestID, Recover)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
