package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"apptrack-engine/internal/domain"
	"apptrack-engine/internal/events"
	"apptrack-engine/internal/parse"
	"apptrack-engine/internal/store"
)

type ApplicationsHandler struct {
	DB       *sql.DB
	Hub      *events.Hub
	Pipeline parse.Pipeline
}

func (h ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if ls := q.Get("limit"); ls != "" {
		limit, _ = strconv.Atoi(ls)
	}

	apps, err := store.ListApplications(r.Context(), h.DB, store.ListOpts{
		Status: q.Get("status"),
		Limit:  limit,
	})
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	writeJSON(w, apps)
}

func (h ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var app domain.Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		WriteError(w, r, 400, "invalid_json", err.Error())
		return
	}
	if strings.TrimSpace(app.Company) == "" && strings.TrimSpace(app.Title) == "" {
		WriteError(w, r, 400, "missing_fields", "company or title is required")
		return
	}
	if app.Status != "" && !domain.ValidStatus(app.Status) {
		WriteError(w, r, 400, "invalid_status", "unknown status "+strconv.Quote(app.Status))
		return
	}

	app.ID = "" // ids are assigned by the store
	added, err := store.InsertApplication(r.Context(), h.DB, &app)
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	if !added {
		WriteError(w, r, 409, "duplicate", "an application from this source email already exists")
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeApplicationAdded, 1, app))
	WriteJSON(w, http.StatusCreated, app)
}

func (h ApplicationsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id := idFromPath(r.URL.Path)
	if id == "" {
		WriteError(w, r, 400, "invalid_id", "missing application id")
		return
	}

	app, err := store.GetApplication(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, 404, "not_found", "no such application")
		return
	}
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}
	writeJSON(w, app)
}

func (h ApplicationsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id := idFromPath(r.URL.Path)
	if id == "" {
		WriteError(w, r, 400, "invalid_id", "missing application id")
		return
	}

	err := store.DeleteApplication(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, 404, "not_found", "no such application")
		return
	}
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeApplicationDeleted, 1, map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

type setStatusReq struct {
	Status string `json:"status"`
}

func (h ApplicationsHandler) SetStatusByPath(w http.ResponseWriter, r *http.Request) {
	// Both PATCH /applications/{id} and /applications/{id}/status are accepted.
	id := strings.TrimSuffix(idFromPath(r.URL.Path), "/status")
	if id == "" {
		WriteError(w, r, 400, "invalid_id", "missing application id")
		return
	}

	var req setStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, 400, "invalid_json", err.Error())
		return
	}
	if !domain.ValidStatus(req.Status) {
		WriteError(w, r, 400, "invalid_status", "unknown status "+strconv.Quote(req.Status))
		return
	}

	err := store.UpdateStatus(r.Context(), h.DB, id, req.Status)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, 404, "not_found", "no such application")
		return
	}
	if err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeApplicationUpdated, 1, map[string]any{"id": id, "status": req.Status}))
	writeJSON(w, map[string]any{"ok": true, "id": id, "status": req.Status})
}

// ParseAndAdd runs a raw message through the pipeline and stores the result
// when it looks like an application confirmation.
func (h ApplicationsHandler) ParseAndAdd(w http.ResponseWriter, r *http.Request) {
	var msg domain.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		WriteError(w, r, 400, "invalid_json", err.Error())
		return
	}
	if strings.TrimSpace(msg.Subject) == "" && strings.TrimSpace(msg.Body) == "" {
		WriteError(w, r, 400, "empty_message", "subject or body is required")
		return
	}

	res := h.Pipeline.Parse(msg.Subject, msg.Body)
	if !res.IsApplication {
		WriteError(w, r, 400, "not_application", "message does not look like an application confirmation")
		return
	}

	app := domain.Application{
		Company:  res.Company,
		Title:    res.Title,
		JobID:    res.JobID,
		Platform: "manual",
	}
	if _, err := store.InsertApplication(r.Context(), h.DB, &app); err != nil {
		WriteError(w, r, 500, "db_error", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeApplicationAdded, 1, app))
	WriteJSON(w, http.StatusCreated, app)
}

func (h ApplicationsHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="applications.csv"`)
	if err := store.ExportCSV(r.Context(), h.DB, w); err != nil {
		// headers are out already; all we can do is log via the access log status
		http.Error(w, err.Error(), 500)
	}
}

func idFromPath(path string) string {
	return strings.TrimSpace(strings.TrimPrefix(path, "/applications/"))
}
