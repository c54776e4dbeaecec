package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"apptrack-engine/internal/domain"
	"apptrack-engine/internal/parse"
)

type ParseHandler struct {
	Pipeline parse.Pipeline
}

// Parse is the dry-run endpoint: classify + extract without touching the DB.
func (h ParseHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var msg domain.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		WriteError(w, r, 400, "invalid_json", err.Error())
		return
	}
	if strings.TrimSpace(msg.Subject) == "" && strings.TrimSpace(msg.Body) == "" {
		WriteError(w, r, 400, "empty_message", "subject or body is required")
		return
	}

	writeJSON(w, h.Pipeline.Parse(msg.Subject, msg.Body))
}
