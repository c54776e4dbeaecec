package domain

import "time"

// Application statuses as tracked by the user. Stored as plain text; the
// default for new records is StatusApplied.
const (
	StatusApplied   = "Applied"
	StatusInterview = "Interview"
	StatusOffer     = "Offer"
	StatusRejected  = "Rejected"
	StatusWithdrawn = "Withdrawn"
)

// ValidStatus reports whether s is one of the tracked statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

type Application struct {
	ID              string     `json:"id"`
	Company         string     `json:"company"`
	Title           string     `json:"title"`
	JobID           string     `json:"job_id"`
	Platform        string     `json:"platform"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes"`
	SourceEmailID   string     `json:"source_email_id"`
	SourceURL       string     `json:"source_url"`
	ApplicationDate *time.Time `json:"application_date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// RawMessage is the immutable input handed to the parsing pipeline.
type RawMessage struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
