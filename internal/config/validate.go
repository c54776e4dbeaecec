package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus everything a user
// should fix before the config is saved.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Email.Mailboxes = trimList(out.Email.Mailboxes)
	out.Email.SearchSubjectAny = trimList(out.Email.SearchSubjectAny)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Polling.IngestSeconds <= 0 {
		res.addErr("polling.ingest_seconds must be > 0")
	} else if out.Polling.IngestSeconds < 30 {
		res.addWarn("polling.ingest_seconds is very low (%d) and may upset your IMAP provider.", out.Polling.IngestSeconds)
	}
	if out.Polling.CleanupHours < 0 {
		res.addErr("polling.cleanup_hours must be >= 0")
	}
	if out.Polling.RetentionMonths < 0 {
		res.addErr("polling.retention_months must be >= 0")
	}

	// email required fields if enabled (password not required here; it's in keychain)
	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if out.Email.IMAPPort == 0 {
			res.addErr("email.imap_port is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if len(out.Email.Mailboxes) == 0 {
			res.addWarn("email.mailboxes is empty; INBOX will be used.")
		}
		if out.Email.MaxMessages < 0 {
			res.addErr("email.max_messages must be >= 0")
		}
	}

	if out.Classify.Enabled {
		if out.Classify.Threshold <= 0 {
			res.addErr("classify.threshold must be > 0 when classify.enabled=true")
		}
		if len(out.Classify.Rules) == 0 {
			res.addWarn("classify.enabled=true with no rules; the scorer will never fire.")
		}
	}

	return out, res
}
