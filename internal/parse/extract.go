package parse

import "strings"

// Fields holds what the extractor pulled out of an email. Empty string means
// the field was not found; that is an expected outcome, not an error.
type Fields struct {
	Company string `json:"company"`
	Title   string `json:"title"`
	JobID   string `json:"job_id"`
}

// Reply/forward markers that must never be taken for a company or title.
var replyMarkers = map[string]bool{"re": true, "fwd": true, "fw": true}

// Extract runs the field-extraction cascade over a subject/body pair.
//
// Job id: body first, then subject; first match wins.
//
// Company: a strict priority order of strategies, each tried only while the
// company is still unset — later strategies never overwrite an earlier hit:
//  1. subject split ("Title - Company"), which also sets the title
//  2. thank-you phrases ("thank you for applying to X", ...)
//  3. a "Company:" field in the body
//  4. subject prefix before the first colon
func Extract(subject, body string) Fields {
	var f Fields

	if m := jobIDRe.FindStringSubmatch(body); m != nil {
		f.JobID = strings.TrimSpace(m[1])
	} else if m := jobIDRe.FindStringSubmatch(subject); m != nil {
		f.JobID = strings.TrimSpace(m[1])
	}

	f.Title, f.Company = splitSubject(subject)

	for _, strat := range companyStrategies {
		if f.Company != "" {
			break
		}
		f.Company = strat(subject, body)
	}

	return f
}

// Company strategies 2-4, in cascade order. Each is a pure function of the
// inputs and returns "" when it has nothing.
var companyStrategies = []func(subject, body string) string{
	companyFromThankYou,
	companyFromBodyField,
	companyFromSubjectPrefix,
}

// splitSubject applies the "Title <sep> Company" pattern. Reply-prefixed
// subjects ("Re: ...") are not split: the left segment is a reply marker,
// not a title, and the colon form must fall through to the prefix fallback.
func splitSubject(subject string) (title, company string) {
	m := subjectSplitRe.FindStringSubmatch(subject)
	if m == nil {
		return "", ""
	}
	left := strings.TrimSpace(m[1])
	if replyMarkers[strings.ToLower(left)] {
		return "", ""
	}
	return left, CleanCompanyName(m[2])
}

// companyFromThankYou tries each thank-you pattern against the subject first
// (usually cleaner), then the body. The first hit short-circuits the rest.
func companyFromThankYou(subject, body string) string {
	for _, re := range thankYouRes {
		if m := re.FindStringSubmatch(subject); m != nil {
			return CleanCompanyName(m[1])
		}
		if m := re.FindStringSubmatch(body); m != nil {
			return CleanCompanyName(m[1])
		}
	}
	return ""
}

func companyFromBodyField(_, body string) string {
	m := companyFieldRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return CleanCompanyName(m[1])
}

// companyFromSubjectPrefix takes a short segment before the first colon as a
// company candidate ("Acme Corp: your application"). Candidates longer than
// four words, shorter than three characters, or matching a reply marker are
// rejected.
func companyFromSubjectPrefix(subject, _ string) string {
	if !strings.Contains(subject, ":") {
		return ""
	}
	left, _, _ := strings.Cut(subject, ":")
	if len(strings.Fields(left)) > 4 {
		return ""
	}
	candidate := CleanCompanyName(left)
	if len(candidate) <= 2 || replyMarkers[strings.ToLower(candidate)] {
		return ""
	}
	return candidate
}
