package parse

import "regexp"

// All patterns are compiled once at init and shared read-only across
// concurrent parses. A bad pattern panics here rather than surfacing later.
var (
	// Phrases whose presence marks an email as an application confirmation.
	confirmationRe = regexp.MustCompile(`(?i)thank you for (?:applying|your application)|we have received your application|application received|your submission has been received|application confirmation|thank you for submitting your application`)

	// Labeled requisition/job identifiers. Longer labels come first so
	// "Req ID: R-1234" captures "R-1234" and not the token "ID".
	jobIDRe = regexp.MustCompile(`(?i)(?:Requisition\s*ID|Req#|Job\s*ID|Job\s*Req|Req(?:\.|uisition)?(?:\s*ID)?)[\s:]*#?([A-Za-z0-9_/-]+)`)

	// "Title - Company" (also ":" and "|"). Non-greedy on the left so the
	// title is the shortest plausible prefix.
	subjectSplitRe = regexp.MustCompile(`(.+?)\s*[-:|]\s*(.+)`)

	// "Company: Globex Inc." fields in the body, capture to end of line.
	companyFieldRe = regexp.MustCompile(`(?i)Company[:\-]\s*([^\n\r]+)`)

	// "Thank you for applying to X" and friends. Tried in order; each
	// capture runs to the next sentence-ending punctuation or line break.
	// (?s) lets the lead-in span line breaks while the boundary class
	// still terminates the capture.
	thankYouRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)thank you for (?:applying to|your application to|submitting your application to)\s+([^.!,\n\r]+)`),
		regexp.MustCompile(`(?is)thanks for applying to\s+([^.!,\n\r]+)`),
		regexp.MustCompile(`(?is)application received.*?(?:at|for|from)\s+([^.!,\n\r]+)`),
		regexp.MustCompile(`(?is)your application (?:at|to|for)\s+([^.!,\n\r]+)(?:\s+has been received|is being reviewed)`),
		regexp.MustCompile(`(?is)received your application.*?(?:at|for|with)\s+([^.!,\n\r]+)`),
	}

	trailingPunctRe = regexp.MustCompile(`[.,;:!?]+$`)
)

// Boilerplate suffixes stripped off extracted company names, in order.
var companySuffixes = []string{
	" team",
	" careers",
	" recruiting",
	" talent acquisition",
	" hr",
	" hiring",
}
