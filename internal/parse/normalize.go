package parse

import "strings"

// CleanCompanyName trims an extracted company fragment: whitespace, trailing
// punctuation runs, and boilerplate suffixes like "Careers" or "Recruiting".
// Returns "" when nothing usable is left. Idempotent: the pass repeats until
// the value stops changing, so "Acme Inc. Team" cleans the same on every call.
func CleanCompanyName(raw string) string {
	name := strings.TrimSpace(raw)

	for {
		prev := name

		name = trailingPunctRe.ReplaceAllString(name, "")
		name = strings.TrimSpace(name)

		lower := strings.ToLower(name)
		for _, suffix := range companySuffixes {
			if strings.HasSuffix(lower, suffix) {
				name = strings.TrimSpace(name[:len(name)-len(suffix)])
				lower = strings.ToLower(name)
			}
		}

		if name == prev {
			return name
		}
	}
}
