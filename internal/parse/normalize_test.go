package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCompanyName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain name untouched", in: "Acme Corp", want: "Acme Corp"},
		{name: "surrounding whitespace", in: "  Globex Inc  ", want: "Globex Inc"},
		{name: "trailing punctuation run", in: "Globex Inc.!?", want: "Globex Inc"},
		{name: "careers and team suffixes", in: "Acme Careers Team.", want: "Acme"},
		{name: "recruiting suffix", in: "Initech Recruiting", want: "Initech"},
		{name: "talent acquisition suffix", in: "Hooli Talent Acquisition", want: "Hooli"},
		{name: "hiring suffix case-insensitive", in: "Umbrella HIRING", want: "Umbrella"},
		{name: "suffix exposes punctuation", in: "Acme Inc. Team", want: "Acme Inc"},
		{name: "hr suffix", in: "Stark Industries HR", want: "Stark Industries"},
		{name: "empty input", in: "", want: ""},
		{name: "only punctuation", in: "...", want: ""},
		{name: "only whitespace", in: "   ", want: ""},
		{name: "suffix word inside name kept", in: "Team Rocket", want: "Team Rocket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanCompanyName(tt.in)
			assert.Equal(t, tt.want, got)

			// Cleaning is idempotent.
			assert.Equal(t, got, CleanCompanyName(got))
		})
	}
}
