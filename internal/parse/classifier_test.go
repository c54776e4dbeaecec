package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleClassifier(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    bool
	}{
		{
			name:    "thank you for applying in body",
			body:    "Hi Sam,\n\nThank you for applying to Acme Corp.",
			want:    true,
		},
		{
			name:    "thank you for your application",
			body:    "Thank you for your application. We'll be in touch.",
			want:    true,
		},
		{
			name:    "received your application phrasing",
			body:    "We have received your application and will review it shortly.",
			want:    true,
		},
		{
			name:    "application received in subject",
			subject: "Application Received - Data Analyst",
			want:    true,
		},
		{
			name:    "submission received",
			body:    "Your submission has been received by our recruiting team.",
			want:    true,
		},
		{
			name:    "application confirmation subject",
			subject: "Application Confirmation",
			want:    true,
		},
		{
			name:    "thank you for submitting",
			body:    "Thank you for submitting your application to Globex.",
			want:    true,
		},
		{
			name:    "case insensitive",
			body:    "WE HAVE RECEIVED YOUR APPLICATION",
			want:    true,
		},
		{
			name:    "newsletter is not a confirmation",
			subject: "Your weekly newsletter",
			body:    "Check out our blog",
			want:    false,
		},
		{
			name: "empty subject and body",
			want: false,
		},
		{
			name:    "interview invite is not a confirmation",
			subject: "Interview availability",
			body:    "Are you free Tuesday for a phone screen?",
			want:    false,
		},
	}

	var c RuleClassifier
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.subject, tt.body))
		})
	}
}

type staticClassifier bool

func (s staticClassifier) Classify(subject, body string) bool { return bool(s) }

func TestAnyCombinesClassifiers(t *testing.T) {
	assert.True(t, Any(staticClassifier(false), staticClassifier(true)).Classify("", ""))
	assert.False(t, Any(staticClassifier(false), staticClassifier(false)).Classify("", ""))
	assert.False(t, Any().Classify("x", "y"))

	// Rules keep working when combined with another decision source.
	combined := Any(RuleClassifier{}, staticClassifier(false))
	assert.True(t, combined.Classify("Application Confirmation", ""))
}
