package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineParse(t *testing.T) {
	p := NewPipeline(nil)

	tests := []struct {
		name    string
		subject string
		body    string
		want    Result
	}{
		{
			name:    "full confirmation",
			subject: "Software Engineer Intern - Acme Corp",
			body:    "Thank you for applying to Acme Corp. Req ID: R-1234",
			want: Result{
				IsApplication: true,
				Company:       "Acme Corp",
				Title:         "Software Engineer Intern",
				JobID:         "R-1234",
			},
		},
		{
			name:    "newsletter",
			subject: "Your weekly newsletter",
			body:    "Check out our blog",
			want:    Result{},
		},
		{
			name:    "company field only",
			subject: "Application Confirmation",
			body:    "Company: Globex Inc.\nWe have received your application.",
			want:    Result{IsApplication: true, Company: "Globex Inc"},
		},
		{
			name:    "reply subject yields nothing",
			subject: "Re: interview scheduling",
			want:    Result{},
		},
		{
			name: "empty inputs",
			want: Result{},
		},
		{
			// Extraction is not gated on classification: fields are still
			// populated for messages the classifier misses.
			name:    "fields without confirmation phrase",
			subject: "Data Scientist - Initech",
			body:    "We'll review your resume shortly. Req# 41",
			want:    Result{Company: "Initech", Title: "Data Scientist", JobID: "41"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.subject, tt.body)
			assert.Equal(t, tt.want, got)

			// Parse is pure: same inputs, same result.
			assert.Equal(t, got, p.Parse(tt.subject, tt.body))
		})
	}
}

func TestPipelineSwappableClassifier(t *testing.T) {
	always := NewPipeline(staticClassifier(true))
	got := always.Parse("Your weekly newsletter", "Check out our blog")
	assert.True(t, got.IsApplication)
	assert.Empty(t, got.Company)

	// Zero value falls back to the rule set.
	var zero Pipeline
	assert.True(t, zero.Parse("Application Confirmation", "").IsApplication)
}

func TestPipelineClipsOversizedInput(t *testing.T) {
	body := "We have received your application. " + strings.Repeat("x", maxInputLen)
	got := NewPipeline(nil).Parse("", body)
	assert.True(t, got.IsApplication)
}
