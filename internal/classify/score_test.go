package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"apptrack-engine/internal/config"
	"apptrack-engine/internal/parse"
)

func scorerFixture() TermScorer {
	var cfg config.Config
	cfg.Classify.Enabled = true
	cfg.Classify.Threshold = 3
	cfg.Classify.Rules = []config.Rule{
		{Tag: "ack", Weight: 2, Any: []string{"your application", "you applied"}},
		{Tag: "ats", Weight: 2, Any: []string{"workday", "greenhouse", "requisition"}},
		{Tag: "next_steps", Weight: 1, Any: []string{"next steps", "review your resume"}},
	}
	cfg.Classify.Penalties = []config.Penalty{
		{Reason: "newsletter", Weight: -3, Any: []string{"unsubscribe", "weekly digest"}},
	}
	return TermScorer{Cfg: cfg}
}

func TestTermScorerScore(t *testing.T) {
	s := scorerFixture()

	tests := []struct {
		name      string
		subject   string
		body      string
		wantScore int
		wantTags  []string
	}{
		{
			name:      "two rules fire",
			subject:   "We received your application",
			body:      "Your requisition is on file.",
			wantScore: 4,
			wantTags:  []string{"ack", "ats"},
		},
		{
			name:      "rule fires once per rule",
			body:      "your application ... you applied",
			wantScore: 2,
			wantTags:  []string{"ack"},
		},
		{
			name:      "penalty pulls below threshold",
			body:      "Your application digest. Unsubscribe here. Requisition roundup!",
			wantScore: 1,
			wantTags:  []string{"ack", "ats"},
		},
		{
			name:      "nothing matches",
			body:      "lunch on friday?",
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, tags := s.Score(tt.subject, tt.body)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantTags, tags)
		})
	}
}

func TestTermScorerClassify(t *testing.T) {
	s := scorerFixture()

	assert.True(t, s.Classify("We received your application", "Your requisition is on file."))
	assert.False(t, s.Classify("", "lunch on friday?"))

	// Zero threshold means the scorer never classifies positive.
	var off TermScorer
	assert.False(t, off.Classify("your application", "workday"))
}

func TestTermScorerCombinesWithRules(t *testing.T) {
	p := parse.NewPipeline(parse.Any(parse.RuleClassifier{}, scorerFixture()))

	// No confirmation phrase, but the scorer clears its threshold.
	got := p.Parse("Update on your application", "Greenhouse requisition 57 status")
	assert.True(t, got.IsApplication)

	// Confirmation phrase alone still wins.
	got = p.Parse("Application Confirmation", "")
	assert.True(t, got.IsApplication)
}
