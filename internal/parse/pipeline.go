package parse

// maxInputLen caps how much text the patterns scan per field. Go's regexp is
// linear-time, so this is a bound on work for pathological inputs, not a
// backtracking guard.
const maxInputLen = 256 << 10

// Result is the outcome of one parse call. Unset fields default to
// false/empty; the pipeline never fails on malformed text, it just
// populates less.
type Result struct {
	IsApplication bool   `json:"is_application"`
	Company       string `json:"company"`
	Title         string `json:"title"`
	JobID         string `json:"job_id"`
}

// Pipeline ties the confirmation classifier and the field extractor into one
// entry point. A zero Classifier falls back to the rule set. Pipelines are
// stateless and safe to share across goroutines.
type Pipeline struct {
	Classifier Classifier
}

func NewPipeline(c Classifier) Pipeline {
	if c == nil {
		c = RuleClassifier{}
	}
	return Pipeline{Classifier: c}
}

// Parse classifies and extracts. Extraction runs regardless of the
// classification outcome: fields can still be informative for borderline
// messages the classifier missed.
func (p Pipeline) Parse(subject, body string) Result {
	subject = clip(subject, maxInputLen)
	body = clip(body, maxInputLen)

	c := p.Classifier
	if c == nil {
		c = RuleClassifier{}
	}

	fields := Extract(subject, body)
	return Result{
		IsApplication: c.Classify(subject, body),
		Company:       fields.Company,
		Title:         fields.Title,
		JobID:         fields.JobID,
	}
}

func clip(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
