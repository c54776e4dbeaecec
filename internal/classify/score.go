// engine/internal/classify/score.go
package classify

import (
	"strings"

	"apptrack-engine/internal/config"
)

// TermScorer is a weighted-term classifier configured from YAML. It stands in
// for (or combines with) the rule-based confirmation classifier: rules add
// weight when any of their terms appear in the text, penalties subtract, and
// the message classifies positive when the total clears the threshold.
//
// It satisfies parse.Classifier, so it can be swapped into the pipeline
// without touching the extraction side.
type TermScorer struct {
	Cfg config.Config
}

func (s TermScorer) Classify(subject, body string) bool {
	if s.Cfg.Classify.Threshold <= 0 {
		return false
	}
	score, _ := s.Score(subject, body)
	return score >= s.Cfg.Classify.Threshold
}

// Score returns the weighted total and the tags of the rules that fired.
func (s TermScorer) Score(subject, body string) (int, []string) {
	text := strings.ToLower(subject + " " + body)

	score := 0
	var tags []string

	for _, r := range s.Cfg.Classify.Rules {
		for _, needle := range r.Any {
			n := strings.ToLower(needle)
			if n != "" && strings.Contains(text, n) {
				score += r.Weight
				tags = append(tags, r.Tag)
				break
			}
		}
	}

	for _, p := range s.Cfg.Classify.Penalties {
		for _, needle := range p.Any {
			n := strings.ToLower(needle)
			if n != "" && strings.Contains(text, n) {
				score += p.Weight
				break
			}
		}
	}

	return score, uniq(tags)
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
