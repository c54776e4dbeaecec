package parse

// Classifier decides whether a (subject, body) pair is an application
// confirmation. The rule set below is the default; a scoring or statistical
// model can be swapped in (or combined via Any) behind the same contract.
type Classifier interface {
	Classify(subject, body string) bool
}

// RuleClassifier matches the fixed confirmation-phrase union anywhere in the
// subject or body. No negative signals: recall is favored over precision, so
// the occasional false positive is accepted rather than suppressed.
type RuleClassifier struct{}

func (RuleClassifier) Classify(subject, body string) bool {
	if subject != "" && confirmationRe.MatchString(subject) {
		return true
	}
	if body != "" && confirmationRe.MatchString(body) {
		return true
	}
	return false
}

// Any returns a Classifier that is true when any member classifier is.
func Any(cs ...Classifier) Classifier {
	return anyOf(cs)
}

type anyOf []Classifier

func (a anyOf) Classify(subject, body string) bool {
	for _, c := range a {
		if c.Classify(subject, body) {
			return true
		}
	}
	return false
}
