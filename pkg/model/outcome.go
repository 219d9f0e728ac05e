package model

// Outcome classifies a record as a successful optimization, a missed one,
// or neither.
type Outcome int

const (
	OutcomeNeutral Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

// String returns the string representation of Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "neutral"
	}
}

// Classifier decides the outcome of a record.
type Classifier interface {
	Classify(r *Record) Outcome
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(r *Record) Outcome

// Classify implements Classifier.
func (f ClassifierFunc) Classify(r *Record) Outcome {
	return f(r)
}

// KindClassifier derives the outcome from the record kind. A scope record
// takes the outcome of its last child.
type KindClassifier struct{}

// Classify implements Classifier.
func (KindClassifier) Classify(r *Record) Outcome {
	for r.Kind == KindScope && len(r.Children) > 0 {
		r = r.Children[len(r.Children)-1]
	}
	switch r.Kind {
	case "success", "optimized":
		return OutcomeSuccess
	case "failure", "missed":
		return OutcomeFailure
	default:
		return OutcomeNeutral
	}
}
