package wizard

import "fmt"

// Step is a position in the booking wizard. Steps run strictly in order.
type Step int

const (
	StepDestination Step = iota + 1
	StepDuration
	StepDate
	StepReview
	StepPreferences
	StepDocuments
	StepPayment
	StepConfirmation
)

const (
	FirstStep = StepDestination
	LastStep  = StepConfirmation
)

var stepNames = map[Step]string{
	StepDestination:  "destination",
	StepDuration:     "duration",
	StepDate:         "date",
	StepReview:       "review",
	StepPreferences:  "preferences",
	StepDocuments:    "documents",
	StepPayment:      "payment",
	StepConfirmation: "confirmation",
}

func (s Step) Valid() bool { return s >= FirstStep && s <= LastStep }

func (s Step) Name() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return fmt.Sprintf("step-%d", int(s))
}

func (s Step) String() string {
	return fmt.Sprintf("%d (%s)", int(s), s.Name())
}

// Next is the step after s. The confirmation step has none.
func (s Step) Next() (Step, bool) {
	if !s.Valid() || s == LastStep {
		return s, false
	}
	return s + 1, true
}

// Prev is the step before s. The destination step has none.
func (s Step) Prev() (Step, bool) {
	if !s.Valid() || s == FirstStep {
		return s, false
	}
	return s - 1, true
}

var allowedTransitions = func() map[Step]map[Step]bool {
	m := make(map[Step]map[Step]bool, int(LastStep))
	for s := FirstStep; s <= LastStep; s++ {
		m[s] = map[Step]bool{}
		if n, ok := s.Next(); ok {
			m[s][n] = true
		}
		if p, ok := s.Prev(); ok {
			m[s][p] = true
		}
	}
	return m
}()

func CanTransition(from, to Step) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}
