package workflow

import (
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
)

// Facts is what the machine needs to know about the session to gate a step.
type Facts struct {
	HasModel    bool
	HasDesign   bool
	HasDesignID bool
}

// Machine tracks the current step and the set of completed steps. Completed
// marks only grow; they are cleared only by building a new Machine.
type Machine struct {
	current   Step
	completed map[Step]bool
}

// NewMachine starts at ModelSelection with nothing completed.
func NewMachine() *Machine {
	return &Machine{current: ModelSelection, completed: map[Step]bool{}}
}

func (m *Machine) Current() Step { return m.current }

func (m *Machine) IsCompleted(s Step) bool { return m.completed[s] }

// Completed returns the completed steps in flow order.
func (m *Machine) Completed() []Step {
	out := make([]Step, 0, len(m.completed))
	for _, s := range AllSteps() {
		if m.completed[s] {
			out = append(out, s)
		}
	}
	return out
}

// Require checks the data prerequisites for working on step s.
func Require(s Step, facts Facts) error {
	var missing []string
	if s >= DesignSelection && !facts.HasModel {
		missing = append(missing, "phone model")
	}
	if s >= Placement && !facts.HasDesign {
		missing = append(missing, "design")
	}
	if s >= Checkout && !facts.HasDesignID {
		missing = append(missing, "committed design")
	}
	if len(missing) == 0 {
		return nil
	}
	return pkgerrors.New(
		pkgerrors.CodePrerequisiteNotMet,
		fmt.Sprintf("%s requires a selected %s", s, strings.Join(missing, " and ")),
	).WithDetails(map[string]any{"step": int(s), "missing": missing})
}

// Complete marks done as complete and moves forward to the step after it.
// It never moves the current step backward.
func (m *Machine) Complete(done Step) {
	m.completed[done] = true
	if next := done.Next(); next > m.current {
		m.current = next
	}
}

// CompleteAll marks every step complete.
func (m *Machine) CompleteAll() {
	for _, s := range AllSteps() {
		m.completed[s] = true
	}
	m.current = Checkout
}

// Enter moves to step s, for example on back navigation. Completed marks and
// data chosen for other steps are kept.
func (m *Machine) Enter(s Step, facts Facts) error {
	if !s.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown workflow step %d", int(s)))
	}
	if err := Require(s, facts); err != nil {
		return err
	}
	m.current = s
	return nil
}
