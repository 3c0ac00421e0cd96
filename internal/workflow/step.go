// Package workflow gates the linear customization steps: model, design,
// placement, checkout.
package workflow

import "fmt"

// Step is one stage of the customization flow.
type Step int

const (
	ModelSelection Step = iota + 1
	DesignSelection
	Placement
	Checkout
)

var stepNames = map[Step]string{
	ModelSelection:  "model_selection",
	DesignSelection: "design_selection",
	Placement:       "placement",
	Checkout:        "checkout",
}

// AllSteps lists the steps in flow order.
func AllSteps() []Step {
	return []Step{ModelSelection, DesignSelection, Placement, Checkout}
}

// String implements fmt.Stringer.
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// IsValid reports whether the value is a known Step.
func (s Step) IsValid() bool {
	_, ok := stepNames[s]
	return ok
}

// Next returns the following step; Checkout is terminal.
func (s Step) Next() Step {
	if s >= Checkout {
		return Checkout
	}
	return s + 1
}

// ParseStep converts a raw step number into a Step.
func ParseStep(value int) (Step, error) {
	s := Step(value)
	if !s.IsValid() {
		return 0, fmt.Errorf("invalid workflow step %d", value)
	}
	return s, nil
}
