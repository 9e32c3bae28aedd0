package estimate

import "fmt"

// Step is a position in the guided script.
type Step int

const (
	StepIdle Step = iota
	StepQuantity
	StepItems
	StepPhoto
	StepResale
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepQuantity:
		return "quantity"
	case StepItems:
		return "items"
	case StepPhoto:
		return "photo"
	case StepResale:
		return "resale"
	case StepDone:
		return "done"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Mode is either GuidedMode or ConversationalMode.
type Mode interface {
	Name() string
	isMode()
}

// GuidedMode drives the fixed script.
type GuidedMode struct {
	Step Step
}

// ConversationalMode hands the dialogue to the language model. Until the
// first reply succeeds the switch is not Established, and a persistent
// failure returns the dialogue to the guided step it left at ResumeStep.
type ConversationalMode struct {
	ResumeStep  Step
	Established bool
}

func (GuidedMode) Name() string         { return "guided" }
func (ConversationalMode) Name() string { return "conversational" }
func (GuidedMode) isMode()              {}
func (ConversationalMode) isMode()      {}

// modeRecord is the stored form of a Mode.
type modeRecord struct {
	Kind        string `json:"kind"`
	Step        Step   `json:"step"`
	Established bool   `json:"established,omitempty"`
}

func recordMode(m Mode) modeRecord {
	switch v := m.(type) {
	case ConversationalMode:
		return modeRecord{Kind: v.Name(), Step: v.ResumeStep, Established: v.Established}
	case GuidedMode:
		return modeRecord{Kind: v.Name(), Step: v.Step}
	}
	return modeRecord{Kind: GuidedMode{}.Name()}
}

func (r modeRecord) mode() (Mode, error) {
	switch r.Kind {
	case "guided", "":
		return GuidedMode{Step: r.Step}, nil
	case "conversational":
		return ConversationalMode{ResumeStep: r.Step, Established: r.Established}, nil
	}
	return nil, fmt.Errorf("estimate: unknown mode %q", r.Kind)
}
