package entities

// InitialStep is the step index a new or reset flow starts at.
const InitialStep = 0

// Selections maps a wizard step id to the option ids chosen at that step, in
// the order the caller gave them.
type Selections map[string][]string

// Clone returns a deep copy.
func (s Selections) Clone() Selections {
	if s == nil {
		return nil
	}
	out := make(Selections, len(s))
	for k, v := range s {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// IsEmpty reports whether no step has any chosen option.
func (s Selections) IsEmpty() bool {
	for _, v := range s {
		if len(v) > 0 {
			return false
		}
	}
	return true
}

// FlowState tracks wizard progress for a single session.
type FlowState struct {
	CurrentStep int        `json:"current_step"`
	Selections  Selections `json:"selections"`
}

func NewFlowState() FlowState {
	return FlowState{CurrentStep: InitialStep, Selections: Selections{}}
}

// SetCurrentStep accepts any value; range checking is the caller's concern.
func (f *FlowState) SetCurrentStep(step int) {
	f.CurrentStep = step
}

// UpdateSelection replaces the whole list for stepID.
func (f *FlowState) UpdateSelection(stepID string, selectedIDs []string) {
	if f.Selections == nil {
		f.Selections = Selections{}
	}
	ids := make([]string, len(selectedIDs))
	copy(ids, selectedIDs)
	f.Selections[stepID] = ids
}

func (f *FlowState) Reset() {
	f.CurrentStep = InitialStep
	f.Selections = Selections{}
}
