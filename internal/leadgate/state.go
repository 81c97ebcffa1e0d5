// ABOUTME: Pure lead gate state machine
// ABOUTME: Transitions return the next State plus the side effect to perform

package leadgate

// Phase is the gate's externally visible state.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseDisabled
	PhaseEnabledUnsaved
	PhaseEnabledSaved
)

func (p Phase) String() string {
	switch p {
	case PhaseDisabled:
		return "disabled"
	case PhaseEnabledUnsaved:
		return "enabled-unsaved"
	case PhaseEnabledSaved:
		return "enabled-saved"
	default:
		return "unknown"
	}
}

// Effect is work a transition asks the caller to perform.
type Effect int

const (
	EffectNone Effect = iota
	// EffectLookupLead asks for one GET lead, fed back via LookupResult.
	EffectLookupLead
)

// State is the gate's decision state. The zero value is PhaseUnknown.
type State struct {
	known     bool
	enabled   bool
	leadSaved bool
}

// Phase derives the phase from the state.
func (s State) Phase() Phase {
	switch {
	case !s.known:
		return PhaseUnknown
	case !s.enabled:
		return PhaseDisabled
	case s.leadSaved:
		return PhaseEnabledSaved
	default:
		return PhaseEnabledUnsaved
	}
}

// ApplyFormEnabled records the configured form_enabled. Only the first
// determination, and only when it enables the form, asks for a lookup.
func (s State) ApplyFormEnabled(enabled bool) (State, Effect) {
	first := !s.known
	s.known = true
	s.enabled = enabled
	if first && enabled {
		return s, EffectLookupLead
	}
	return s, EffectNone
}

// LookupResult records the outcome of the lead lookup.
func (s State) LookupResult(found bool) State {
	if found {
		s.leadSaved = true
	}
	return s
}

// Saved records a successful save.
func (s State) Saved() State {
	s.leadSaved = true
	return s
}

// LeadSaved reports whether a lead is known to exist. It never reverts.
func (s State) LeadSaved() bool {
	return s.leadSaved
}

// ChatReachable reports whether the conversation surface is usable.
// Before the first config the chat is shown.
func (s State) ChatReachable() bool {
	return s.Phase() != PhaseEnabledUnsaved
}

// FormVisible reports whether the contact form is shown.
func (s State) FormVisible() bool {
	return s.Phase() == PhaseEnabledUnsaved
}
