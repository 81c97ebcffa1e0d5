// ABOUTME: Lead gate runtime: form inputs, one-time lead lookup, and save
// ABOUTME: Wraps the pure State with locking and backend calls

package leadgate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/2389/chatwidget/internal/gateway"
)

// Status messages shown under the form.
const (
	StatusInvalid = "Please fill required fields correctly."
	StatusSaved   = "Saved"
)

var (
	// ErrFormUnavailable is returned by Save when the form is not shown.
	ErrFormUnavailable = errors.New("lead form is not available")
	// ErrUnknownField is returned by SetValue for a field not in the form.
	ErrUnknownField = errors.New("unknown form field")
)

// StatusKind classifies the form status line.
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusError
	StatusOK
)

// Status is the line shown under the form.
type Status struct {
	Text string
	Kind StatusKind
}

// LeadAPI is the part of the backend the gate calls.
type LeadAPI interface {
	Lead(ctx context.Context) (*gateway.Lead, error)
	SaveLead(ctx context.Context, name, email string) error
	SubmitForm(ctx context.Context, fields map[string]string) error
}

// View is a snapshot of the gate for rendering.
type View struct {
	Phase         Phase
	FormVisible   bool
	ChatReachable bool
	Inputs        []Input
	Status        Status
	Saving        bool
	SaveEnabled   bool
}

// Gate is the lead gate for one widget.
type Gate struct {
	mu       sync.Mutex
	state    State
	inputs   []Input
	status   Status
	saving   bool
	onChange func()

	api      LeadAPI
	validate *validator.Validate
	logger   *slog.Logger
}

// New creates a gate in PhaseUnknown with no fields.
func New(api LeadAPI, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		api:      api,
		validate: validator.New(),
		logger:   logger.With("component", "leadgate"),
	}
}

// OnChange registers fn to run after any visible change. fn is called
// without the gate's lock held.
func (g *Gate) OnChange(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onChange = fn
}

func (g *Gate) notify() {
	g.mu.Lock()
	fn := g.onChange
	g.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// SetFields replaces the form's field set, rebuilding the inputs.
func (g *Gate) SetFields(fields []gateway.FieldSpec) {
	g.mu.Lock()
	g.inputs = buildInputs(fields, g.inputs)
	g.mu.Unlock()
	g.notify()
}

// Reevaluate re-renders visibility without changing state.
func (g *Gate) Reevaluate() {
	g.notify()
}

// ApplyFormEnabled feeds a form_enabled value into the state machine,
// performing the one-time lead lookup when asked to.
func (g *Gate) ApplyFormEnabled(ctx context.Context, enabled bool) {
	g.mu.Lock()
	next, effect := g.state.ApplyFormEnabled(enabled)
	g.state = next
	g.mu.Unlock()
	g.notify()

	if effect != EffectLookupLead {
		return
	}

	lead, err := g.api.Lead(ctx)
	if err != nil {
		g.logger.Debug("lead lookup failed", "error", err)
	}
	found := err == nil && lead != nil && strings.TrimSpace(lead.Email) != ""

	g.mu.Lock()
	if found {
		g.prefillLocked("name", lead.Name)
		g.prefillLocked("email", lead.Email)
	}
	g.state = g.state.LookupResult(found)
	g.mu.Unlock()

	g.logger.Debug("lead lookup complete", "found", found)
	g.notify()
}

func (g *Gate) prefillLocked(name, value string) {
	for i := range g.inputs {
		if g.inputs[i].Name == name {
			g.inputs[i].Value = value
		}
	}
}

// SetValue sets the typed value of one input.
func (g *Gate) SetValue(name, value string) error {
	g.mu.Lock()
	found := false
	for i := range g.inputs {
		if g.inputs[i].Name == name {
			g.inputs[i].Value = value
			found = true
		}
	}
	g.mu.Unlock()

	if !found {
		return unknownField(name)
	}
	g.notify()
	return nil
}

// Save validates the form and submits it. It does nothing when a lead is
// already saved or a save is in progress. Validation failures return a
// *ValidationError without any network call.
func (g *Gate) Save(ctx context.Context) error {
	g.mu.Lock()
	if g.state.LeadSaved() || g.saving {
		g.mu.Unlock()
		return nil
	}
	if g.state.Phase() != PhaseEnabledUnsaved {
		g.mu.Unlock()
		return ErrFormUnavailable
	}
	if err := validateInputs(g.validate, g.inputs); err != nil {
		g.status = Status{Text: StatusInvalid, Kind: StatusError}
		g.mu.Unlock()
		g.notify()
		return err
	}
	data, email := formData(g.inputs)
	g.saving = true
	g.mu.Unlock()
	g.notify()

	var err error
	if email != "" {
		err = g.api.SaveLead(ctx, data["name"], email)
	} else {
		err = g.api.SubmitForm(ctx, data)
	}

	g.mu.Lock()
	g.saving = false
	if err != nil {
		g.status = Status{Text: "Error: " + errorText(err), Kind: StatusError}
	} else {
		g.state = g.state.Saved()
		g.status = Status{Text: StatusSaved, Kind: StatusOK}
	}
	g.mu.Unlock()
	g.notify()

	if err != nil {
		g.logger.Warn("lead save failed", "error", err)
		return fmt.Errorf("saving lead: %w", err)
	}
	via := "form/submit"
	if email != "" {
		via = "lead"
	}
	g.logger.Info("lead saved", "via", via)
	return nil
}

func errorText(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Could not save info"
}

// Phase returns the current phase.
func (g *Gate) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Phase()
}

// ChatReachable reports whether the chat may be used.
func (g *Gate) ChatReachable() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.ChatReachable()
}

// View returns a snapshot for rendering.
func (g *Gate) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()

	return View{
		Phase:         g.state.Phase(),
		FormVisible:   g.state.FormVisible(),
		ChatReachable: g.state.ChatReachable(),
		Inputs:        append([]Input(nil), g.inputs...),
		Status:        g.status,
		Saving:        g.saving,
		SaveEnabled:   g.state.FormVisible() && !g.saving,
	}
}
