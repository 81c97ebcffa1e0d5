// ABOUTME: Form inputs built from backend field specs, and their validation
// ABOUTME: Uses go-playground/validator for required and email checks

package leadgate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/2389/chatwidget/internal/gateway"
)

// Input kinds.
const (
	KindText     = "text"
	KindEmail    = "email"
	KindNumber   = "number"
	KindTextarea = "textarea"
)

// Input is one rendered form input.
type Input struct {
	Name        string
	Label       string
	Kind        string
	Placeholder string
	Required    bool
	Value       string
}

// ValidationError lists the fields that failed local validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// buildInputs renders fields sorted by order, ties keeping their original
// position. Values typed into previous inputs carry over by name.
func buildInputs(fields []gateway.FieldSpec, previous []Input) []Input {
	sorted := slices.Clone(fields)
	slices.SortStableFunc(sorted, func(a, b gateway.FieldSpec) int {
		return cmp.Compare(a.Order, b.Order)
	})

	values := make(map[string]string, len(previous))
	for _, in := range previous {
		values[in.Name] = in.Value
	}

	inputs := make([]Input, 0, len(sorted))
	for _, f := range sorted {
		inputs = append(inputs, Input{
			Name:        f.Name,
			Label:       f.Label,
			Kind:        inputKind(f.Type),
			Placeholder: placeholder(f),
			Required:    f.Required,
			Value:       values[f.Name],
		})
	}
	return inputs
}

func inputKind(fieldType string) string {
	switch t := strings.ToLower(fieldType); t {
	case KindTextarea, KindEmail, KindNumber:
		return t
	default:
		return KindText
	}
}

func placeholder(f gateway.FieldSpec) string {
	if f.Placeholder != nil && *f.Placeholder != "" {
		return *f.Placeholder
	}
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// isEmailField reports whether in carries the visitor's email.
func isEmailField(in Input) bool {
	return in.Name == "email" || in.Kind == KindEmail
}

// validateInputs checks every required input. A required email input must
// also be shaped like an address.
func validateInputs(v *validator.Validate, inputs []Input) error {
	var bad []string
	for _, in := range inputs {
		if !in.Required {
			continue
		}
		tag := "required"
		if isEmailField(in) {
			tag = "required,email"
		}
		if err := v.Var(strings.TrimSpace(in.Value), tag); err != nil {
			bad = append(bad, in.Name)
		}
	}
	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

// formData returns trimmed values keyed by field name, plus the email value
// (from the field named email, else the first email-kind field).
func formData(inputs []Input) (data map[string]string, email string) {
	data = make(map[string]string, len(inputs))
	for _, in := range inputs {
		data[in.Name] = strings.TrimSpace(in.Value)
	}
	if v, ok := data["email"]; ok {
		return data, v
	}
	for _, in := range inputs {
		if in.Kind == KindEmail {
			return data, data[in.Name]
		}
	}
	return data, ""
}

func unknownField(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownField, name)
}
