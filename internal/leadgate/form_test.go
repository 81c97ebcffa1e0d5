// ABOUTME: Tests for input building and validation
// ABOUTME: Covers ordering, kinds, placeholders, value carry-over, and required/email rules

package leadgate

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/chatwidget/internal/gateway"
)

func ptr[T any](v T) *T { return &v }

func names(inputs []Input) []string {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		out[i] = in.Name
	}
	return out
}

func TestBuildInputs_SortsByOrderStable(t *testing.T) {
	inputs := buildInputs([]gateway.FieldSpec{
		{Name: "email", Order: 2, Required: true},
		{Name: "name", Order: 1},
		{Name: "phone", Order: 2},
		{Name: "company"},
	}, nil)

	assert.Equal(t, []string{"company", "name", "email", "phone"}, names(inputs))
}

func TestBuildInputs_KindsAndPlaceholders(t *testing.T) {
	inputs := buildInputs([]gateway.FieldSpec{
		{Name: "a", Type: "textarea", Placeholder: ptr("Tell us more")},
		{Name: "b", Type: "EMAIL", Label: "Work email"},
		{Name: "c", Type: "number"},
		{Name: "d", Type: "tel"},
	}, nil)

	assert.Equal(t, KindTextarea, inputs[0].Kind)
	assert.Equal(t, "Tell us more", inputs[0].Placeholder)
	assert.Equal(t, KindEmail, inputs[1].Kind)
	assert.Equal(t, "Work email", inputs[1].Placeholder)
	assert.Equal(t, KindNumber, inputs[2].Kind)
	assert.Equal(t, "c", inputs[2].Placeholder)
	assert.Equal(t, KindText, inputs[3].Kind)
}

func TestBuildInputs_CarriesValuesByName(t *testing.T) {
	prev := []Input{{Name: "name", Value: "Ada"}, {Name: "gone", Value: "x"}}
	inputs := buildInputs([]gateway.FieldSpec{{Name: "email"}, {Name: "name"}}, prev)

	require.Len(t, inputs, 2)
	assert.Equal(t, "", inputs[0].Value)
	assert.Equal(t, "Ada", inputs[1].Value)
}

func TestValidateInputs(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name    string
		inputs  []Input
		wantBad []string
	}{
		{
			name:   "optional blanks pass",
			inputs: []Input{{Name: "name"}, {Name: "email", Kind: KindEmail}},
		},
		{
			name:    "required blank fails after trim",
			inputs:  []Input{{Name: "company", Required: true, Value: "   "}},
			wantBad: []string{"company"},
		},
		{
			name:    "required email must be shaped like one",
			inputs:  []Input{{Name: "email", Required: true, Value: "not-an-email"}},
			wantBad: []string{"email"},
		},
		{
			name:   "required email passes",
			inputs: []Input{{Name: "email", Required: true, Value: " a@b.com "}},
		},
		{
			name:   "optional malformed email is not checked",
			inputs: []Input{{Name: "email", Value: "nope"}},
		},
		{
			name: "all failures listed",
			inputs: []Input{
				{Name: "name", Required: true},
				{Name: "work", Kind: KindEmail, Required: true, Value: "x@"},
			},
			wantBad: []string{"name", "work"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInputs(v, tt.inputs)
			if tt.wantBad == nil {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantBad, ve.Fields)
		})
	}
}

func TestFormData(t *testing.T) {
	data, email := formData([]Input{{Name: "name", Value: " A "}, {Name: "email", Value: "a@b.com"}})
	assert.Equal(t, map[string]string{"name": "A", "email": "a@b.com"}, data)
	assert.Equal(t, "a@b.com", email)

	_, email = formData([]Input{{Name: "work", Kind: KindEmail, Value: "w@b.com"}})
	assert.Equal(t, "w@b.com", email)

	_, email = formData([]Input{{Name: "company", Value: "Acme"}})
	assert.Empty(t, email)
}
