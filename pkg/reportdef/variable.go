package reportdef

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/mitchellh/copystructure"
)

// Variable is a single typed report parameter. Name and type are fixed at
// construction (type only changes through SetType); the live value mutates
// exclusively through SetValue, which validates against the declared type.
type Variable struct {
	name        string
	display     string
	typ         VariableType
	def         any
	options     map[string]string
	format      string
	description *string
	value       any
}

// NewVariable builds a variable from its declaration record. The default
// value is adopted verbatim as the initial live value: defaults are trusted
// configuration and are not run through the validator, only SetValue is.
func NewVariable(doc VariableDoc) (*Variable, error) {
	if isReservedName(doc.Name) {
		return nil, fmt.Errorf("%w: variable name %q is reserved", ErrInvalidConfiguration, doc.Name)
	}
	if !doc.Type.Valid() {
		return nil, fmt.Errorf("%w: variable %q has unknown type %q", ErrInvalidConfiguration, doc.Name, doc.Type)
	}
	options := make(map[string]string, len(doc.Options))
	for k, v := range doc.Options {
		options[k] = v
	}
	return &Variable{
		name:        doc.Name,
		display:     doc.Display,
		typ:         doc.Type,
		def:         doc.Default,
		options:     options,
		format:      doc.Format,
		description: doc.Description,
		value:       doc.Default,
	}, nil
}

func (v *Variable) Name() string       { return v.name }
func (v *Variable) Display() string    { return v.display }
func (v *Variable) Type() VariableType { return v.typ }
func (v *Variable) Default() any       { return v.def }
func (v *Variable) Format() string     { return v.format }
func (v *Variable) Value() any         { return v.value }

// Description returns the optional description; nil means none was declared.
func (v *Variable) Description() *string { return v.description }

// Options returns a copy of the declared option set.
func (v *Variable) Options() map[string]string {
	out := make(map[string]string, len(v.options))
	for k, val := range v.options {
		out[k] = val
	}
	return out
}

// SetType changes the variable's type. The current value is not
// re-validated against the new type; callers that retype a variable after
// assignment are expected to follow up with SetValue.
func (v *Variable) SetType(t VariableType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: variable %q: unknown type %q", ErrInvalidConfiguration, v.name, t)
	}
	v.typ = t
	return nil
}

// SetValue validates raw against the variable's type and, on success,
// replaces the live value. On failure the previous value is left untouched.
func (v *Variable) SetValue(raw any) error {
	switch v.typ {
	case VariableTypeCheckbox:
		v.value = truthy(raw)
	case VariableTypeDate:
		if v.format == "" {
			return fmt.Errorf("%w: variable %q: date format is not set", ErrInvalidConfiguration, v.name)
		}
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("%w: variable %q: expected date string, got %v", ErrInvalidValue, v.name, raw)
		}
		if err := parseDateStrict(v.format, s); err != nil {
			return fmt.Errorf("variable %q: %w", v.name, err)
		}
		v.value = s
	case VariableTypeSelect:
		key, ok := optionKey(raw)
		if !ok {
			return fmt.Errorf("%w: variable %q: %v is not a valid option key", ErrInvalidValue, v.name, raw)
		}
		if _, present := v.options[key]; !present {
			return fmt.Errorf("%w: variable %q: %q is not in the option set", ErrInvalidValue, v.name, key)
		}
		v.value = key
	case VariableTypeSelectMultiple:
		keys, err := v.optionKeys(raw)
		if err != nil {
			return err
		}
		v.value = keys
	default:
		// number, text: stored as-is, no coercion.
		v.value = raw
	}
	return nil
}

// optionKeys normalizes raw into a key list and validates every element
// before anything is accepted; a single bad key rejects the whole value.
func (v *Variable) optionKeys(raw any) ([]string, error) {
	var keys []string
	switch val := raw.(type) {
	case []string:
		keys = append(keys, val...)
	case []any:
		for _, el := range val {
			key, ok := optionKey(el)
			if !ok {
				return nil, fmt.Errorf("%w: variable %q: %v is not a valid option key", ErrInvalidValue, v.name, el)
			}
			keys = append(keys, key)
		}
	default:
		key, ok := optionKey(raw)
		if !ok {
			return nil, fmt.Errorf("%w: variable %q: %v is not a valid option key", ErrInvalidValue, v.name, raw)
		}
		keys = []string{key}
	}
	for _, key := range keys {
		if _, present := v.options[key]; !present {
			return nil, fmt.Errorf("%w: variable %q: %q is not in the option set", ErrInvalidValue, v.name, key)
		}
	}
	return keys, nil
}

// Document returns the declaration record. The live value is excluded:
// serialization only round-trips metadata, never assignments.
func (v *Variable) Document() VariableDoc {
	return VariableDoc{
		Name:        v.name,
		Display:     v.display,
		Type:        v.typ,
		Default:     v.def,
		Options:     v.Options(),
		Format:      v.format,
		Description: v.description,
	}
}

// clone deep-copies the variable including its live value.
func (v *Variable) clone() (*Variable, error) {
	out := &Variable{
		name:    v.name,
		display: v.display,
		typ:     v.typ,
		format:  v.format,
		options: v.Options(),
	}
	if v.description != nil {
		d := *v.description
		out.description = &d
	}
	var err error
	if out.def, err = cloneValue(v.def); err != nil {
		return nil, fmt.Errorf("clone variable %q: %w", v.name, err)
	}
	if out.value, err = cloneValue(v.value); err != nil {
		return nil, fmt.Errorf("clone variable %q: %w", v.name, err)
	}
	return out, nil
}

func cloneValue(val any) (any, error) {
	if val == nil {
		return nil, nil
	}
	return copystructure.Copy(val)
}

// optionKey normalizes a scalar into an option-map key. Numeric raw values
// arrive as float64 from JSON decoding, so integral floats are accepted.
func optionKey(raw any) (string, bool) {
	switch val := raw.(type) {
	case string:
		return val, true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatFloat(val, 'f', -1, 64), true
		}
	}
	return "", false
}

// truthy coerces raw to a boolean: nil, false, numeric zero, "", "0" and
// empty sequences are false, everything else true.
func truthy(raw any) bool {
	switch val := raw.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != "" && val != "0"
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	}
	return true
}
