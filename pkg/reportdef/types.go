// Package reportdef models declarative report definitions: a title, an
// ordered list of output columns and a catalog of typed, validated input
// variables that parameterize report execution.
package reportdef

import "strings"

type VariableType string

const (
	VariableTypeCheckbox       VariableType = "checkbox"
	VariableTypeDate           VariableType = "date"
	VariableTypeNumber         VariableType = "number"
	VariableTypeSelect         VariableType = "select"
	VariableTypeSelectMultiple VariableType = "select-multiple"
	VariableTypeText           VariableType = "text"
)

// Valid reports whether t is one of the supported variable types.
func (t VariableType) Valid() bool {
	switch t {
	case VariableTypeCheckbox, VariableTypeDate, VariableTypeNumber,
		VariableTypeSelect, VariableTypeSelectMultiple, VariableTypeText:
		return true
	}
	return false
}

// Reserved words that collide with runner query parameters. Variable names
// must not match these, case-insensitively.
var reservedNames = []string{"limit", "order", "page"}

func isReservedName(name string) bool {
	for _, r := range reservedNames {
		if strings.EqualFold(name, r) {
			return true
		}
	}
	return false
}

// Column is an opaque descriptor of one output field. The engine only
// stores, orders and serializes columns; their shape is owned by the
// report runner.
type Column map[string]any

// VariableDoc is the declaration record of a variable: the fields that
// round-trip through storage. The live value is deliberately absent, only
// declaration metadata is serialized.
type VariableDoc struct {
	Name        string            `json:"name"`
	Display     string            `json:"display"`
	Type        VariableType      `json:"type"`
	Default     any               `json:"default"`
	Options     map[string]string `json:"options"`
	Format      string            `json:"format,omitempty"`
	Description *string           `json:"description,omitempty"`
}

// DefinitionDoc is the serialized form of a whole definition.
type DefinitionDoc struct {
	Title     string        `json:"title"`
	Columns   []Column      `json:"columns"`
	Variables []VariableDoc `json:"variables"`
}
