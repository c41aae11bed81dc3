package reportdef

import "fmt"

// Definition aggregates one report schema: a title, the ordered output
// columns and the catalog of typed variables. Instances are built once per
// schema and reused across execution requests; each request assigns fresh
// values through SetVariableValues. The aggregate does no locking — callers
// sharing one instance across goroutines must serialize mutation or work on
// a Clone.
type Definition struct {
	title     string
	columns   []Column
	variables []*Variable
}

func NewDefinition(title string) *Definition {
	return &Definition{title: title}
}

func (d *Definition) Title() string         { return d.title }
func (d *Definition) SetTitle(title string) { d.title = title }

// AddColumn appends a column. Columns are opaque: duplicates are allowed
// and order is display order.
func (d *Definition) AddColumn(c Column) {
	d.columns = append(d.columns, c)
}

// SetColumns discards all existing columns and adopts the given sequence.
func (d *Definition) SetColumns(columns []Column) {
	d.columns = append([]Column(nil), columns...)
}

func (d *Definition) Columns() []Column {
	return append([]Column(nil), d.columns...)
}

// AddVariable appends a variable. Names are the lookup key for value
// assignment, so a name already present on the definition is rejected.
func (d *Definition) AddVariable(v *Variable) error {
	if d.GetVariable(v.Name()) != nil {
		return fmt.Errorf("%w: duplicate variable name %q", ErrInvalidConfiguration, v.Name())
	}
	d.variables = append(d.variables, v)
	return nil
}

// SetVariables discards all existing variables and adopts the given
// sequence. Duplicate names are rejected before anything is replaced.
func (d *Definition) SetVariables(variables []*Variable) error {
	seen := make(map[string]struct{}, len(variables))
	for _, v := range variables {
		if _, dup := seen[v.Name()]; dup {
			return fmt.Errorf("%w: duplicate variable name %q", ErrInvalidConfiguration, v.Name())
		}
		seen[v.Name()] = struct{}{}
	}
	d.variables = append([]*Variable(nil), variables...)
	return nil
}

func (d *Definition) Variables() []*Variable {
	return append([]*Variable(nil), d.variables...)
}

// GetVariable returns the first variable whose name matches exactly, or nil.
func (d *Definition) GetVariable(name string) *Variable {
	for _, v := range d.variables {
		if v.Name() == name {
			return v
		}
	}
	return nil
}

// SetVariableValues assigns values by variable name. Variables absent from
// the map keep their current value. Assignment is not transactional: the
// first validation failure propagates and variables already updated in the
// same call keep their new values. Callers needing atomicity should apply
// values to a Clone and swap on success.
func (d *Definition) SetVariableValues(values map[string]any) error {
	for _, v := range d.variables {
		raw, ok := values[v.Name()]
		if !ok {
			continue
		}
		if err := v.SetValue(raw); err != nil {
			return err
		}
	}
	return nil
}

// Document returns the serialized form: title, columns, and each
// variable's declaration record (live values excluded).
func (d *Definition) Document() DefinitionDoc {
	doc := DefinitionDoc{
		Title:     d.title,
		Columns:   d.Columns(),
		Variables: make([]VariableDoc, 0, len(d.variables)),
	}
	for _, v := range d.variables {
		doc.Variables = append(doc.Variables, v.Document())
	}
	return doc
}

// Clone deep-copies the definition, including live variable values, so a
// request can mutate its own copy while the shared schema stays untouched.
func (d *Definition) Clone() (*Definition, error) {
	out := &Definition{title: d.title}
	for _, c := range d.columns {
		copied, err := cloneValue(c)
		if err != nil {
			return nil, fmt.Errorf("clone columns: %w", err)
		}
		if copied == nil {
			out.columns = append(out.columns, nil)
			continue
		}
		out.columns = append(out.columns, copied.(Column))
	}
	for _, v := range d.variables {
		cv, err := v.clone()
		if err != nil {
			return nil, err
		}
		out.variables = append(out.variables, cv)
	}
	return out, nil
}
