package reportdef

import (
	"errors"
	"reflect"
	"testing"
)

func TestColumnsOrderAndReplace(t *testing.T) {
	d := NewDefinition("Sales")
	d.AddColumn(Column{"name": "total"})
	d.AddColumn(Column{"name": "region"})
	d.AddColumn(Column{"name": "total"}) // duplicates allowed

	cols := d.Columns()
	if len(cols) != 3 {
		t.Fatalf("len(columns) = %d, want 3", len(cols))
	}
	if cols[1]["name"] != "region" {
		t.Errorf("column order not preserved: %v", cols)
	}

	d.SetColumns([]Column{{"name": "only"}})
	cols = d.Columns()
	if len(cols) != 1 || cols[0]["name"] != "only" {
		t.Errorf("SetColumns should replace, got %v", cols)
	}
}

func TestGetVariable(t *testing.T) {
	d := NewDefinition("Sales")
	v := mustVariable(t, VariableDoc{Name: "region", Type: VariableTypeText})
	if err := d.AddVariable(v); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}

	if got := d.GetVariable("region"); got != v {
		t.Errorf("GetVariable(region) = %v, want the added variable", got)
	}
	if got := d.GetVariable("Region"); got != nil {
		t.Errorf("lookup must be case-sensitive, got %v", got)
	}
	if got := d.GetVariable("missing"); got != nil {
		t.Errorf("GetVariable(missing) = %v, want nil", got)
	}
}

func TestAddVariableRejectsDuplicateName(t *testing.T) {
	d := NewDefinition("Sales")
	if err := d.AddVariable(mustVariable(t, VariableDoc{Name: "x", Type: VariableTypeText})); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	err := d.AddVariable(mustVariable(t, VariableDoc{Name: "x", Type: VariableTypeNumber}))
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("want ErrInvalidConfiguration, got %v", err)
	}
	if len(d.Variables()) != 1 {
		t.Errorf("failed AddVariable mutated the list: %v", d.Variables())
	}
}

func TestSetVariablesReplacesAndPreValidates(t *testing.T) {
	d := NewDefinition("Sales")
	if err := d.AddVariable(mustVariable(t, VariableDoc{Name: "old", Type: VariableTypeText})); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}

	dup := []*Variable{
		mustVariable(t, VariableDoc{Name: "x", Type: VariableTypeText}),
		mustVariable(t, VariableDoc{Name: "x", Type: VariableTypeText}),
	}
	if err := d.SetVariables(dup); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("want ErrInvalidConfiguration, got %v", err)
	}
	if d.GetVariable("old") == nil {
		t.Error("failed SetVariables discarded the prior list")
	}

	fresh := []*Variable{
		mustVariable(t, VariableDoc{Name: "a", Type: VariableTypeText}),
		mustVariable(t, VariableDoc{Name: "b", Type: VariableTypeText}),
	}
	if err := d.SetVariables(fresh); err != nil {
		t.Fatalf("SetVariables: %v", err)
	}
	if d.GetVariable("old") != nil || d.GetVariable("a") == nil {
		t.Errorf("SetVariables should replace, got %v", d.Variables())
	}
}

func TestSetVariableValuesPartialApply(t *testing.T) {
	d := NewDefinition("Sales")
	x := mustVariable(t, VariableDoc{Name: "x", Type: VariableTypeText})
	y := mustVariable(t, VariableDoc{
		Name: "y", Type: VariableTypeSelect,
		Options: map[string]string{"a": "Alpha"},
	})
	if err := d.SetVariables([]*Variable{x, y}); err != nil {
		t.Fatalf("SetVariables: %v", err)
	}

	err := d.SetVariableValues(map[string]any{"x": "hello", "y": "bad"})
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("want ErrInvalidValue, got %v", err)
	}
	// x was processed before the failure and keeps its new value.
	if got := d.GetVariable("x").Value(); got != "hello" {
		t.Errorf("x = %v, want hello", got)
	}
}

func TestSetVariableValuesUntouchedOnOmission(t *testing.T) {
	d := NewDefinition("Sales")
	z := mustVariable(t, VariableDoc{Name: "z", Type: VariableTypeText})
	if err := d.AddVariable(z); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	if err := z.SetValue("prev"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	if err := d.SetVariableValues(map[string]any{}); err != nil {
		t.Fatalf("SetVariableValues: %v", err)
	}
	if got := d.GetVariable("z").Value(); got != "prev" {
		t.Errorf("z = %v, want prev", got)
	}
}

func TestDefinitionDocument(t *testing.T) {
	d := NewDefinition("Sales")
	d.AddColumn(Column{"name": "total"})
	v := mustVariable(t, VariableDoc{Name: "region", Display: "Region", Type: VariableTypeText, Default: "eu"})
	if err := d.AddVariable(v); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	if err := v.SetValue("us"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	doc := d.Document()
	if doc.Title != "Sales" {
		t.Errorf("title = %q", doc.Title)
	}
	if len(doc.Columns) != 1 || doc.Columns[0]["name"] != "total" {
		t.Errorf("columns = %v", doc.Columns)
	}
	if len(doc.Variables) != 1 || doc.Variables[0].Name != "region" {
		t.Fatalf("variables = %v", doc.Variables)
	}
	if doc.Variables[0].Default != "eu" {
		t.Errorf("default = %v, want eu (live value must not leak)", doc.Variables[0].Default)
	}
}

func TestCloneIsolation(t *testing.T) {
	d := NewDefinition("Sales")
	d.AddColumn(Column{"name": "total"})
	v := mustVariable(t, VariableDoc{
		Name: "tags", Type: VariableTypeSelectMultiple,
		Options: map[string]string{"a": "Alpha", "b": "Beta"},
	})
	if err := d.AddVariable(v); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	if err := v.SetValue([]any{"a"}); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	clone, err := d.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}

	// Live values survive the clone.
	if !reflect.DeepEqual(clone.GetVariable("tags").Value(), []string{"a"}) {
		t.Errorf("clone value = %v, want [a]", clone.GetVariable("tags").Value())
	}

	// Mutating the clone leaves the original untouched, and vice versa.
	if err := clone.GetVariable("tags").SetValue("b"); err != nil {
		t.Fatalf("SetValue on clone: %v", err)
	}
	clone.Columns()[0]["name"] = "changed"
	clone.SetTitle("Renamed")

	if !reflect.DeepEqual(v.Value(), []string{"a"}) {
		t.Errorf("original value mutated through clone: %v", v.Value())
	}
	if d.Columns()[0]["name"] != "total" {
		t.Errorf("original column mutated through clone: %v", d.Columns())
	}
	if d.Title() != "Sales" {
		t.Errorf("original title mutated through clone: %q", d.Title())
	}
}
