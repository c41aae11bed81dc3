package registry

import (
	"encoding/json"
	"fmt"

	"go-reportdef/pkg/reportdef"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DecodeJSON builds a live definition from a stored JSON schema document.
// Construction runs the variable constructors, so a document with a
// reserved name or unknown type fails here rather than at first use.
func DecodeJSON(data []byte) (*reportdef.Definition, error) {
	var doc reportdef.DefinitionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode definition document: %w", err)
	}
	return build(doc)
}

// DecodeYAML is DecodeJSON for YAML schema documents.
func DecodeYAML(data []byte) (*reportdef.Definition, error) {
	var doc reportdef.DefinitionDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode definition document: %w", err)
	}
	return build(doc)
}

// EncodeJSON serializes a definition's declaration form. Live variable
// values are not part of the serialized shape.
func EncodeJSON(def *reportdef.Definition) ([]byte, error) {
	return json.MarshalIndent(def.Document(), "", "  ")
}

func build(doc reportdef.DefinitionDoc) (*reportdef.Definition, error) {
	def := reportdef.NewDefinition(doc.Title)
	def.SetColumns(doc.Columns)
	variables := make([]*reportdef.Variable, 0, len(doc.Variables))
	for _, vdoc := range doc.Variables {
		v, err := reportdef.NewVariable(vdoc)
		if err != nil {
			return nil, err
		}
		variables = append(variables, v)
	}
	if err := def.SetVariables(variables); err != nil {
		return nil, err
	}
	return def, nil
}

// LoadJSON decodes a JSON schema document and registers it under key.
func (r *Registry) LoadJSON(key string, data []byte) error {
	def, err := DecodeJSON(data)
	if err != nil {
		r.log.Error("failed to load report definition", zap.String("key", key), zap.Error(err))
		return err
	}
	return r.Register(key, def)
}

// LoadYAML decodes a YAML schema document and registers it under key.
func (r *Registry) LoadYAML(key string, data []byte) error {
	def, err := DecodeYAML(data)
	if err != nil {
		r.log.Error("failed to load report definition", zap.String("key", key), zap.Error(err))
		return err
	}
	return r.Register(key, def)
}
