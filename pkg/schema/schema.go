// Package schema validates machine identification documents against the
// bundled MachineIdentificationType JSON Schema.
package schema

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed machineidentificationtype.json
var machineIdentificationSchema string

// Validator validates JSON documents against the machine identification schema
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the bundled schema
func NewValidator() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(machineIdentificationSchema))
	if err != nil {
		return nil, fmt.Errorf("cannot compile machine identification schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// ValidateStruct validates doc (a map or struct) against the schema. If no
// error is returned, the document is valid.
func (v *Validator) ValidateStruct(doc interface{}) error {
	return v.validate(gojsonschema.NewGoLoader(doc))
}

// ValidateBytes validates raw JSON against the schema
func (v *Validator) ValidateBytes(data []byte) error {
	return v.validate(gojsonschema.NewBytesLoader(data))
}

func (v *Validator) validate(loader gojsonschema.JSONLoader) error {
	result, err := v.schema.Validate(loader)
	if err != nil {
		return fmt.Errorf("cannot validate document: %w", err)
	}

	if !result.Valid() {
		msg := "the document is not valid:\n"
		for _, e := range result.Errors() {
			msg += fmt.Sprintf("- %s\n", e)
		}
		return errors.New(msg)
	}
	return nil
}
