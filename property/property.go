package property

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/BaSui01/extractflow/schema"
	"github.com/BaSui01/extractflow/types"
)

// Type is the UI-facing field type.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeDate    Type = "date"
	TypeList    Type = "list"
)

// ItemType is the element type of a list property.
type ItemType string

const (
	ItemString  ItemType = "string"
	ItemNumber  ItemType = "number"
	ItemBoolean ItemType = "boolean"
	ItemDate    ItemType = "date"
	ItemObject  ItemType = "object"
)

// Field is one extraction field. It is also the element type of an
// object-list, which is why it cannot carry nested fields itself.
type Field struct {
	Name                   string            `json:"name" yaml:"name"`
	Type                   Type              `json:"type" yaml:"type"`
	Title                  string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description            string            `json:"description,omitempty" yaml:"description,omitempty"`
	Importance             schema.Importance `json:"importance,omitempty" yaml:"importance,omitempty"`
	Required               bool              `json:"required" yaml:"required"`
	ItemType               ItemType          `json:"itemType,omitempty" yaml:"itemType,omitempty"`
	ExtractionInstructions string            `json:"extractionInstructions,omitempty" yaml:"extractionInstructions,omitempty"`
	Examples               []schema.Example  `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Property is a top-level extraction field. Fields is only meaningful when
// Type is TypeList and ItemType is ItemObject.
type Property struct {
	Field  `yaml:",inline"`
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// IsObjectList reports whether the property is a list of objects.
func (p Property) IsObjectList() bool {
	return p.Type == TypeList && p.ItemType == ItemObject
}

// NewExample returns an example with a freshly minted ID.
func NewExample(input, output string) schema.Example {
	return schema.Example{ID: uuid.NewString(), Input: input, Output: output}
}

// ValidationError reports an invalid property list.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid property at %s: %s", e.Path, e.Message)
}

// ErrorCode implements types.Coded.
func (e *ValidationError) ErrorCode() types.ErrorCode { return types.ErrInvalidProperty }

// Validate checks names, enumerations and the one-level nesting rule. Type
// and item type values outside the known sets are accepted and carried
// through as opaque kinds.
func Validate(props []Property) error {
	seen := make(map[string]bool, len(props))
	for i, p := range props {
		path := fmt.Sprintf("properties[%d]", i)
		if err := validateField(p.Field, path, seen); err != nil {
			return err
		}
		switch {
		case p.IsObjectList():
			if len(p.Fields) == 0 {
				return &ValidationError{Path: path + ".fields", Message: "a list of objects must declare at least one field"}
			}
			nested := make(map[string]bool, len(p.Fields))
			for j, f := range p.Fields {
				fieldPath := fmt.Sprintf("%s.fields[%d]", path, j)
				if err := validateField(f, fieldPath, nested); err != nil {
					return err
				}
				if f.Type == TypeList && f.ItemType == ItemObject {
					return &ValidationError{Path: fieldPath + ".itemType", Message: "lists of objects cannot be nested inside a list of objects"}
				}
			}
		case len(p.Fields) > 0:
			return &ValidationError{Path: path + ".fields", Message: "fields are only allowed on a list of objects"}
		}
	}
	return nil
}

func validateField(f Field, path string, seen map[string]bool) error {
	if f.Name == "" {
		return &ValidationError{Path: path + ".name", Message: "name is required"}
	}
	if seen[f.Name] {
		return &ValidationError{Path: path + ".name", Message: fmt.Sprintf("duplicate name %q", f.Name)}
	}
	seen[f.Name] = true
	if f.Type == "" {
		return &ValidationError{Path: path + ".type", Message: "type is required"}
	}
	if !f.Importance.Valid() {
		return &ValidationError{Path: path + ".importance", Message: fmt.Sprintf("importance must be high, medium or low, got %q", f.Importance)}
	}
	if f.Type == TypeList && f.ItemType == "" {
		return &ValidationError{Path: path + ".itemType", Message: "a list must declare its itemType"}
	}
	if f.Type != TypeList && f.ItemType != "" {
		return &ValidationError{Path: path + ".itemType", Message: "itemType is only allowed on lists"}
	}
	return nil
}

// ParseList decodes a property list from JSON or YAML bytes.
func ParseList(data []byte, format string) ([]Property, error) {
	var props []Property
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &props); err != nil {
			return nil, fmt.Errorf("parse YAML property list: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &props); err != nil {
			return nil, fmt.Errorf("parse JSON property list: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q, use \"yaml\" or \"json\"", format)
	}
	return props, nil
}
