package compiler

import (
	"github.com/BaSui01/extractflow/property"
	"github.com/BaSui01/extractflow/schema"
)

// Metadata echoes the top of the wire tree.
type Metadata struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Fields      []string `json:"fields"`
	Required    []string `json:"required"`
	FieldCount  int      `json:"fieldCount"`
	// Fingerprint is the hex SHA-256 of the canonical wire encoding.
	Fingerprint string `json:"fingerprint"`
}

func newMetadata(wire *schema.Object, fingerprint string) Metadata {
	fields := wire.Properties.Ordered()
	return Metadata{
		Title:       wire.Title,
		Description: wire.Description,
		Fields:      fields,
		Required:    append([]string{}, wire.Required...),
		FieldCount:  len(fields),
		Fingerprint: fingerprint,
	}
}

// CompiledSchema bundles everything derived from one wire tree. It is
// immutable: accessors hand out copies.
type CompiledSchema struct {
	validator *Validator
	wire      *schema.Object
	guidance  *schema.OrderedMap
	structure *schema.OrderedMap
	metadata  Metadata
}

// Validator returns the synthesized validator.
func (s *CompiledSchema) Validator() *Validator { return s.validator }

// Wire returns a copy of the wire tree.
func (s *CompiledSchema) Wire() *schema.Object { return schema.CloneObject(s.wire) }

// Guidance returns a copy of the guidance view.
func (s *CompiledSchema) Guidance() *schema.OrderedMap { return s.guidance.Clone() }

// Structure returns a copy of the structure-only view.
func (s *CompiledSchema) Structure() *schema.OrderedMap { return s.structure.Clone() }

// Metadata returns the metadata echo.
func (s *CompiledSchema) Metadata() Metadata {
	m := s.metadata
	m.Fields = append([]string{}, m.Fields...)
	m.Required = append([]string{}, m.Required...)
	return m
}

// Fingerprint is shorthand for Metadata().Fingerprint.
func (s *CompiledSchema) Fingerprint() string { return s.metadata.Fingerprint }

// Properties converts the wire tree back to a property list.
func (s *CompiledSchema) Properties() ([]property.Property, error) {
	return property.FromWire(s.wire)
}

// Artifact is the serializable form of a compiled schema, without the
// validator.
type Artifact struct {
	Wire      *schema.Object     `json:"wireTree"`
	Guidance  *schema.OrderedMap `json:"cleanView"`
	Structure *schema.OrderedMap `json:"outputView"`
	Metadata  Metadata           `json:"metadata"`
}

// Artifact returns the serializable form.
func (s *CompiledSchema) Artifact() Artifact {
	return Artifact{
		Wire:      s.Wire(),
		Guidance:  s.Guidance(),
		Structure: s.Structure(),
		Metadata:  s.Metadata(),
	}
}
