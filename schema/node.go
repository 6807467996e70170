package schema

// Kind is the tag of the closed node variant.
type Kind string

const (
	KindPrimitive Kind = "primitive"
	KindArray     Kind = "array"
	KindObject    Kind = "object"
	KindOpaque    Kind = "opaque"
)

// Type is a wire-level type name.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

// Format is a string format annotation. Only FormatDate carries meaning.
type Format string

const FormatDate Format = "date"

// Importance ranks a field for human and model readers.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Valid reports whether i is empty or one of the known levels.
func (i Importance) Valid() bool {
	switch i {
	case "", ImportanceHigh, ImportanceMedium, ImportanceLow:
		return true
	}
	return false
}

// Example is an input/output pair attached to a field. Output is either
// scalar text or a JSON structure serialized as text.
type Example struct {
	ID     string `json:"id" yaml:"id"`
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

// Presentation is the metadata every node may carry. None of it affects
// validation.
type Presentation struct {
	Title                  string
	Description            string
	Importance             Importance
	ExtractionInstructions string
	DisplayName            string
	Examples               []Example
	// Order is the position of the node within its parent's property list.
	Order *int
}

// Meta returns the node's presentation metadata.
func (p *Presentation) Meta() *Presentation { return p }

// Node is a wire schema tree node. The set of implementations is closed.
type Node interface {
	Kind() Kind
	// TypeName returns the wire "type" value.
	TypeName() string
	Meta() *Presentation
	sealed()
}

// Primitive is a string, number, integer or boolean node.
type Primitive struct {
	Presentation
	Type      Type
	Format    Format
	Enum      []any
	MinLength *int
	MaxLength *int
	Minimum   *float64
	Maximum   *float64
}

func (*Primitive) Kind() Kind         { return KindPrimitive }
func (p *Primitive) TypeName() string { return string(p.Type) }
func (*Primitive) sealed()            {}
func (p *Primitive) IsDate() bool     { return p.Type == TypeString && p.Format == FormatDate }
func (p *Primitive) HasEnum() bool    { return len(p.Enum) > 0 }
func (p *Primitive) IsNumeric() bool  { return p.Type == TypeNumber || p.Type == TypeInteger }

// Array is a list node. Items is nil only in malformed trees.
type Array struct {
	Presentation
	Items    Node
	MinItems *int
	MaxItems *int
}

func (*Array) Kind() Kind       { return KindArray }
func (*Array) TypeName() string { return string(TypeArray) }
func (*Array) sealed()          {}

// ObjectItems returns the item node when it is an object.
func (a *Array) ObjectItems() (*Object, bool) {
	obj, ok := a.Items.(*Object)
	return obj, ok
}

// Object is a record node with ordered properties.
type Object struct {
	Presentation
	Properties *Properties
	Required   []string
	// AdditionalProperties is nil when unspecified; only an explicit false
	// forbids unknown fields.
	AdditionalProperties *bool
}

func (*Object) Kind() Kind       { return KindObject }
func (*Object) TypeName() string { return string(TypeObject) }
func (*Object) sealed()          {}

// NewObject returns an empty object node.
func NewObject() *Object {
	return &Object{Properties: NewProperties()}
}

// IsRequired checks if a property is listed in the object's required set.
func (o *Object) IsRequired(name string) bool {
	for _, req := range o.Required {
		if req == name {
			return true
		}
	}
	return false
}

// ForbidsAdditional reports whether unknown fields must be rejected.
func (o *Object) ForbidsAdditional() bool {
	return o.AdditionalProperties != nil && !*o.AdditionalProperties
}

// Opaque carries a node whose type this version does not understand. Attrs
// holds every attribute other than the presentation fields.
type Opaque struct {
	Presentation
	Type  string
	Attrs *OrderedMap
}

func (*Opaque) Kind() Kind         { return KindOpaque }
func (o *Opaque) TypeName() string { return o.Type }
func (*Opaque) sealed()            {}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool { return &v }
