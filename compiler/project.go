package compiler

import (
	"strings"
	"unicode/utf8"

	"github.com/BaSui01/extractflow/schema"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// Truncation describes one applied length cap.
type Truncation struct {
	Section        string
	Path           string
	OriginalLength int
	MaxLength      int
}

// TruncationRecorder receives truncation events. It may be nil.
type TruncationRecorder func(Truncation)

// Truncate caps s at limit runes and appends Ellipsis. A string that is
// already the output of Truncate for the same cap is returned unchanged, so
// truncation is idempotent. A non-positive limit disables the cap.
func Truncate(s string, limit int) (string, bool) {
	if limit <= 0 {
		return s, false
	}
	n := utf8.RuneCountInString(s)
	if n <= limit {
		return s, false
	}
	if n == limit+utf8.RuneCountInString(Ellipsis) && strings.HasSuffix(s, Ellipsis) {
		return s, false
	}
	runes := []rune(s)
	return string(runes[:limit]) + Ellipsis, true
}

// GuidanceView projects the node into the view the model extracts with.
// Objects keep type, title and required. Fields keep type, format, title,
// enum, items and extraction instructions capped at maxInstructions runes.
func GuidanceView(n schema.Node, maxInstructions int, record TruncationRecorder) *schema.OrderedMap {
	p := projector{guidance: true, maxInstructions: maxInstructions, record: record}
	return p.project(n, schema.Root)
}

// StructureView projects the node into its bare shape: type, format, title,
// enum, items, properties and required.
func StructureView(n schema.Node) *schema.OrderedMap {
	p := projector{}
	return p.project(n, schema.Root)
}

type projector struct {
	guidance        bool
	maxInstructions int
	record          TruncationRecorder
}

func (p projector) project(n schema.Node, path string) *schema.OrderedMap {
	out := schema.NewOrderedMap()
	if n == nil {
		return out
	}
	if typ := n.TypeName(); typ != "" {
		out.Set("type", typ)
	}
	prim, isPrimitive := n.(*schema.Primitive)
	if isPrimitive && prim.Format != "" {
		out.Set("format", string(prim.Format))
	}
	meta := n.Meta()
	if meta.Title != "" {
		out.Set("title", meta.Title)
	}
	if isPrimitive && prim.HasEnum() {
		out.Set("enum", append([]any(nil), prim.Enum...))
	}
	if p.guidance && meta.ExtractionInstructions != "" {
		out.Set("extractionInstructions", p.instructions(meta.ExtractionInstructions, path))
	}

	switch node := n.(type) {
	case *schema.Array:
		if node.Items != nil {
			out.Set("items", p.project(node.Items, schema.ItemsPath(path)))
		}
	case *schema.Object:
		props := schema.NewOrderedMap()
		for _, name := range node.Properties.Ordered() {
			child, _ := node.Properties.Get(name)
			props.Set(name, p.project(child, schema.PropertyPath(path, name)))
		}
		out.Set("properties", props)
		if len(node.Required) > 0 {
			out.Set("required", append([]string(nil), node.Required...))
		}
	}
	return out
}

func (p projector) instructions(text, path string) string {
	capped, truncated := Truncate(text, p.maxInstructions)
	if truncated && p.record != nil {
		p.record(Truncation{
			Section:        "instructions",
			Path:           path,
			OriginalLength: utf8.RuneCountInString(text),
			MaxLength:      p.maxInstructions,
		})
	}
	return capped
}
