package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/BaSui01/extractflow/compiler"
	"github.com/BaSui01/extractflow/schema"
	"github.com/BaSui01/extractflow/types"
)

// Section markers.
const (
	HeaderGeneralInstructions = "# General Instructions"
	HeaderDataStructure       = "# Data Structure"
	HeaderFieldGuidance       = "# Field-Specific Extraction Guidance"
	LabelImportance           = "**Importance:**"
	LabelInstructions         = "**Extraction Instructions:**"
	LabelObjectStructure      = "**Object Structure:**"
	LabelExamples             = "**Examples:**"
	QualifierObjectList       = "(List of Objects)"
)

// Mode selects which view fills the data structure section.
type Mode string

const (
	ModeStructure Mode = "structure"
	ModeGuidance  Mode = "guidance"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == ModeStructure || m == ModeGuidance }

// Request is the input of Compose.
type Request struct {
	GeneralInstructions string
	Schema              *compiler.CompiledSchema
	// Mode overrides the composer default when set.
	Mode Mode
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTruncationRecorder receives every applied cap, typically
// (*compiler.Compiler).RecordTruncation.
func WithTruncationRecorder(record compiler.TruncationRecorder) Option {
	return func(c *Composer) {
		c.record = record
	}
}

// WithMode sets the default mode.
func WithMode(mode Mode) Option {
	return func(c *Composer) {
		if mode.Valid() {
			c.mode = mode
		}
	}
}

// WithInstructionsMaxLength overrides the per-field instructions cap.
func WithInstructionsMaxLength(n int) Option {
	return func(c *Composer) {
		if n > 0 {
			c.instructionsMax = n
		}
	}
}

// WithGeneralInstructionsMaxLength overrides the general instructions cap.
func WithGeneralInstructionsMaxLength(n int) Option {
	return func(c *Composer) {
		if n > 0 {
			c.generalMax = n
		}
	}
}

// Composer builds extraction prompts. It is stateless apart from its
// configuration and may be shared.
type Composer struct {
	logger          *zap.Logger
	record          compiler.TruncationRecorder
	mode            Mode
	instructionsMax int
	generalMax      int
}

// NewComposer creates a Composer.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		logger:          zap.NewNop(),
		mode:            ModeStructure,
		instructionsMax: compiler.DefaultInstructionsMaxLength,
		generalMax:      compiler.DefaultGeneralInstructionsMaxLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("component", "prompt"))
	return c
}

// Compose renders the prompt for req.
func (c *Composer) Compose(req Request) (string, error) {
	if req.Schema == nil {
		return "", types.NewError(types.ErrSchemaShape, "a compiled schema is required")
	}
	mode := c.mode
	if req.Mode != "" {
		if !req.Mode.Valid() {
			return "", types.NewError(types.ErrInternalError, fmt.Sprintf("unknown prompt mode %q", req.Mode))
		}
		mode = req.Mode
	}

	var sections []string
	if general := strings.TrimSpace(req.GeneralInstructions); general != "" {
		general = c.truncate(general, c.generalMax, compiler.SectionGeneralInstructions, "")
		sections = append(sections, HeaderGeneralInstructions+"\n"+general)
	}

	view := req.Schema.Structure()
	if mode == ModeGuidance {
		view = req.Schema.Guidance()
	}
	data, err := schema.EncodeValue(view, "  ")
	if err != nil {
		return "", fmt.Errorf("encode %s view: %w", mode, err)
	}
	sections = append(sections, HeaderDataStructure+"\n"+string(data))

	if guidance := c.fieldGuidance(req.Schema.Wire()); len(guidance) > 0 {
		sections = append(sections, HeaderFieldGuidance+"\n\n"+strings.Join(guidance, "\n\n"))
	}
	return strings.Join(sections, "\n\n"), nil
}

func (c *Composer) fieldGuidance(wire *schema.Object) []string {
	var out []string
	for _, name := range wire.Properties.Ordered() {
		node, _ := wire.Properties.Get(name)
		meta := node.Meta()
		items, isObjectList := objectItems(node)
		if !hasGuidance(meta) && !(isObjectList && childrenHaveGuidance(items)) {
			continue
		}

		header := "## " + label(name, meta)
		if isObjectList {
			header += " " + QualifierObjectList
		}
		lines := []string{header}
		if meta.Importance != "" {
			lines = append(lines, LabelImportance+" "+string(meta.Importance))
		}
		path := schema.PropertyPath(schema.Root, name)
		if meta.ExtractionInstructions != "" {
			text := c.truncate(meta.ExtractionInstructions, c.instructionsMax, compiler.SectionInstructions, path)
			lines = append(lines, LabelInstructions, text)
		}
		if isObjectList {
			lines = append(lines, LabelObjectStructure)
			lines = append(lines, c.objectStructure(items, schema.ItemsPath(path))...)
		}
		if len(meta.Examples) > 0 {
			lines = append(lines, LabelExamples)
			for i, ex := range meta.Examples {
				lines = append(lines,
					fmt.Sprintf("Example %d:", i+1),
					"Input: "+ex.Input,
					"Output:",
					formatOutput(name, ex.Output),
				)
			}
		}
		out = append(out, strings.Join(lines, "\n"))
	}
	return out
}

// objectStructure lists the item fields of an object list. Child
// instructions and examples are indented under their field.
func (c *Composer) objectStructure(items *schema.Object, itemsPath string) []string {
	var lines []string
	for _, child := range items.Properties.Ordered() {
		childNode, _ := items.Properties.Get(child)
		childMeta := childNode.Meta()
		line := fmt.Sprintf("- %s (%s)", child, typeLabel(childNode))
		if childMeta.Description != "" {
			line += ": " + childMeta.Description
		}
		lines = append(lines, line)
		if childMeta.ExtractionInstructions != "" {
			text := c.truncate(childMeta.ExtractionInstructions, c.instructionsMax, compiler.SectionInstructions, schema.PropertyPath(itemsPath, child))
			lines = append(lines, "  "+LabelInstructions+" "+text)
		}
		if len(childMeta.Examples) > 0 {
			lines = append(lines, "  "+LabelExamples)
			for i, ex := range childMeta.Examples {
				lines = append(lines, fmt.Sprintf("  Example %d: Input: %s | Output: %s", i+1, ex.Input, ex.Output))
			}
		}
	}
	return lines
}

func hasGuidance(meta *schema.Presentation) bool {
	return meta.ExtractionInstructions != "" || len(meta.Examples) > 0
}

func childrenHaveGuidance(items *schema.Object) bool {
	for _, child := range items.Properties.Ordered() {
		node, _ := items.Properties.Get(child)
		if hasGuidance(node.Meta()) {
			return true
		}
	}
	return false
}

func (c *Composer) truncate(text string, limit int, section, path string) string {
	capped, truncated := compiler.Truncate(text, limit)
	if !truncated {
		return text
	}
	event := compiler.Truncation{
		Section:        section,
		Path:           path,
		OriginalLength: utf8.RuneCountInString(text),
		MaxLength:      limit,
	}
	if c.record != nil {
		c.record(event)
	}
	c.logger.Debug("prompt text truncated",
		zap.String("section", event.Section),
		zap.String("path", event.Path),
		zap.Int("original_length", event.OriginalLength),
		zap.Int("max_length", event.MaxLength),
	)
	return capped
}

// label picks displayName, then title, then the field name.
func label(name string, meta *schema.Presentation) string {
	switch {
	case meta.DisplayName != "":
		return meta.DisplayName
	case meta.Title != "":
		return meta.Title
	}
	return name
}

func objectItems(n schema.Node) (*schema.Object, bool) {
	arr, ok := n.(*schema.Array)
	if !ok {
		return nil, false
	}
	return arr.ObjectItems()
}

func typeLabel(n schema.Node) string {
	switch node := n.(type) {
	case *schema.Primitive:
		if node.IsDate() {
			return "date"
		}
		return string(node.Type)
	case *schema.Array:
		if node.Items == nil {
			return "list"
		}
		return "list of " + typeLabel(node.Items)
	}
	return n.TypeName()
}

// formatOutput renders an example output. Structured outputs are printed as
// indented JSON; scalars are wrapped under the field name.
func formatOutput(field, output string) string {
	value, err := schema.DecodeJSONValue([]byte(output))
	if err == nil {
		switch value.(type) {
		case *schema.OrderedMap, []any:
			if data, encErr := schema.EncodeValue(value, "  "); encErr == nil {
				return string(data)
			}
		}
	} else {
		value = output
	}
	wrapped := schema.NewOrderedMap()
	wrapped.Set(field, value)
	data, err := schema.EncodeValue(wrapped, "  ")
	if err != nil {
		return output
	}
	return string(data)
}
