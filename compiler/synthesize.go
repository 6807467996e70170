package compiler

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"sort"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/BaSui01/extractflow/schema"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// checker is one node of the synthesized validator. The tree of checkers
// mirrors the wire tree and is built once per schema.
type checker interface {
	check(value any, path string, out *[]Mismatch)
	expected() string
}

// Validator checks records against a wire schema. It is immutable and safe
// for concurrent use.
type Validator struct {
	root *objectChecker
}

// Synthesize builds a validator from the wire tree. It fails only when the
// tree itself is malformed.
func Synthesize(root *schema.Object) (*Validator, error) {
	if root == nil {
		return nil, schema.Malformed(schema.Root, "schema is nil")
	}
	obj, err := buildObject(root, schema.Root)
	if err != nil {
		return nil, err
	}
	return &Validator{root: obj}, nil
}

// Validate returns nil when the record matches, or a *MismatchError listing
// every mismatch.
func (v *Validator) Validate(record any) error {
	if ms := v.Check(record); len(ms) > 0 {
		return &MismatchError{Mismatches: ms}
	}
	return nil
}

// Check returns every mismatch for the record, or nil.
func (v *Validator) Check(record any) []Mismatch {
	var out []Mismatch
	v.root.check(record, "", &out)
	return out
}

// ValidateJSON decodes data with number preservation and validates it.
func (v *Validator) ValidateJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var record any
	if err := dec.Decode(&record); err != nil {
		return &MismatchError{Mismatches: []Mismatch{{
			Expected: "JSON object",
			Actual:   "invalid JSON",
			Message:  fmt.Sprintf("invalid JSON: %v", err),
		}}}
	}
	return v.Validate(record)
}

// CheckTopLevel only checks that required top-level fields are present and
// non-null, and that present top-level fields have the declared kind. Nested
// structure is not inspected.
func (v *Validator) CheckTopLevel(record map[string]any) []Mismatch {
	var out []Mismatch
	for _, f := range v.root.fields {
		value, ok := record[f.name]
		if value == nil {
			if f.required {
				msg := "required field is missing"
				if ok {
					msg = "required field must not be null"
				}
				out = append(out, Mismatch{Path: f.name, Expected: f.check.expected(), Actual: kindOf(value), Message: msg})
			}
			continue
		}
		if !kindMatches(f.check, value) {
			out = append(out, Mismatch{
				Path:     f.name,
				Expected: f.check.expected(),
				Actual:   kindOf(value),
				Message:  fmt.Sprintf("expected %s, got %s", f.check.expected(), kindOf(value)),
			})
		}
	}
	return out
}

// Fields returns the declared top-level field names in property order.
func (v *Validator) Fields() []string {
	names := make([]string, len(v.root.fields))
	for i, f := range v.root.fields {
		names[i] = f.name
	}
	return names
}

func build(n schema.Node, path string) (checker, error) {
	switch node := n.(type) {
	case *schema.Primitive:
		return buildPrimitive(node), nil
	case *schema.Array:
		if node.Items == nil {
			return nil, schema.Malformed(path, "array node has no items")
		}
		items, err := build(node.Items, schema.ItemsPath(path))
		if err != nil {
			return nil, err
		}
		return &arrayChecker{items: items, minItems: node.MinItems, maxItems: node.MaxItems}, nil
	case *schema.Object:
		return buildObject(node, path)
	case *schema.Opaque:
		return anyChecker{name: node.Type}, nil
	case nil:
		return nil, schema.Malformed(path, "node is nil")
	}
	return nil, schema.Malformed(path, "unsupported node %T", n)
}

func buildObject(o *schema.Object, path string) (*objectChecker, error) {
	c := &objectChecker{closed: o.ForbidsAdditional(), declared: make(map[string]bool)}
	for _, name := range o.Properties.Ordered() {
		node, _ := o.Properties.Get(name)
		child, err := build(node, schema.PropertyPath(path, name))
		if err != nil {
			return nil, err
		}
		c.fields = append(c.fields, fieldCheck{name: name, required: o.IsRequired(name), check: child})
		c.declared[name] = true
	}
	// Required names without a declared property still have to be present.
	for _, name := range o.Required {
		if !c.declared[name] {
			c.fields = append(c.fields, fieldCheck{name: name, required: true, check: anyChecker{}})
			c.declared[name] = true
		}
	}
	return c, nil
}

func buildPrimitive(p *schema.Primitive) checker {
	return &primitiveChecker{
		typ:       p.Type,
		date:      p.IsDate(),
		enum:      p.Enum,
		minLength: p.MinLength,
		maxLength: p.MaxLength,
		minimum:   p.Minimum,
		maximum:   p.Maximum,
	}
}

type fieldCheck struct {
	name     string
	required bool
	check    checker
}

type objectChecker struct {
	fields   []fieldCheck
	declared map[string]bool
	closed   bool
}

func (c *objectChecker) expected() string { return "object" }

func (c *objectChecker) check(value any, path string, out *[]Mismatch) {
	obj, ok := value.(map[string]any)
	if !ok {
		*out = append(*out, typeMismatch(path, c.expected(), value))
		return
	}
	for _, f := range c.fields {
		fieldPath := joinPath(path, f.name)
		v, present := obj[f.name]
		if v == nil {
			if f.required {
				msg := "required field is missing"
				if present {
					msg = "required field must not be null"
				}
				*out = append(*out, Mismatch{Path: fieldPath, Expected: f.check.expected(), Actual: kindOf(v), Message: msg})
			}
			continue
		}
		f.check.check(v, fieldPath, out)
	}
	if !c.closed {
		return
	}
	var extra []string
	for k := range obj {
		if !c.declared[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		*out = append(*out, Mismatch{
			Path:     joinPath(path, k),
			Expected: "no additional properties",
			Actual:   kindOf(obj[k]),
			Message:  "additional property is not allowed",
		})
	}
}

type arrayChecker struct {
	items    checker
	minItems *int
	maxItems *int
}

func (c *arrayChecker) expected() string { return "array" }

func (c *arrayChecker) check(value any, path string, out *[]Mismatch) {
	arr, ok := value.([]any)
	if !ok {
		*out = append(*out, typeMismatch(path, c.expected(), value))
		return
	}
	if c.minItems != nil && len(arr) < *c.minItems {
		*out = append(*out, Mismatch{
			Path: path, Expected: fmt.Sprintf("at least %d items", *c.minItems), Actual: fmt.Sprintf("%d items", len(arr)),
			Message: fmt.Sprintf("array has %d items, minimum is %d", len(arr), *c.minItems),
		})
	}
	if c.maxItems != nil && len(arr) > *c.maxItems {
		*out = append(*out, Mismatch{
			Path: path, Expected: fmt.Sprintf("at most %d items", *c.maxItems), Actual: fmt.Sprintf("%d items", len(arr)),
			Message: fmt.Sprintf("array has %d items, maximum is %d", len(arr), *c.maxItems),
		})
	}
	for i, item := range arr {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		if item == nil {
			*out = append(*out, Mismatch{Path: itemPath, Expected: c.items.expected(), Actual: "null", Message: "array element must not be null"})
			continue
		}
		c.items.check(item, itemPath, out)
	}
}

type primitiveChecker struct {
	typ       schema.Type
	date      bool
	enum      []any
	minLength *int
	maxLength *int
	minimum   *float64
	maximum   *float64
}

func (c *primitiveChecker) expected() string {
	if c.date {
		return "date (YYYY-MM-DD)"
	}
	return string(c.typ)
}

func (c *primitiveChecker) check(value any, path string, out *[]Mismatch) {
	switch c.typ {
	case schema.TypeString:
		s, ok := value.(string)
		if !ok {
			*out = append(*out, typeMismatch(path, c.expected(), value))
			return
		}
		c.checkString(s, path, out)
	case schema.TypeNumber, schema.TypeInteger:
		num, ok := toFloat(value)
		if !ok {
			*out = append(*out, typeMismatch(path, c.expected(), value))
			return
		}
		if c.typ == schema.TypeInteger && num != math.Trunc(num) {
			*out = append(*out, Mismatch{Path: path, Expected: "integer", Actual: fmt.Sprint(num), Message: fmt.Sprintf("expected integer, got %v", num)})
			return
		}
		c.checkNumber(num, path, out)
	case schema.TypeBoolean:
		if _, ok := value.(bool); !ok {
			*out = append(*out, typeMismatch(path, c.expected(), value))
			return
		}
	}
	c.checkEnum(value, path, out)
}

func (c *primitiveChecker) checkString(s, path string, out *[]Mismatch) {
	if c.date && !datePattern.MatchString(s) {
		*out = append(*out, Mismatch{Path: path, Expected: c.expected(), Actual: quote(s), Message: fmt.Sprintf("%s is not a YYYY-MM-DD date", quote(s))})
	}
	n := utf8.RuneCountInString(s)
	if c.minLength != nil && n < *c.minLength {
		*out = append(*out, Mismatch{
			Path: path, Expected: fmt.Sprintf("length >= %d", *c.minLength), Actual: fmt.Sprintf("length %d", n),
			Message: fmt.Sprintf("string length %d is less than minimum %d", n, *c.minLength),
		})
	}
	if c.maxLength != nil && n > *c.maxLength {
		*out = append(*out, Mismatch{
			Path: path, Expected: fmt.Sprintf("length <= %d", *c.maxLength), Actual: fmt.Sprintf("length %d", n),
			Message: fmt.Sprintf("string length %d exceeds maximum %d", n, *c.maxLength),
		})
	}
}

func (c *primitiveChecker) checkNumber(num float64, path string, out *[]Mismatch) {
	if c.minimum != nil && num < *c.minimum {
		*out = append(*out, Mismatch{
			Path: path, Expected: fmt.Sprintf(">= %v", *c.minimum), Actual: fmt.Sprint(num),
			Message: fmt.Sprintf("value %v is less than minimum %v", num, *c.minimum),
		})
	}
	if c.maximum != nil && num > *c.maximum {
		*out = append(*out, Mismatch{
			Path: path, Expected: fmt.Sprintf("<= %v", *c.maximum), Actual: fmt.Sprint(num),
			Message: fmt.Sprintf("value %v exceeds maximum %v", num, *c.maximum),
		})
	}
}

func (c *primitiveChecker) checkEnum(value any, path string, out *[]Mismatch) {
	if len(c.enum) == 0 {
		return
	}
	for _, allowed := range c.enum {
		if equalValues(value, allowed) {
			return
		}
	}
	*out = append(*out, Mismatch{
		Path:     path,
		Expected: fmt.Sprintf("one of %v", c.enum),
		Actual:   fmt.Sprint(value),
		Message:  fmt.Sprintf("value must be one of: %v", c.enum),
	})
}

// anyChecker accepts every non-null value. It backs opaque nodes.
type anyChecker struct{ name string }

func (c anyChecker) expected() string {
	if c.name == "" {
		return "any"
	}
	return c.name
}

func (anyChecker) check(any, string, *[]Mismatch) {}

// kindMatches is the shallow counterpart of check: it only looks at the
// value's kind.
func kindMatches(c checker, value any) bool {
	switch ch := c.(type) {
	case *objectChecker:
		_, ok := value.(map[string]any)
		return ok
	case *arrayChecker:
		_, ok := value.([]any)
		return ok
	case *primitiveChecker:
		switch ch.typ {
		case schema.TypeString:
			_, ok := value.(string)
			return ok
		case schema.TypeNumber, schema.TypeInteger:
			_, ok := toFloat(value)
			return ok
		case schema.TypeBoolean:
			_, ok := value.(bool)
			return ok
		}
	}
	return true
}

func typeMismatch(path, expected string, value any) Mismatch {
	actual := kindOf(value)
	return Mismatch{Path: path, Expected: expected, Actual: actual, Message: fmt.Sprintf("expected %s, got %s", expected, actual)}
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	if _, ok := toFloat(value); ok {
		return "number"
	}
	return fmt.Sprintf("%T", value)
}

// numberLiteral covers json.Number from both encoding/json and go-json.
type numberLiteral interface {
	Float64() (float64, error)
	String() string
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case numberLiteral:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func equalValues(a, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && fa == fb
	}
	return a == b
}

func quote(s string) string {
	if r := []rune(s); len(r) > 40 {
		s = string(r[:40]) + "..."
	}
	return fmt.Sprintf("%q", s)
}
