package schema

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/BaSui01/extractflow/internal/pool"
)

// ToValue converts a node into its ordered generic form. Keys follow a fixed
// canonical order so the encoding never depends on map iteration.
func ToValue(n Node) *OrderedMap {
	out := NewOrderedMap()
	if n == nil {
		return out
	}
	setString(out, "type", n.TypeName())
	if prim, ok := n.(*Primitive); ok && prim.Format != "" {
		out.Set("format", string(prim.Format))
	}

	meta := n.Meta()
	setString(out, "title", meta.Title)
	setString(out, "displayName", meta.DisplayName)
	setString(out, "description", meta.Description)
	setString(out, "importance", string(meta.Importance))
	if meta.Order != nil {
		out.Set("order", *meta.Order)
	}

	switch node := n.(type) {
	case *Primitive:
		if node.HasEnum() {
			out.Set("enum", append([]any(nil), node.Enum...))
		}
		setIntPtr(out, "minLength", node.MinLength)
		setIntPtr(out, "maxLength", node.MaxLength)
		setFloatPtr(out, "minimum", node.Minimum)
		setFloatPtr(out, "maximum", node.Maximum)
	case *Array:
		setIntPtr(out, "minItems", node.MinItems)
		setIntPtr(out, "maxItems", node.MaxItems)
	}

	setString(out, "extractionInstructions", meta.ExtractionInstructions)
	if len(meta.Examples) > 0 {
		examples := make([]any, len(meta.Examples))
		for i, ex := range meta.Examples {
			m := NewOrderedMap()
			m.Set("id", ex.ID)
			m.Set("input", ex.Input)
			m.Set("output", ex.Output)
			examples[i] = m
		}
		out.Set("examples", examples)
	}

	switch node := n.(type) {
	case *Array:
		if node.Items != nil {
			out.Set("items", ToValue(node.Items))
		}
	case *Object:
		props := NewOrderedMap()
		node.Properties.Each(func(name string, child Node) {
			props.Set(name, ToValue(child))
		})
		out.Set("properties", props)
		if len(node.Required) > 0 {
			out.Set("required", append([]string(nil), node.Required...))
		}
		if node.AdditionalProperties != nil {
			out.Set("additionalProperties", *node.AdditionalProperties)
		}
	case *Opaque:
		for _, key := range node.Attrs.Keys() {
			v, _ := node.Attrs.Get(key)
			out.Set(key, v)
		}
	}
	return out
}

func setString(m *OrderedMap, key, value string) {
	if value != "" {
		m.Set(key, value)
	}
}

func setIntPtr(m *OrderedMap, key string, value *int) {
	if value != nil {
		m.Set(key, *value)
	}
}

func setFloatPtr(m *OrderedMap, key string, value *float64) {
	if value != nil {
		m.Set(key, *value)
	}
}

// Marshal encodes a node as compact canonical JSON.
func Marshal(n Node) ([]byte, error) {
	return encodeCompact(ToValue(n))
}

// MarshalIndent encodes a node as indented canonical JSON.
func MarshalIndent(n Node, indent string) ([]byte, error) {
	return EncodeValue(ToValue(n), indent)
}

// EncodeValue encodes a generic value. Ordered maps keep their key order and
// plain maps are sorted by key. An empty indent produces compact output.
func EncodeValue(v any, indent string) ([]byte, error) {
	e := &encoder{indent: indent}
	if err := e.value(v, 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

func encodeCompact(v any) ([]byte, error) {
	return EncodeValue(v, "")
}

// MarshalJSON implements json.Marshaler.
func (m *OrderedMap) MarshalJSON() ([]byte, error) { return encodeCompact(m) }

// MarshalJSON implements json.Marshaler.
func (o *Object) MarshalJSON() ([]byte, error) { return Marshal(o) }

// MarshalJSON implements json.Marshaler.
func (a *Array) MarshalJSON() ([]byte, error) { return Marshal(a) }

// MarshalJSON implements json.Marshaler.
func (p *Primitive) MarshalJSON() ([]byte, error) { return Marshal(p) }

// MarshalJSON implements json.Marshaler.
func (o *Opaque) MarshalJSON() ([]byte, error) { return Marshal(o) }

// UnmarshalJSON implements json.Unmarshaler, preserving property order.
func (o *Object) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*o = *parsed
	return nil
}

type encoder struct {
	buf    bytes.Buffer
	indent string
}

func (e *encoder) newline(depth int) {
	if e.indent == "" {
		return
	}
	e.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.buf.WriteString(e.indent)
	}
}

func (e *encoder) value(v any, depth int) error {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case *OrderedMap:
		return e.object(t, depth)
	case map[string]any:
		m, _ := asObject(t)
		return e.object(m, depth)
	case []any:
		return e.array(len(t), func(i int) any { return t[i] }, depth)
	case []string:
		return e.array(len(t), func(i int) any { return t[i] }, depth)
	case string:
		return e.str(t)
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case int:
		e.buf.WriteString(strconv.Itoa(t))
	case int64:
		e.buf.WriteString(strconv.FormatInt(t, 10))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("unsupported number %v", t)
		}
		e.buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case Node:
		return e.object(ToValue(t), depth)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return err
		}
		e.buf.Write(data)
	}
	return nil
}

func (e *encoder) object(m *OrderedMap, depth int) error {
	if m.Len() == 0 {
		e.buf.WriteString("{}")
		return nil
	}
	e.buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.str(key); err != nil {
			return err
		}
		e.buf.WriteByte(':')
		if e.indent != "" {
			e.buf.WriteByte(' ')
		}
		if err := e.value(m.values[key], depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) array(n int, at func(int) any, depth int) error {
	if n == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	e.buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.value(at(i), depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) str(s string) error {
	tmp := pool.ByteBufferPool.Get()
	defer pool.ByteBufferPool.Put(tmp)
	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	e.buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
