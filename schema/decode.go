package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Parse decodes a JSON wire tree, keeping property order as written.
func Parse(data []byte) (*Object, error) {
	v, err := DecodeJSONValue(data)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// ParseYAML decodes a YAML wire tree, keeping property order as written.
func ParseYAML(data []byte) (*Object, error) {
	v, err := DecodeYAMLValue(data)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// DecodeJSONValue decodes arbitrary JSON into generic values where objects
// are *OrderedMap and numbers are float64.
func DecodeJSONValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	v, err := readJSONValue(dec, tok)
	if err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse JSON: unexpected trailing data")
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewOrderedMap()
			for {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				if d, ok := keyTok.(json.Delim); ok && d == '}' {
					return m, nil
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				valTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := readJSONValue(dec, valTok)
				if err != nil {
					return nil, err
				}
				m.Set(key, val)
			}
		case '[':
			arr := []any{}
			for {
				itemTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				if d, ok := itemTok.(json.Delim); ok && d == ']' {
					return arr, nil
				}
				item, err := readJSONValue(dec, itemTok)
				if err != nil {
					return nil, err
				}
				arr = append(arr, item)
			}
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", string(t), err)
		}
		return f, nil
	default:
		return tok, nil
	}
}

// DecodeYAMLValue decodes arbitrary YAML into generic values where mappings
// are *OrderedMap.
func DecodeYAMLValue(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("parse YAML: empty document")
	}
	return yamlValue(doc.Content[0])
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		m := NewOrderedMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			val, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(n.Content[i].Value, val)
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, item)
		}
		return arr, nil
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if i, ok := v.(int); ok {
			return float64(i), nil
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

// Decode builds a wire tree from a generic value. The value is first run
// through CheckShape, so a *ShapeError lists every structural problem; a
// *MalformedNodeError reports values that pass the shape check but cannot be
// represented (for example a fractional order).
func Decode(def any) (*Object, error) {
	if err := CheckShape(def); err != nil {
		return nil, err
	}
	raw, _ := asObject(def)
	node, err := decodeNode(raw, Root)
	if err != nil {
		return nil, err
	}
	return node.(*Object), nil
}

func decodeNode(raw *OrderedMap, path string) (Node, error) {
	typeName, _ := raw.Get("type")
	tn, _ := typeName.(string)

	var pres Presentation
	if err := decodePresentation(raw, path, &pres); err != nil {
		return nil, err
	}

	switch Type(tn) {
	case TypeObject:
		obj := NewObject()
		obj.Presentation = pres
		if rawProps, ok := raw.Get("properties"); ok {
			props, _ := asObject(rawProps)
			for _, name := range props.Keys() {
				child, _ := props.Get(name)
				childRaw, _ := asObject(child)
				node, err := decodeNode(childRaw, PropertyPath(path, name))
				if err != nil {
					return nil, err
				}
				obj.Properties.Set(name, node)
			}
		}
		if rawRequired, ok := raw.Get("required"); ok {
			obj.Required, _ = stringList(rawRequired)
		}
		if rawAdditional, ok := raw.Get("additionalProperties"); ok {
			if b, isBool := rawAdditional.(bool); isBool {
				obj.AdditionalProperties = BoolPtr(b)
			}
		}
		return obj, nil

	case TypeArray:
		arr := &Array{Presentation: pres}
		if rawItems, ok := raw.Get("items"); ok {
			itemsRaw, _ := asObject(rawItems)
			items, err := decodeNode(itemsRaw, ItemsPath(path))
			if err != nil {
				return nil, err
			}
			arr.Items = items
		}
		var err error
		if arr.MinItems, err = optionalInt(raw, "minItems", path); err != nil {
			return nil, err
		}
		if arr.MaxItems, err = optionalInt(raw, "maxItems", path); err != nil {
			return nil, err
		}
		return arr, nil

	case TypeString, TypeNumber, TypeInteger, TypeBoolean:
		prim := &Primitive{Presentation: pres, Type: Type(tn)}
		if f, ok := raw.Get("format"); ok {
			s, _ := f.(string)
			prim.Format = Format(s)
		}
		if e, ok := raw.Get("enum"); ok {
			list, isList := e.([]any)
			if !isList {
				return nil, Malformed(path+".enum", "enum must be an array")
			}
			prim.Enum = append([]any(nil), list...)
		}
		var err error
		if prim.MinLength, err = optionalInt(raw, "minLength", path); err != nil {
			return nil, err
		}
		if prim.MaxLength, err = optionalInt(raw, "maxLength", path); err != nil {
			return nil, err
		}
		if prim.Minimum, err = optionalFloat(raw, "minimum", path); err != nil {
			return nil, err
		}
		if prim.Maximum, err = optionalFloat(raw, "maximum", path); err != nil {
			return nil, err
		}
		return prim, nil
	}

	opaque := &Opaque{Presentation: pres, Type: tn, Attrs: NewOrderedMap()}
	for _, key := range raw.Keys() {
		if key == "type" || isPresentationKey(key) {
			continue
		}
		v, _ := raw.Get(key)
		opaque.Attrs.Set(key, v)
	}
	return opaque, nil
}

func decodePresentation(raw *OrderedMap, path string, p *Presentation) error {
	p.Title = stringAttr(raw, "title")
	p.Description = stringAttr(raw, "description")
	p.Importance = Importance(stringAttr(raw, "importance"))
	p.ExtractionInstructions = stringAttr(raw, "extractionInstructions")
	p.DisplayName = stringAttr(raw, "displayName")

	order, err := optionalInt(raw, "order", path)
	if err != nil {
		return err
	}
	if order != nil && *order < 0 {
		return Malformed(path+".order", "order must be a non-negative integer, got %d", *order)
	}
	p.Order = order

	rawExamples, ok := raw.Get("examples")
	if !ok {
		return nil
	}
	list, isList := rawExamples.([]any)
	if !isList {
		return Malformed(path+".examples", "examples must be an array")
	}
	for i, item := range list {
		ex, isObj := asObject(item)
		if !isObj {
			return Malformed(fmt.Sprintf("%s.examples[%d]", path, i), "example must be an object")
		}
		p.Examples = append(p.Examples, Example{
			ID:     textOf(ex, "id"),
			Input:  textOf(ex, "input"),
			Output: textOf(ex, "output"),
		})
	}
	return nil
}

var presentationKeys = map[string]bool{
	"title":                  true,
	"description":            true,
	"importance":             true,
	"extractionInstructions": true,
	"displayName":            true,
	"examples":               true,
	"order":                  true,
}

func isPresentationKey(key string) bool { return presentationKeys[key] }

func stringAttr(raw *OrderedMap, key string) string {
	v, _ := raw.Get(key)
	s, _ := v.(string)
	return s
}

// textOf renders an example attribute as text; structured values are
// serialized as compact JSON.
func textOf(raw *OrderedMap, key string) string {
	v, ok := raw.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, isString := v.(string); isString {
		return s
	}
	data, err := encodeCompact(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func optionalInt(raw *OrderedMap, key, path string) (*int, error) {
	v, ok := raw.Get(key)
	if !ok || v == nil {
		return nil, nil
	}
	f, isNum := toFloat(v)
	if !isNum || f != math.Trunc(f) {
		return nil, Malformed(path+"."+key, "%s must be an integer", key)
	}
	i := int(f)
	return &i, nil
}

func optionalFloat(raw *OrderedMap, key, path string) (*float64, error) {
	v, ok := raw.Get(key)
	if !ok || v == nil {
		return nil, nil
	}
	f, isNum := toFloat(v)
	if !isNum {
		return nil, Malformed(path+"."+key, "%s must be a number", key)
	}
	return &f, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func stringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
