package schema

// Clone returns a deep copy of the node.
func Clone(n Node) Node {
	switch node := n.(type) {
	case *Primitive:
		out := *node
		out.Presentation = clonePresentation(node.Presentation)
		out.Enum = append([]any(nil), node.Enum...)
		out.MinLength = cloneInt(node.MinLength)
		out.MaxLength = cloneInt(node.MaxLength)
		out.Minimum = cloneFloat(node.Minimum)
		out.Maximum = cloneFloat(node.Maximum)
		return &out
	case *Array:
		out := *node
		out.Presentation = clonePresentation(node.Presentation)
		out.Items = Clone(node.Items)
		out.MinItems = cloneInt(node.MinItems)
		out.MaxItems = cloneInt(node.MaxItems)
		return &out
	case *Object:
		return CloneObject(node)
	case *Opaque:
		out := *node
		out.Presentation = clonePresentation(node.Presentation)
		out.Attrs = node.Attrs.Clone()
		if out.Attrs == nil {
			out.Attrs = NewOrderedMap()
		}
		return &out
	}
	return nil
}

// CloneObject returns a deep copy of an object node.
func CloneObject(o *Object) *Object {
	if o == nil {
		return nil
	}
	out := &Object{
		Presentation: clonePresentation(o.Presentation),
		Properties:   NewProperties(),
		Required:     append([]string(nil), o.Required...),
	}
	if o.AdditionalProperties != nil {
		out.AdditionalProperties = BoolPtr(*o.AdditionalProperties)
	}
	o.Properties.Each(func(name string, child Node) {
		out.Properties.Set(name, Clone(child))
	})
	return out
}

func clonePresentation(p Presentation) Presentation {
	out := p
	out.Order = cloneInt(p.Order)
	if p.Examples != nil {
		out.Examples = append([]Example(nil), p.Examples...)
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Clone returns a deep copy of the map. Nested ordered maps and slices are
// copied; scalars are shared.
func (m *OrderedMap) Clone() *OrderedMap {
	if m == nil {
		return nil
	}
	out := NewOrderedMap()
	for _, k := range m.keys {
		out.Set(k, cloneValue(m.values[k]))
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *OrderedMap:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return v
}
