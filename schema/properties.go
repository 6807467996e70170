package schema

import "sort"

// Properties is an insertion-ordered name → Node map. Lookups never depend
// on Go map iteration order.
type Properties struct {
	names []string
	nodes map[string]Node
}

// NewProperties returns an empty property set.
func NewProperties() *Properties {
	return &Properties{nodes: make(map[string]Node)}
}

// Set adds or replaces a property. A replaced property keeps its position.
func (p *Properties) Set(name string, node Node) {
	if p.nodes == nil {
		p.nodes = make(map[string]Node)
	}
	if _, ok := p.nodes[name]; !ok {
		p.names = append(p.names, name)
	}
	p.nodes[name] = node
}

// Get returns the property node by name.
func (p *Properties) Get(name string) (Node, bool) {
	if p == nil {
		return nil, false
	}
	n, ok := p.nodes[name]
	return n, ok
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Names returns property names in insertion order.
func (p *Properties) Names() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Each calls fn for every property in insertion order.
func (p *Properties) Each(fn func(name string, node Node)) {
	if p == nil {
		return
	}
	for _, name := range p.names {
		fn(name, p.nodes[name])
	}
}

// Ordered returns property names sorted by their node's Order. Nodes without
// an Order keep their encounter order and go after every ordered node.
func (p *Properties) Ordered() []string {
	names := p.Names()
	sort.SliceStable(names, func(i, j int) bool {
		oi := p.nodes[names[i]].Meta().Order
		oj := p.nodes[names[j]].Meta().Order
		switch {
		case oi == nil:
			return false
		case oj == nil:
			return true
		default:
			return *oi < *oj
		}
	})
	return names
}

// Equal compares two property sets by their canonical encoding.
func (p *Properties) Equal(other *Properties) bool {
	if p.Len() != other.Len() {
		return false
	}
	a := NewObject()
	a.Properties = p
	b := NewObject()
	b.Properties = other
	ab, errA := Marshal(a)
	bb, errB := Marshal(b)
	return errA == nil && errB == nil && string(ab) == string(bb)
}

// OrderedMap is a generic object value that remembers key order. It is what
// Parse and ParseYAML produce for JSON/YAML objects, and what the canonical
// encoder consumes.
type OrderedMap struct {
	keys   []string
	values map[string]any
}

// NewOrderedMap returns an empty ordered map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]any)}
}

// Set adds or replaces a key, keeping the original position on replace.
func (m *OrderedMap) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *OrderedMap) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns keys in insertion order.
func (m *OrderedMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys.
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// asObject views v as an ordered object. Plain maps are ordered by key so
// that results stay deterministic.
func asObject(v any) (*OrderedMap, bool) {
	switch m := v.(type) {
	case *OrderedMap:
		return m, m != nil
	case map[string]any:
		if m == nil {
			return nil, false
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		om := NewOrderedMap()
		for _, k := range keys {
			om.Set(k, m[k])
		}
		return om, true
	}
	return nil, false
}
