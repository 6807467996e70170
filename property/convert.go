package property

import (
	"fmt"

	"github.com/BaSui01/extractflow/schema"
)

// ToWire converts a property list into the wire schema tree. Every node gets
// its list index as order, and displayName mirrors title.
func ToWire(props []Property) (*schema.Object, error) {
	if err := Validate(props); err != nil {
		return nil, err
	}
	root := schema.NewObject()
	for i, p := range props {
		root.Properties.Set(p.Name, fieldNode(p.Field, i, p.Fields))
		if p.Required {
			root.Required = append(root.Required, p.Name)
		}
	}
	return root, nil
}

func fieldNode(f Field, order int, fields []Field) schema.Node {
	pres := schema.Presentation{
		Title:                  f.Title,
		DisplayName:            f.Title,
		Description:            f.Description,
		Importance:             f.Importance,
		ExtractionInstructions: f.ExtractionInstructions,
		Examples:               cloneExamples(f.Examples),
		Order:                  schema.IntPtr(order),
	}
	switch f.Type {
	case TypeString, TypeNumber, TypeBoolean:
		return &schema.Primitive{Presentation: pres, Type: schema.Type(f.Type)}
	case TypeDate:
		return &schema.Primitive{Presentation: pres, Type: schema.TypeString, Format: schema.FormatDate}
	case TypeList:
		return &schema.Array{Presentation: pres, Items: itemNode(f.ItemType, fields)}
	default:
		return &schema.Opaque{Presentation: pres, Type: string(f.Type), Attrs: schema.NewOrderedMap()}
	}
}

func itemNode(t ItemType, fields []Field) schema.Node {
	switch t {
	case ItemString, ItemNumber, ItemBoolean:
		return &schema.Primitive{Type: schema.Type(t)}
	case ItemDate:
		return &schema.Primitive{Type: schema.TypeString, Format: schema.FormatDate}
	case ItemObject:
		obj := schema.NewObject()
		for i, f := range fields {
			obj.Properties.Set(f.Name, fieldNode(f, i, nil))
			if f.Required {
				obj.Required = append(obj.Required, f.Name)
			}
		}
		return obj
	default:
		return &schema.Opaque{Type: string(t), Attrs: schema.NewOrderedMap()}
	}
}

// FromWire converts a wire tree back into a property list. Properties are
// returned in order; nodes without an order keep their encounter position
// after the ordered ones.
func FromWire(root *schema.Object) ([]Property, error) {
	if root == nil {
		return nil, schema.Malformed(schema.Root, "schema is nil")
	}
	if root.Properties == nil {
		return []Property{}, nil
	}
	names := root.Properties.Ordered()
	props := make([]Property, 0, len(names))
	for _, name := range names {
		node, _ := root.Properties.Get(name)
		p, err := propertyFromNode(name, node, root.IsRequired(name), schema.PropertyPath(schema.Root, name))
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, nil
}

func propertyFromNode(name string, node schema.Node, required bool, path string) (Property, error) {
	f, err := fieldFromNode(name, node, required, path, true)
	if err != nil {
		return Property{}, err
	}
	p := Property{Field: f}
	if f.ItemType != ItemObject {
		return p, nil
	}

	// fieldFromNode has already checked the shape of the item object.
	arr := node.(*schema.Array)
	items, _ := arr.ObjectItems()
	itemsPath := schema.ItemsPath(path)
	for _, childName := range items.Properties.Ordered() {
		child, _ := items.Properties.Get(childName)
		cf, err := fieldFromNode(childName, child, items.IsRequired(childName), schema.PropertyPath(itemsPath, childName), false)
		if err != nil {
			return Property{}, err
		}
		p.Fields = append(p.Fields, cf)
	}
	return p, nil
}

// fieldFromNode maps a single node. allowObjects is false for nodes that sit
// inside an object-list, where another object-list would exceed the nesting
// limit.
func fieldFromNode(name string, node schema.Node, required bool, path string, allowObjects bool) (Field, error) {
	if node == nil {
		return Field{}, schema.Malformed(path, "node is nil")
	}
	meta := node.Meta()
	f := Field{
		Name:                   name,
		Title:                  meta.Title,
		Description:            meta.Description,
		Importance:             meta.Importance,
		Required:               required,
		ExtractionInstructions: meta.ExtractionInstructions,
		Examples:               cloneExamples(meta.Examples),
	}

	switch n := node.(type) {
	case *schema.Primitive:
		f.Type = primitiveType(n)
	case *schema.Array:
		f.Type = TypeList
		itemType, err := arrayItemType(n, path, allowObjects)
		if err != nil {
			return Field{}, err
		}
		f.ItemType = itemType
	case *schema.Object:
		return Field{}, schema.Malformed(path, "object nodes outside a list of objects cannot be represented as properties")
	default:
		if node.TypeName() == "" {
			return Field{}, schema.Malformed(path, "node has no type")
		}
		f.Type = Type(node.TypeName())
	}
	return f, nil
}

func primitiveType(p *schema.Primitive) Type {
	switch {
	case p.IsDate():
		return TypeDate
	case p.IsNumeric():
		return TypeNumber
	default:
		return Type(p.Type)
	}
}

func arrayItemType(arr *schema.Array, path string, allowObjects bool) (ItemType, error) {
	switch items := arr.Items.(type) {
	case nil:
		return "", schema.Malformed(path, "array node has no items")
	case *schema.Primitive:
		return ItemType(primitiveType(items)), nil
	case *schema.Object:
		if !allowObjects {
			return "", schema.Malformed(path, "a list of objects cannot be nested inside a list of objects")
		}
		if items.Properties.Len() == 0 {
			return "", schema.Malformed(schema.ItemsPath(path), "object items have no properties")
		}
		return ItemObject, nil
	case *schema.Array:
		return "", schema.Malformed(schema.ItemsPath(path), "lists of lists cannot be represented as properties")
	default:
		return ItemType(items.TypeName()), nil
	}
}

func cloneExamples(in []schema.Example) []schema.Example {
	if in == nil {
		return nil
	}
	return append(make([]schema.Example, 0, len(in)), in...)
}

// Names returns the property names in order, for logs and metadata.
func Names(props []Property) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return names
}

// String is used by the CLI listing.
func (p Property) String() string {
	if p.Type == TypeList {
		return fmt.Sprintf("%s (list of %s)", p.Name, p.ItemType)
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Type)
}
