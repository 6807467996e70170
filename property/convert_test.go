package property

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/extractflow/schema"
	"github.com/BaSui01/extractflow/types"
)

func TestToWire_DateRoundTrip(t *testing.T) {
	props := []Property{{Field: Field{Name: "deliveryDate", Type: TypeDate}}}

	wire, err := ToWire(props)
	require.NoError(t, err)

	node, ok := wire.Properties.Get("deliveryDate")
	require.True(t, ok)
	prim, ok := node.(*schema.Primitive)
	require.True(t, ok)
	assert.Equal(t, schema.TypeString, prim.Type)
	assert.Equal(t, schema.FormatDate, prim.Format)
	assert.Empty(t, wire.Required)

	back, err := FromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, props, back)
}

func TestToWire_ObjectListRoundTrip(t *testing.T) {
	props := []Property{{
		Field: Field{Name: "items", Type: TypeList, ItemType: ItemObject},
		Fields: []Field{
			{Name: "qty", Type: TypeNumber, Required: true},
		},
	}}

	wire, err := ToWire(props)
	require.NoError(t, err)

	node, _ := wire.Properties.Get("items")
	arr, ok := node.(*schema.Array)
	require.True(t, ok)
	items, ok := arr.ObjectItems()
	require.True(t, ok)
	assert.Equal(t, []string{"qty"}, items.Required)
	qty, ok := items.Properties.Get("qty")
	require.True(t, ok)
	assert.Equal(t, 0, *qty.Meta().Order)

	back, err := FromWire(wire)
	require.NoError(t, err)
	if diff := cmp.Diff(props, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestToWire_CopiesPresentation(t *testing.T) {
	ex := NewExample("Total due: 12.50", "12.5")
	props := []Property{
		{Field: Field{Name: "vendor", Type: TypeString, Required: true}},
		{Field: Field{
			Name:                   "total",
			Type:                   TypeNumber,
			Title:                  "Total",
			Description:            "Grand total",
			Importance:             schema.ImportanceHigh,
			ExtractionInstructions: "Use the final amount",
			Examples:               []schema.Example{ex},
		}},
	}

	wire, err := ToWire(props)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor", "total"}, wire.Properties.Names())
	assert.Equal(t, []string{"vendor"}, wire.Required)

	node, _ := wire.Properties.Get("total")
	meta := node.Meta()
	assert.Equal(t, "Total", meta.Title)
	assert.Equal(t, "Total", meta.DisplayName)
	assert.Equal(t, "Grand total", meta.Description)
	assert.Equal(t, schema.ImportanceHigh, meta.Importance)
	assert.Equal(t, "Use the final amount", meta.ExtractionInstructions)
	assert.Equal(t, 1, *meta.Order)
	require.Len(t, meta.Examples, 1)
	assert.Equal(t, ex, meta.Examples[0])
	assert.NotEmpty(t, ex.ID)
}

func TestToWire_PrimitiveLists(t *testing.T) {
	props := []Property{
		{Field: Field{Name: "tags", Type: TypeList, ItemType: ItemString}},
		{Field: Field{Name: "dates", Type: TypeList, ItemType: ItemDate}},
	}
	wire, err := ToWire(props)
	require.NoError(t, err)

	node, _ := wire.Properties.Get("dates")
	arr := node.(*schema.Array)
	prim, ok := arr.Items.(*schema.Primitive)
	require.True(t, ok)
	assert.True(t, prim.IsDate())

	back, err := FromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, props, back)
}

func TestToWire_UnknownTypePassesThrough(t *testing.T) {
	props := []Property{{Field: Field{Name: "geo", Type: Type("geopoint")}}}

	wire, err := ToWire(props)
	require.NoError(t, err)
	node, _ := wire.Properties.Get("geo")
	assert.Equal(t, schema.KindOpaque, node.Kind())
	assert.Equal(t, "geopoint", node.TypeName())

	back, err := FromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, props, back)
}

func TestFromWire_SortsByOrder(t *testing.T) {
	wire, err := schema.Parse([]byte(`{
		"type": "object",
		"properties": {
			"c": {"type": "string"},
			"b": {"type": "string", "order": 1},
			"a": {"type": "string", "order": 0},
			"d": {"type": "boolean"}
		},
		"required": ["b"]
	}`))
	require.NoError(t, err)

	props, err := FromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, Names(props))
	assert.True(t, props[1].Required)
	assert.False(t, props[0].Required)
}

func TestFromWire_IntegerBecomesNumber(t *testing.T) {
	wire, err := schema.Parse([]byte(`{"type":"object","properties":{"n":{"type":"integer"}}}`))
	require.NoError(t, err)

	props, err := FromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, TypeNumber, props[0].Type)
}

func TestFromWire_Malformed(t *testing.T) {
	tests := []struct {
		name string
		json string
		path string
	}{
		{
			name: "array without items",
			json: `{"type":"object","properties":{"tags":{"type":"array"}}}`,
			path: "$.properties.tags",
		},
		{
			name: "object list without properties",
			json: `{"type":"object","properties":{"lines":{"type":"array","items":{"type":"object"}}}}`,
			path: "$.properties.lines.items",
		},
		{
			name: "object list nested in object list",
			json: `{"type":"object","properties":{"lines":{"type":"array","items":{"type":"object","properties":{
				"parts":{"type":"array","items":{"type":"object","properties":{"sku":{"type":"string"}}}}}}}}}`,
			path: "$.properties.lines.items.properties.parts",
		},
		{
			name: "list of lists",
			json: `{"type":"object","properties":{"grid":{"type":"array","items":{"type":"array","items":{"type":"number"}}}}}`,
			path: "$.properties.grid.items",
		},
		{
			name: "bare object property",
			json: `{"type":"object","properties":{"address":{"type":"object","properties":{
				"city":{"type":"string"}},"required":["city"]}}}`,
			path: "$.properties.address",
		},
		{
			name: "bare object inside object list",
			json: `{"type":"object","properties":{"lines":{"type":"array","items":{"type":"object","properties":{
				"sku":{"type":"string"},"origin":{"type":"object","properties":{"country":{"type":"string"}}}}}}}}`,
			path: "$.properties.lines.items.properties.origin",
		},
		{
			name: "untyped node",
			json: `{"type":"object","properties":{"note":{"title":"Free text"}}}`,
			path: "$.properties.note",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire, err := schema.Parse([]byte(tt.json))
			if err != nil {
				// Some shapes are already rejected by the decoder.
				assert.True(t, types.IsErrorCode(err, types.ErrMalformedWireNode), err.Error())
				return
			}
			_, err = FromWire(wire)
			require.Error(t, err)
			var malformed *schema.MalformedNodeError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.path, malformed.Path)
			assert.Equal(t, types.ErrMalformedWireNode, types.GetErrorCode(err))
		})
	}
}

func TestFromWire_KeepsEmptyExamples(t *testing.T) {
	props := []Property{
		{Field: Field{Name: "vendor", Type: TypeString, Examples: []schema.Example{}}},
		{Field: Field{Name: "total", Type: TypeNumber}},
	}

	wire, err := ToWire(props)
	require.NoError(t, err)
	back, err := FromWire(wire)
	require.NoError(t, err)

	assert.Equal(t, props, back)
	assert.NotNil(t, back[0].Examples)
	assert.Nil(t, back[1].Examples)
}

func TestFromWire_NilRoot(t *testing.T) {
	_, err := FromWire(nil)
	assert.True(t, types.IsErrorCode(err, types.ErrMalformedWireNode))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		props []Property
		path  string
	}{
		{
			name:  "missing name",
			props: []Property{{Field: Field{Type: TypeString}}},
			path:  "properties[0].name",
		},
		{
			name: "duplicate name",
			props: []Property{
				{Field: Field{Name: "a", Type: TypeString}},
				{Field: Field{Name: "a", Type: TypeNumber}},
			},
			path: "properties[1].name",
		},
		{
			name:  "missing type",
			props: []Property{{Field: Field{Name: "a"}}},
			path:  "properties[0].type",
		},
		{
			name:  "bad importance",
			props: []Property{{Field: Field{Name: "a", Type: TypeString, Importance: "urgent"}}},
			path:  "properties[0].importance",
		},
		{
			name:  "list without item type",
			props: []Property{{Field: Field{Name: "a", Type: TypeList}}},
			path:  "properties[0].itemType",
		},
		{
			name:  "item type on scalar",
			props: []Property{{Field: Field{Name: "a", Type: TypeString, ItemType: ItemString}}},
			path:  "properties[0].itemType",
		},
		{
			name:  "object list without fields",
			props: []Property{{Field: Field{Name: "a", Type: TypeList, ItemType: ItemObject}}},
			path:  "properties[0].fields",
		},
		{
			name: "fields on primitive list",
			props: []Property{{
				Field:  Field{Name: "a", Type: TypeList, ItemType: ItemString},
				Fields: []Field{{Name: "x", Type: TypeString}},
			}},
			path: "properties[0].fields",
		},
		{
			name: "nested object list",
			props: []Property{{
				Field:  Field{Name: "a", Type: TypeList, ItemType: ItemObject},
				Fields: []Field{{Name: "x", Type: TypeList, ItemType: ItemObject}},
			}},
			path: "properties[0].fields[0].itemType",
		},
		{
			name: "duplicate nested name",
			props: []Property{{
				Field:  Field{Name: "a", Type: TypeList, ItemType: ItemObject},
				Fields: []Field{{Name: "x", Type: TypeString}, {Name: "x", Type: TypeNumber}},
			}},
			path: "properties[0].fields[1].name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.props)
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.path, verr.Path)
			assert.Equal(t, types.ErrInvalidProperty, types.GetErrorCode(err))

			_, err = ToWire(tt.props)
			assert.Error(t, err)
		})
	}
}

func TestValidate_SameNameAtDifferentLevels(t *testing.T) {
	props := []Property{
		{Field: Field{Name: "name", Type: TypeString}},
		{
			Field:  Field{Name: "lines", Type: TypeList, ItemType: ItemObject},
			Fields: []Field{{Name: "name", Type: TypeString}},
		},
	}
	assert.NoError(t, Validate(props))
}

func TestParseList(t *testing.T) {
	yamlDoc := []byte(`
- name: invoiceNumber
  type: string
  required: true
- name: lines
  type: list
  itemType: object
  fields:
    - name: sku
      type: string
      required: true
    - name: qty
      type: number
      required: false
`)
	jsonDoc := []byte(`[
		{"name":"invoiceNumber","type":"string","required":true},
		{"name":"lines","type":"list","itemType":"object","fields":[
			{"name":"sku","type":"string","required":true},
			{"name":"qty","type":"number","required":false}
		]}
	]`)

	fromYAML, err := ParseList(yamlDoc, "yaml")
	require.NoError(t, err)
	fromJSON, err := ParseList(jsonDoc, "json")
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromJSON)
	require.Len(t, fromJSON, 2)
	assert.True(t, fromJSON[1].IsObjectList())
	assert.Equal(t, "qty", fromJSON[1].Fields[1].Name)

	_, err = ParseList(jsonDoc, "toml")
	assert.Error(t, err)
}

func TestProperty_String(t *testing.T) {
	assert.Equal(t, "total (number)", Property{Field: Field{Name: "total", Type: TypeNumber}}.String())
	assert.Equal(t, "tags (list of string)", Property{Field: Field{Name: "tags", Type: TypeList, ItemType: ItemString}}.String())
}
