// =============================================================================
// 📦 测试数据工厂 - Schema 测试数据
// =============================================================================
// 提供预定义的属性列表与 wire JSON，用于测试
// =============================================================================
package fixtures

import (
	"github.com/BaSui01/extractflow/property"
	"github.com/BaSui01/extractflow/schema"
)

// =============================================================================
// 🧾 发票 schema
// =============================================================================

// InvoiceProperties 返回发票抽取用的属性列表
func InvoiceProperties() []property.Property {
	return []property.Property{
		{Field: property.Field{
			Name:                   "invoiceNumber",
			Type:                   property.TypeString,
			Title:                  "Invoice Number",
			Importance:             schema.ImportanceHigh,
			Required:               true,
			ExtractionInstructions: "Copy the number printed next to the word Invoice.",
			Examples: []schema.Example{
				{ID: "ex-1", Input: "Invoice #INV-0042", Output: "INV-0042"},
			},
		}},
		{Field: property.Field{
			Name:     "issueDate",
			Type:     property.TypeDate,
			Title:    "Issue Date",
			Required: true,
		}},
		{Field: property.Field{
			Name:        "total",
			Type:        property.TypeNumber,
			Title:       "Total",
			Description: "Grand total including tax",
		}},
		{Field: property.Field{
			Name:     "tags",
			Type:     property.TypeList,
			ItemType: property.ItemString,
			Title:    "Tags",
		}},
		{
			Field: property.Field{
				Name:                   "lines",
				Type:                   property.TypeList,
				ItemType:               property.ItemObject,
				Title:                  "Line Items",
				Importance:             schema.ImportanceMedium,
				ExtractionInstructions: "One entry per printed row.",
				Examples: []schema.Example{
					{ID: "ex-2", Input: "2 x Widget", Output: `[{"sku":"Widget","qty":2}]`},
				},
			},
			Fields: []property.Field{
				{Name: "sku", Type: property.TypeString, Description: "Stock keeping unit", Required: true},
				{Name: "qty", Type: property.TypeNumber, Required: true},
				{Name: "shippedOn", Type: property.TypeList, ItemType: property.ItemDate},
			},
		},
	}
}

// InvoiceSchemaJSON 是手写的发票 wire schema，含 enum、长度与数值边界
const InvoiceSchemaJSON = `{
  "type": "object",
  "title": "Invoice",
  "description": "Supplier invoice",
  "properties": {
    "invoiceNumber": {
      "type": "string",
      "title": "Invoice Number",
      "minLength": 3,
      "maxLength": 20,
      "extractionInstructions": "Copy the number printed next to the word Invoice.",
      "order": 0
    },
    "currency": {
      "type": "string",
      "enum": ["EUR", "USD"],
      "order": 1
    },
    "issueDate": {
      "type": "string",
      "format": "date",
      "order": 2
    },
    "total": {
      "type": "number",
      "minimum": 0,
      "order": 3
    },
    "lines": {
      "type": "array",
      "order": 4,
      "items": {
        "type": "object",
        "properties": {
          "sku": {"type": "string"},
          "qty": {"type": "integer", "minimum": 1}
        },
        "required": ["sku", "qty"]
      }
    }
  },
  "required": ["invoiceNumber", "issueDate"]
}`

// InvoiceSchema 解析 InvoiceSchemaJSON，失败时 panic
func InvoiceSchema() *schema.Object {
	obj, err := schema.Parse([]byte(InvoiceSchemaJSON))
	if err != nil {
		panic(err)
	}
	return obj
}

// ValidInvoiceRecord 返回一条符合 InvoiceSchemaJSON 的记录
func ValidInvoiceRecord() map[string]any {
	return map[string]any{
		"invoiceNumber": "INV-0042",
		"currency":      "EUR",
		"issueDate":     "2024-03-01",
		"total":         120.5,
		"lines": []any{
			map[string]any{"sku": "W-1", "qty": float64(2)},
			map[string]any{"sku": "W-2", "qty": float64(1)},
		},
	}
}
