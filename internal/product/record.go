// Package product assembles product records from an XML event stream and
// normalizes their field values.
package product

// Field names with special handling.
const (
	FieldSKU           = "article_sku"
	FieldDisplaySize   = "it_display_size_pouces"
	FieldWarrantyScope = "warranty_scope"
)

// elementName delimits a record. Matched case-insensitively on the local name.
const elementName = "product"

// Record maps a child element's qualified name to its trimmed text.
type Record map[string]string

// SKU returns the article SKU, or "" when the record has none.
func (r Record) SKU() string {
	return r[FieldSKU]
}
