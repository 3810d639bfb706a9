package invoice

import (
	"strconv"
	"strings"
)

// RawExtraction is the loosely-typed field set produced by the text-generation
// collaborator. Every field is optional; absent, null and placeholder values
// ("None", "null", "") are resolved to defaults by Normalize. Money fields keep
// the raw decoded value (string or number) so ParseAmount can handle both.
type RawExtraction struct {
	InvoiceNumber   *string
	InvoiceDate     *string
	SupplierName    *string
	SupplierTaxCode *string
	SupplierAddress *string

	Subtotal    any
	TaxRate     any
	TaxAmount   any
	TotalAmount any

	Description *string
	Items       *string
}

// DecodeRaw builds a RawExtraction from a generic JSON object. Unknown keys are
// ignored; values of unexpected types are coerced to strings where a string is
// expected, mirroring the permissive shape the model actually returns.
func DecodeRaw(m map[string]any) RawExtraction {
	return RawExtraction{
		InvoiceNumber:   looseString(m["invoice_number"]),
		InvoiceDate:     looseString(m["invoice_date"]),
		SupplierName:    looseString(m["supplier_name"]),
		SupplierTaxCode: looseString(m["supplier_tax_code"]),
		SupplierAddress: looseString(m["supplier_address"]),
		Subtotal:        m["subtotal"],
		TaxRate:         m["tax_rate"],
		TaxAmount:       m["tax_amount"],
		TotalAmount:     m["total_amount"],
		Description:     looseString(m["description"]),
		Items:           looseString(m["items"]),
	}
}

// looseString coerces a decoded JSON value to a trimmed string pointer.
// nil stays nil so Normalize can tell "absent" from "empty".
func looseString(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(t)
		return &s
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		return &s
	case bool:
		s := strconv.FormatBool(t)
		return &s
	default:
		return nil
	}
}
