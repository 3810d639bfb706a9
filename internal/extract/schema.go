package extract

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// invoiceSchema mirrors the field list the prompt asks for. It is advisory:
// a violating response still flows through the validator, it just marks the
// resulting invoice for review.
const invoiceSchema = `{
  "type": "object",
  "properties": {
    "invoice_number":    {"type": ["string", "null"]},
    "invoice_date":      {"type": ["string", "null"]},
    "supplier_name":     {"type": ["string", "null"]},
    "supplier_tax_code": {"type": ["string", "null"]},
    "supplier_address":  {"type": ["string", "null"]},
    "subtotal":          {"type": ["number", "string", "null"]},
    "tax_rate":          {"type": ["number", "string", "null"]},
    "tax_amount":        {"type": ["number", "string", "null"]},
    "total_amount":      {"type": ["number", "string", "null"]},
    "description":       {"type": ["string", "null"]},
    "items":             {"type": ["string", "null"]}
  }
}`

var compiledSchema = jsonschema.MustCompileString("invoice.schema.json", invoiceSchema)

// CheckSchema validates a decoded field map against the extraction schema.
// A non-nil error means the model strayed from the requested shape.
func CheckSchema(m map[string]any) error {
	// round-trip so jsonschema sees json.Number-style values it understands
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return compiledSchema.Validate(v)
}
