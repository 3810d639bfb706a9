package extract

import "testing"

func TestExtractJSONRegion(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"prose wrapped", `Here is the data: {"a":1} hope it helps`, `{"a":1}`, true},
		{"markdown fence", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"nested braces", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"brace in string", `{"a":"}"}`, `{"a":"}"}`, true},
		{"escaped quote", `{"a":"say \"hi\" {ok}"}`, `{"a":"say \"hi\" {ok}"}`, true},
		{"two objects takes first", `{"a":1} {"b":2}`, `{"a":1}`, true},
		{"no braces", "plain prose", "", false},
		{"unbalanced", `{"a":1`, "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONRegion(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ExtractJSONRegion(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDecodeResponse(t *testing.T) {
	m := DecodeResponse(`The invoice details:
{"invoice_number": "HD-01", "total_amount": 1100000}
Let me know if you need more.`)
	if m["invoice_number"] != "HD-01" {
		t.Errorf("invoice_number = %v", m["invoice_number"])
	}
	if m["total_amount"] != 1100000.0 {
		t.Errorf("total_amount = %v", m["total_amount"])
	}

	if m := DecodeResponse("no json here"); len(m) != 0 {
		t.Errorf("prose should decode to empty map, got %v", m)
	}
	if m := DecodeResponse(`{"broken": `); len(m) != 0 {
		t.Errorf("invalid json should decode to empty map, got %v", m)
	}
}

func TestCheckSchema(t *testing.T) {
	ok := map[string]any{
		"invoice_number": "HD-01",
		"subtotal":       1000000.0,
		"tax_rate":       "10",
		"supplier_name":  nil,
	}
	if err := CheckSchema(ok); err != nil {
		t.Errorf("valid map rejected: %v", err)
	}

	bad := map[string]any{"subtotal": []any{1, 2}}
	if err := CheckSchema(bad); err == nil {
		t.Error("array-valued money field should fail the schema check")
	}
}
