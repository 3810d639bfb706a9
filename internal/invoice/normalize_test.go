package invoice

import (
	"math"
	"testing"
	"time"

	"github.com/hvtran/accounting-bot/constants"
)

func strptr(s string) *string { return &s }

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestNormalizeEmptyExtraction(t *testing.T) {
	inv := Normalize(RawExtraction{})

	if !invoiceNumberPattern.MatchString(inv.InvoiceNumber) {
		t.Errorf("invoice number %q not generated", inv.InvoiceNumber)
	}
	if time.Since(inv.InvoiceDate) > 2*time.Second {
		t.Errorf("invoice date should default to now, got %v", inv.InvoiceDate)
	}
	if inv.SupplierName != "N/A" {
		t.Errorf("supplier name = %q, want N/A", inv.SupplierName)
	}
	if inv.SupplierTaxCode != "" || inv.SupplierAddress != "" {
		t.Error("supplier tax code and address should default to empty")
	}
	if inv.Subtotal != 0 || inv.TaxAmount != 0 || inv.TotalAmount != 0 {
		t.Error("amounts should default to zero")
	}
	if inv.TaxRate != 10.0 {
		t.Errorf("tax rate = %v, want default 10.0", inv.TaxRate)
	}
	if inv.AccountCode != constants.AccountQuanLy {
		t.Errorf("account code = %q, want 642", inv.AccountCode)
	}
	if inv.Category != string(constants.CategoryKhac) {
		t.Errorf("category = %q, want default", inv.Category)
	}
	if inv.Status != constants.StatusPending {
		t.Errorf("status = %q, want pending", inv.Status)
	}
}

func TestNormalizeInvoiceNumberPlaceholders(t *testing.T) {
	for _, placeholder := range []string{"", "none", "None", "NULL", "null", "  "} {
		inv := Normalize(RawExtraction{InvoiceNumber: strptr(placeholder)})
		if !invoiceNumberPattern.MatchString(inv.InvoiceNumber) {
			t.Errorf("placeholder %q: number %q not generated", placeholder, inv.InvoiceNumber)
		}
	}

	inv := Normalize(RawExtraction{InvoiceNumber: strptr("  HD-2024/001  ")})
	if inv.InvoiceNumber != "HD-2024/001" {
		t.Errorf("extracted number should be trimmed and kept, got %q", inv.InvoiceNumber)
	}
}

func TestNormalizeDate(t *testing.T) {
	inv := Normalize(RawExtraction{InvoiceDate: strptr("2024-12-05")})
	want := time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC)
	if !inv.InvoiceDate.Equal(want) {
		t.Errorf("date = %v, want %v", inv.InvoiceDate, want)
	}

	inv = Normalize(RawExtraction{InvoiceDate: strptr("05/12/2024")})
	if time.Since(inv.InvoiceDate) > 2*time.Second {
		t.Errorf("unparseable date should default to now, got %v", inv.InvoiceDate)
	}
}

func TestNormalizeReconciliationFromSubtotal(t *testing.T) {
	inv := Normalize(RawExtraction{
		Subtotal:    1000000.0,
		TaxRate:     10.0,
		TotalAmount: 0.0,
		Description: strptr("Tiền điện tháng 12"),
	})
	if !almostEqual(inv.TaxAmount, 100000) {
		t.Errorf("tax amount = %v, want 100000", inv.TaxAmount)
	}
	if !almostEqual(inv.TotalAmount, 1100000) {
		t.Errorf("total = %v, want 1100000", inv.TotalAmount)
	}
	if inv.Category != string(constants.CategoryTienIch) {
		t.Errorf("category = %q, want utilities", inv.Category)
	}
}

func TestNormalizeReconciliationFromTotal(t *testing.T) {
	inv := Normalize(RawExtraction{
		TotalAmount: 1100000.0,
		TaxRate:     10.0,
		Subtotal:    0.0,
	})
	if !almostEqual(inv.Subtotal, 1000000) {
		t.Errorf("subtotal = %v, want 1000000", inv.Subtotal)
	}
	if !almostEqual(inv.TaxAmount, 100000) {
		t.Errorf("tax amount = %v, want 100000", inv.TaxAmount)
	}
}

func TestNormalizeAllAmountsProvided(t *testing.T) {
	// consistent numbers pass through untouched with no note
	inv := Normalize(RawExtraction{
		Subtotal:    1000000.0,
		TaxRate:     10.0,
		TaxAmount:   100000.0,
		TotalAmount: 1100000.0,
	})
	if inv.Subtotal != 1000000 || inv.TaxAmount != 100000 || inv.TotalAmount != 1100000 {
		t.Error("consistent amounts should be taken verbatim")
	}
	if inv.Notes != "" {
		t.Errorf("unexpected note: %q", inv.Notes)
	}

	// inconsistent numbers are kept verbatim but flagged for review
	inv = Normalize(RawExtraction{
		Subtotal:    1000000.0,
		TaxRate:     10.0,
		TaxAmount:   100000.0,
		TotalAmount: 1500000.0,
	})
	if inv.TotalAmount != 1500000 {
		t.Error("inconsistent total must not be corrected")
	}
	if inv.Notes == "" {
		t.Error("inconsistent amounts should be flagged in notes")
	}
}

func TestNormalizeStringAmounts(t *testing.T) {
	inv := Normalize(RawExtraction{
		Subtotal: "1,000,000",
		TaxRate:  "10",
	})
	if !almostEqual(inv.TotalAmount, 1100000) {
		t.Errorf("total = %v, want 1100000 from string inputs", inv.TotalAmount)
	}
}

func TestDecodeRaw(t *testing.T) {
	m := map[string]any{
		"invoice_number": "HD-01",
		"supplier_name":  "Công ty TNHH ABC",
		"subtotal":       500000.0,
		"tax_rate":       nil,
		"items":          42.0, // model occasionally emits numbers for text fields
		"unknown_key":    "ignored",
	}
	raw := DecodeRaw(m)
	if raw.InvoiceNumber == nil || *raw.InvoiceNumber != "HD-01" {
		t.Error("invoice_number not decoded")
	}
	if raw.TaxRate != nil {
		t.Error("JSON null should decode as absent")
	}
	if raw.Items == nil || *raw.Items != "42" {
		t.Errorf("numeric text field should coerce to string, got %v", raw.Items)
	}
	inv := Normalize(raw)
	if inv.SupplierName != "Công ty TNHH ABC" {
		t.Errorf("supplier = %q", inv.SupplierName)
	}
	if !almostEqual(inv.TotalAmount, 550000) {
		t.Errorf("total = %v, want 550000", inv.TotalAmount)
	}
}
