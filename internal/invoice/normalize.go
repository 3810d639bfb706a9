package invoice

import (
	"math"
	"strings"
	"time"

	"github.com/hvtran/accounting-bot/constants"
	"github.com/hvtran/accounting-bot/internal/entity"
)

// defaultTaxRate is the Vietnamese standard VAT rate, assumed when the
// extraction does not report one.
const defaultTaxRate = 10.0

// amountTolerance bounds the acceptable drift between total_amount and
// subtotal + tax_amount before an invoice is flagged for manual review.
const amountTolerance = 0.5

// Normalize assembles a complete invoice from a raw extraction. It is total:
// every field degrades to a default rather than failing, so even an empty
// RawExtraction yields a structurally valid record (generated number, today's
// date, "N/A" supplier, zero amounts).
func Normalize(raw RawExtraction) *entity.Invoice {
	inv := &entity.Invoice{Status: constants.StatusPending}

	inv.InvoiceNumber = normalizeInvoiceNumber(raw.InvoiceNumber)
	inv.InvoiceDate = normalizeDate(raw.InvoiceDate)

	inv.SupplierName = stringOr(raw.SupplierName, "N/A")
	inv.SupplierTaxCode = stringOr(raw.SupplierTaxCode, "")
	inv.SupplierAddress = stringOr(raw.SupplierAddress, "")

	inv.Subtotal = ParseAmount(raw.Subtotal)
	inv.TaxRate = ParseAmount(raw.TaxRate)
	if raw.TaxRate == nil {
		inv.TaxRate = defaultTaxRate
	}
	inv.TaxAmount = ParseAmount(raw.TaxAmount)
	inv.TotalAmount = ParseAmount(raw.TotalAmount)
	reconcile(inv)

	inv.Description = stringOr(raw.Description, "")
	inv.Items = stringOr(raw.Items, "")

	inv.AccountCode = ClassifyAccount(inv.Description)
	inv.Category = ClassifyCategory(inv.Description)

	return inv
}

// reconcile derives the missing side of the subtotal/tax/total relation when
// exactly one of subtotal or total is zero. When both are supplied the values
// are kept verbatim, but a mismatch against the tax amount is noted so an
// accountant reviews it instead of the bot silently correcting numbers.
func reconcile(inv *entity.Invoice) {
	switch {
	case inv.TotalAmount > 0 && inv.Subtotal == 0:
		inv.Subtotal = inv.TotalAmount / (1 + inv.TaxRate/100)
		inv.TaxAmount = inv.TotalAmount - inv.Subtotal
	case inv.Subtotal > 0 && inv.TotalAmount == 0:
		inv.TaxAmount = inv.Subtotal * inv.TaxRate / 100
		inv.TotalAmount = inv.Subtotal + inv.TaxAmount
	case inv.Subtotal > 0 && inv.TotalAmount > 0 && inv.TaxAmount > 0:
		if math.Abs(inv.TotalAmount-(inv.Subtotal+inv.TaxAmount)) > amountTolerance {
			appendNote(inv, "Số liệu không khớp: tổng tiền khác tiền trước thuế + tiền thuế, cần kiểm tra lại")
		}
	}
}

// normalizeInvoiceNumber treats null/missing values and the literal
// placeholders "none"/"null"/"" as absent and substitutes a generated number.
func normalizeInvoiceNumber(p *string) string {
	if p == nil {
		return GenerateInvoiceNumber()
	}
	s := strings.TrimSpace(*p)
	switch strings.ToLower(s) {
	case "", "none", "null":
		return GenerateInvoiceNumber()
	}
	return s
}

// normalizeDate parses YYYY-MM-DD, substituting the current time on absence or
// parse failure. No timezone handling beyond the host's local clock.
func normalizeDate(p *string) time.Time {
	if p == nil {
		return time.Now()
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(*p))
	if err != nil {
		return time.Now()
	}
	return t
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return def
	}
	return s
}

func appendNote(inv *entity.Invoice, note string) {
	if inv.Notes != "" {
		inv.Notes += "; "
	}
	inv.Notes += note
}
