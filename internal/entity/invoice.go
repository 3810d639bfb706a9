package entity

import (
	"time"

	"github.com/hvtran/accounting-bot/constants"
)

// Invoice represents a normalized invoice record for data transfer between layers.
type Invoice struct {
	ID int64 `json:"id"`

	InvoiceNumber   string    `json:"invoice_number"`
	InvoiceDate     time.Time `json:"invoice_date"`
	SupplierName    string    `json:"supplier_name"`
	SupplierTaxCode string    `json:"supplier_tax_code"`
	SupplierAddress string    `json:"supplier_address"`

	Subtotal    float64 `json:"subtotal"`
	TaxRate     float64 `json:"tax_rate"`
	TaxAmount   float64 `json:"tax_amount"`
	TotalAmount float64 `json:"total_amount"`

	Description string `json:"description"`
	Items       string `json:"items"`

	AccountCode string `json:"account_code"`
	Category    string `json:"category"`

	Status             constants.InvoiceStatus `json:"status"`
	ApprovedBy         string                  `json:"approved_by,omitempty"`
	ApprovedByUsername string                  `json:"approved_by_username,omitempty"`
	ApprovedAt         *time.Time              `json:"approved_at,omitempty"`
	RejectionReason    string                  `json:"rejection_reason,omitempty"`

	FilePath   string `json:"file_path,omitempty"`
	RawOCRText string `json:"-"`

	CreatedByUserID   int64  `json:"created_by_user_id"`
	CreatedByUsername string `json:"created_by_username"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
