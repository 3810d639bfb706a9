package invoice

import "time"

// GenerateInvoiceNumber produces a fallback identifier of the form
// INV-YYYYMMDDHHMMSS from the local clock. Two calls within the same second
// collide; true uniqueness is the storage layer's concern (unique index plus
// caller-side retry).
func GenerateInvoiceNumber() string {
	return "INV-" + time.Now().Format("20060102150405")
}
