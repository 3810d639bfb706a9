package constants

// InvoiceStatus is the canonical approval state for rows in invoices.
type InvoiceStatus string

// Stable values (store these exact strings in DB).
const (
	StatusPending  InvoiceStatus = "pending"
	StatusApproved InvoiceStatus = "approved"
	StatusRejected InvoiceStatus = "rejected"
)

// Role controls what a Telegram user may do.
type Role string

const (
	RoleUser       Role = "user"
	RoleAccountant Role = "accountant"
	RoleAdmin      Role = "admin"
)

// CanApprove reports whether the role may approve or reject invoices.
func (r Role) CanApprove() bool {
	return r == RoleAdmin || r == RoleAccountant
}
