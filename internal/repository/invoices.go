package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hvtran/accounting-bot/constants"
	"github.com/hvtran/accounting-bot/internal/common"
	"github.com/hvtran/accounting-bot/internal/entity"
)

// ErrDuplicateInvoiceNumber signals a unique-index conflict on invoice_number.
// Callers regenerate the number and retry.
var ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")

const invoiceColumns = `id, invoice_number, invoice_date, supplier_name, supplier_tax_code,
	supplier_address, subtotal, tax_rate, tax_amount, total_amount, description, items,
	account_code, category, status, approved_by, approved_by_username, approved_at,
	rejection_reason, file_path, raw_ocr_text, created_by_user_id, created_by_username,
	notes, created_at, updated_at`

// InvoiceRepository persists invoice records.
type InvoiceRepository struct {
	db     *DB
	logger *slog.Logger
}

// NewInvoiceRepository creates an invoice repository over the shared store.
func NewInvoiceRepository(db *DB, logger *slog.Logger) *InvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &InvoiceRepository{db: db, logger: logger}
}

// Create inserts an invoice and fills in its ID and timestamps.
func (r *InvoiceRepository) Create(ctx context.Context, inv *entity.Invoice) error {
	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	if inv.Status == "" {
		inv.Status = constants.StatusPending
	}

	query := r.db.rebind(`INSERT INTO invoices (invoice_number, invoice_date, supplier_name,
		supplier_tax_code, supplier_address, subtotal, tax_rate, tax_amount, total_amount,
		description, items, account_code, category, status, approved_by, approved_by_username,
		approved_at, rejection_reason, file_path, raw_ocr_text, created_by_user_id,
		created_by_username, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	args := []any{
		inv.InvoiceNumber, inv.InvoiceDate, inv.SupplierName, inv.SupplierTaxCode,
		inv.SupplierAddress, inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.TotalAmount,
		inv.Description, inv.Items, inv.AccountCode, inv.Category, string(inv.Status),
		inv.ApprovedBy, inv.ApprovedByUsername, nullTime(inv.ApprovedAt), inv.RejectionReason,
		inv.FilePath, inv.RawOCRText, inv.CreatedByUserID, inv.CreatedByUsername, inv.Notes,
		inv.CreatedAt, inv.UpdatedAt,
	}

	if r.db.driver == driverPostgres {
		err := r.db.sql.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&inv.ID)
		if err != nil {
			return r.createErr(inv.InvoiceNumber, err)
		}
		return nil
	}

	res, err := r.db.sql.ExecContext(ctx, query, args...)
	if err != nil {
		return r.createErr(inv.InvoiceNumber, err)
	}
	inv.ID, err = res.LastInsertId()
	if err != nil {
		return common.WrapError(err, "failed to read inserted invoice id")
	}
	return nil
}

func (r *InvoiceRepository) createErr(number string, err error) error {
	if isUniqueViolation(err) {
		r.logger.Warn("invoice.create.duplicate_number", "invoice_number", number)
		return fmt.Errorf("%w: %s", ErrDuplicateInvoiceNumber, number)
	}
	r.logger.Error("invoice.create.error", "invoice_number", number, "error", err)
	return common.WrapError(err, "failed to create invoice")
}

// GetByID fetches one invoice or common.ErrNotFound.
func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	query := r.db.rebind(`SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`)
	return r.scanOne(r.db.sql.QueryRowContext(ctx, query, id))
}

// GetByNumber fetches one invoice by its business number.
func (r *InvoiceRepository) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	query := r.db.rebind(`SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = ?`)
	return r.scanOne(r.db.sql.QueryRowContext(ctx, query, number))
}

// Search matches the keyword against invoice number, supplier name and
// description, case-insensitively, newest first.
func (r *InvoiceRepository) Search(ctx context.Context, keyword string, limit int) ([]*entity.Invoice, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + keyword + "%"
	query := r.db.rebind(`SELECT ` + invoiceColumns + ` FROM invoices
		WHERE LOWER(invoice_number) LIKE LOWER(?)
		   OR LOWER(supplier_name) LIKE LOWER(?)
		   OR LOWER(description) LIKE LOWER(?)
		ORDER BY created_at DESC LIMIT ?`)
	return r.scanMany(ctx, query, pattern, pattern, pattern, limit)
}

// Recent returns the newest invoices.
func (r *InvoiceRepository) Recent(ctx context.Context, limit int) ([]*entity.Invoice, error) {
	if limit <= 0 {
		limit = 10
	}
	query := r.db.rebind(`SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC LIMIT ?`)
	return r.scanMany(ctx, query, limit)
}

// ListByStatus returns invoices in a workflow state, oldest first so approvers
// work the backlog in order.
func (r *InvoiceRepository) ListByStatus(ctx context.Context, status constants.InvoiceStatus, limit int) ([]*entity.Invoice, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.rebind(`SELECT ` + invoiceColumns + ` FROM invoices WHERE status = ? ORDER BY created_at ASC LIMIT ?`)
	return r.scanMany(ctx, query, string(status), limit)
}

// ListByDateRange returns invoices whose invoice date falls in [from, to].
func (r *InvoiceRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Invoice, error) {
	query := r.db.rebind(`SELECT ` + invoiceColumns + ` FROM invoices
		WHERE invoice_date >= ? AND invoice_date <= ? ORDER BY invoice_date ASC`)
	return r.scanMany(ctx, query, from, to)
}

// ListByUser returns a submitter's invoices, newest first.
func (r *InvoiceRepository) ListByUser(ctx context.Context, telegramID int64, limit int) ([]*entity.Invoice, error) {
	if limit <= 0 {
		limit = 10
	}
	query := r.db.rebind(`SELECT ` + invoiceColumns + ` FROM invoices
		WHERE created_by_user_id = ? ORDER BY created_at DESC LIMIT ?`)
	return r.scanMany(ctx, query, telegramID, limit)
}

// ListAll returns every invoice, newest first, for exports.
func (r *InvoiceRepository) ListAll(ctx context.Context) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC`
	return r.scanMany(ctx, query)
}

// CountAll returns the total invoice count.
func (r *InvoiceRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&n)
	return n, err
}

// CountByStatus returns the invoice count in a workflow state.
func (r *InvoiceRepository) CountByStatus(ctx context.Context, status constants.InvoiceStatus) (int64, error) {
	var n int64
	query := r.db.rebind(`SELECT COUNT(*) FROM invoices WHERE status = ?`)
	err := r.db.sql.QueryRowContext(ctx, query, string(status)).Scan(&n)
	return n, err
}

// TotalAmountByStatus sums total_amount over a workflow state.
func (r *InvoiceRepository) TotalAmountByStatus(ctx context.Context, status constants.InvoiceStatus) (float64, error) {
	var total float64
	query := r.db.rebind(`SELECT COALESCE(SUM(total_amount), 0) FROM invoices WHERE status = ?`)
	err := r.db.sql.QueryRowContext(ctx, query, string(status)).Scan(&total)
	return total, err
}

// TotalAmount sums total_amount over all invoices.
func (r *InvoiceRepository) TotalAmount(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.sql.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM invoices`).Scan(&total)
	return total, err
}

// Approve moves a pending invoice to approved and records the approver.
// Approving a non-pending invoice is an error so two approvers cannot race.
func (r *InvoiceRepository) Approve(ctx context.Context, id int64, approverID int64, approverUsername string) error {
	now := time.Now()
	query := r.db.rebind(`UPDATE invoices
		SET status = ?, approved_by = ?, approved_by_username = ?, approved_at = ?, updated_at = ?
		WHERE id = ? AND status = ?`)
	res, err := r.db.sql.ExecContext(ctx, query,
		string(constants.StatusApproved), fmt.Sprintf("%d", approverID), approverUsername,
		now, now, id, string(constants.StatusPending))
	if err != nil {
		r.logger.Error("invoice.approve.error", "invoice_id", id, "error", err)
		return common.WrapError(err, "failed to approve invoice")
	}
	return r.requireOneRow(res, id, "approve")
}

// Reject moves a pending invoice to rejected with a reason.
func (r *InvoiceRepository) Reject(ctx context.Context, id int64, approverID int64, approverUsername, reason string) error {
	now := time.Now()
	query := r.db.rebind(`UPDATE invoices
		SET status = ?, approved_by = ?, approved_by_username = ?, approved_at = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ? AND status = ?`)
	res, err := r.db.sql.ExecContext(ctx, query,
		string(constants.StatusRejected), fmt.Sprintf("%d", approverID), approverUsername,
		now, reason, now, id, string(constants.StatusPending))
	if err != nil {
		r.logger.Error("invoice.reject.error", "invoice_id", id, "error", err)
		return common.WrapError(err, "failed to reject invoice")
	}
	return r.requireOneRow(res, id, "reject")
}

func (r *InvoiceRepository) requireOneRow(res sql.Result, id int64, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return common.WrapError(err, "failed to read affected rows")
	}
	if n == 0 {
		r.logger.Warn("invoice."+op+".not_pending", "invoice_id", id)
		return common.NewAppError("NOT_FOUND", "invoice not found or no longer pending", common.ErrNotFound)
	}
	return nil
}

func (r *InvoiceRepository) scanOne(row *sql.Row) (*entity.Invoice, error) {
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "failed to read invoice")
	}
	return inv, nil
}

func (r *InvoiceRepository) scanMany(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.WrapError(err, "failed to list invoices")
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, common.WrapError(err, "failed to scan invoice row")
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var (
		inv        entity.Invoice
		status     string
		approvedAt sql.NullTime
	)
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.InvoiceDate, &inv.SupplierName, &inv.SupplierTaxCode,
		&inv.SupplierAddress, &inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.TotalAmount,
		&inv.Description, &inv.Items, &inv.AccountCode, &inv.Category, &status,
		&inv.ApprovedBy, &inv.ApprovedByUsername, &approvedAt, &inv.RejectionReason,
		&inv.FilePath, &inv.RawOCRText, &inv.CreatedByUserID, &inv.CreatedByUsername,
		&inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = constants.InvoiceStatus(status)
	if approvedAt.Valid {
		t := approvedAt.Time
		inv.ApprovedAt = &t
	}
	return &inv, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
