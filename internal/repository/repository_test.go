package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hvtran/accounting-bot/constants"
	"github.com/hvtran/accounting-bot/internal/common"
	"github.com/hvtran/accounting-bot/internal/entity"
)

// newTestDB opens an in-memory sqlite store. One connection, so every query
// sees the same memory database.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{DSN: ":memory:", MaxOpenConns: 1}, nil)
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func testInvoice(number string) *entity.Invoice {
	return &entity.Invoice{
		InvoiceNumber:     number,
		InvoiceDate:       time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC),
		SupplierName:      "Công ty Điện Lực Hà Nội",
		Subtotal:          1000000,
		TaxRate:           10,
		TaxAmount:         100000,
		TotalAmount:       1100000,
		Description:       "Tiền điện tháng 12",
		AccountCode:       "642",
		Category:          "Chi Phí Tiện Ích - Điện Nước",
		Status:            constants.StatusPending,
		CreatedByUserID:   42,
		CreatedByUsername: "hoa",
	}
}

func TestInvoiceCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db, nil)
	ctx := context.Background()

	inv := testInvoice("HD-001")
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.ID == 0 {
		t.Fatal("create should fill in the id")
	}

	got, err := repo.GetByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.InvoiceNumber != "HD-001" || got.TotalAmount != 1100000 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Status != constants.StatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if got.ApprovedAt != nil {
		t.Error("approved_at should be nil on a fresh invoice")
	}

	byNum, err := repo.GetByNumber(ctx, "HD-001")
	if err != nil || byNum.ID != inv.ID {
		t.Errorf("get by number: %v, id=%d", err, byNum.ID)
	}

	if _, err := repo.GetByID(ctx, 9999); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("missing id should be ErrNotFound, got %v", err)
	}
}

func TestInvoiceDuplicateNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db, nil)
	ctx := context.Background()

	if err := repo.Create(ctx, testInvoice("HD-dup")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := repo.Create(ctx, testInvoice("HD-dup"))
	if !errors.Is(err, ErrDuplicateInvoiceNumber) {
		t.Errorf("second create should report a duplicate number, got %v", err)
	}
}

func TestInvoiceSearchAndRecent(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db, nil)
	ctx := context.Background()

	a := testInvoice("HD-100")
	a.SupplierName = "Grab Việt Nam"
	a.Description = "Taxi đi gặp khách hàng"
	b := testInvoice("HD-200")
	for _, inv := range []*entity.Invoice{a, b} {
		if err := repo.Create(ctx, inv); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	hits, err := repo.Search(ctx, "grab", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].InvoiceNumber != "HD-100" {
		t.Errorf("search by supplier: %d hits", len(hits))
	}

	hits, err = repo.Search(ctx, "hd-2", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].InvoiceNumber != "HD-200" {
		t.Errorf("search by number: %d hits", len(hits))
	}

	recent, err := repo.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("recent limit not applied: %d rows", len(recent))
	}
}

func TestInvoiceApproveRejectWorkflow(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db, nil)
	ctx := context.Background()

	inv := testInvoice("HD-wf-1")
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Approve(ctx, inv.ID, 7, "ketoan"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	got, _ := repo.GetByID(ctx, inv.ID)
	if got.Status != constants.StatusApproved {
		t.Errorf("status = %q, want approved", got.Status)
	}
	if got.ApprovedAt == nil || got.ApprovedByUsername != "ketoan" {
		t.Errorf("approver not recorded: %+v", got)
	}

	// already approved, a second decision must fail
	if err := repo.Approve(ctx, inv.ID, 8, "other"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("double approve should fail with ErrNotFound, got %v", err)
	}
	if err := repo.Reject(ctx, inv.ID, 8, "other", "late"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("reject after approve should fail, got %v", err)
	}

	rej := testInvoice("HD-wf-2")
	if err := repo.Create(ctx, rej); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Reject(ctx, rej.ID, 7, "ketoan", "Hóa đơn mờ, không đọc được"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	got, _ = repo.GetByID(ctx, rej.ID)
	if got.Status != constants.StatusRejected || got.RejectionReason == "" {
		t.Errorf("rejection not recorded: %+v", got)
	}
}

func TestInvoiceStats(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db, nil)
	ctx := context.Background()

	amounts := []float64{100, 200, 300}
	for i, amt := range amounts {
		inv := testInvoice("HD-st-" + string(rune('a'+i)))
		inv.TotalAmount = amt
		if err := repo.Create(ctx, inv); err != nil {
			t.Fatalf("create: %v", err)
		}
		if i == 0 {
			if err := repo.Approve(ctx, inv.ID, 7, "ketoan"); err != nil {
				t.Fatalf("approve: %v", err)
			}
		}
	}

	if n, _ := repo.CountAll(ctx); n != 3 {
		t.Errorf("count all = %d", n)
	}
	if n, _ := repo.CountByStatus(ctx, constants.StatusPending); n != 2 {
		t.Errorf("pending count = %d", n)
	}
	if total, _ := repo.TotalAmount(ctx); total != 600 {
		t.Errorf("total = %v", total)
	}
	if total, _ := repo.TotalAmountByStatus(ctx, constants.StatusApproved); total != 100 {
		t.Errorf("approved total = %v", total)
	}

	pending, err := repo.ListByStatus(ctx, constants.StatusPending, 10)
	if err != nil || len(pending) != 2 {
		t.Errorf("list pending: %v, %d rows", err, len(pending))
	}
}

func TestUserUpsertAndRole(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	u, err := repo.UpsertFromTelegram(ctx, 1001, "hoa", "Hoa", "Trần")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if u.Role != constants.RoleUser || !u.IsActive {
		t.Errorf("defaults wrong: %+v", u)
	}

	if err := repo.UpdateRole(ctx, 1001, constants.RoleAccountant); err != nil {
		t.Fatalf("update role: %v", err)
	}
	if err := repo.IncrementSubmitted(ctx, 1001); err != nil {
		t.Fatalf("increment: %v", err)
	}

	// second contact must keep role and counters, refresh the profile
	again, err := repo.UpsertFromTelegram(ctx, 1001, "hoa_vn", "Hoa", "Trần")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if again.ID != u.ID {
		t.Errorf("upsert created a second row: %d vs %d", again.ID, u.ID)
	}
	if again.Username != "hoa_vn" {
		t.Errorf("username not refreshed: %q", again.Username)
	}

	stored, err := repo.GetByTelegramID(ctx, 1001)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Role != constants.RoleAccountant {
		t.Errorf("role lost on upsert: %q", stored.Role)
	}
	if stored.TotalSubmitted != 1 {
		t.Errorf("counter lost on upsert: %d", stored.TotalSubmitted)
	}

	if err := repo.UpdateRole(ctx, 555, constants.RoleAdmin); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("unknown user role update should be ErrNotFound, got %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("list: %v, %d rows", err, len(all))
	}
}
