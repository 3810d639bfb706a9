package bot

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/hvtran/accounting-bot/internal/entity"
)

func TestFormatVND(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1100000, "1,100,000"},
		{1100000.4, "1,100,000"},
		{1234567890, "1,234,567,890"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		if got := formatVND(tt.in); got != tt.want {
			t.Errorf("formatVND(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSaved(t *testing.T) {
	inv := &entity.Invoice{
		InvoiceNumber: "HD-001",
		InvoiceDate:   time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC),
		SupplierName:  "Công ty Điện Lực Hà Nội",
		TotalAmount:   1100000,
		AccountCode:   "642",
		Category:      "Chi Phí Tiện Ích - Điện Nước",
	}
	out := formatSaved(inv)
	for _, want := range []string{"HD-001", "05/12/2024", "1,100,000 VNĐ", "642", "Chi Phí Tiện Ích - Điện Nước"} {
		if !strings.Contains(out, want) {
			t.Errorf("saved message missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "⚠️") {
		t.Error("no warning expected without notes")
	}

	inv.Notes = "Số liệu không khớp"
	if out := formatSaved(inv); !strings.Contains(out, "⚠️") {
		t.Error("notes should surface as a warning")
	}
}

func TestFormatPendingTruncatesDescription(t *testing.T) {
	inv := &entity.Invoice{
		ID:            7,
		InvoiceNumber: "HD-long",
		InvoiceDate:   time.Now(),
		Description:   strings.Repeat("a", 200),
	}
	out := formatPending(inv)
	if !strings.Contains(out, strings.Repeat("a", 100)+"...") {
		t.Error("long description should be truncated with an ellipsis")
	}
	if strings.Contains(out, strings.Repeat("a", 101)) {
		t.Error("description exceeds the 100 char cap")
	}

	// Vietnamese text is multi-byte; the cut must land on a rune boundary.
	inv.Description = strings.Repeat("hóa đơn điện ", 20)
	out = formatPending(inv)
	if !utf8.ValidString(out) {
		t.Error("truncation split a multi-byte character")
	}
	if strings.Contains(out, "�") {
		t.Error("truncated description contains a replacement character")
	}
	if !strings.Contains(out, string([]rune(inv.Description)[:100])+"...") {
		t.Error("multi-byte description not truncated at 100 runes")
	}
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data   string
		action string
		id     int64
		ok     bool
	}{
		{"approve_17", "approve", 17, true},
		{"reject_3", "reject", 3, true},
		{"view_250", "view", 250, true},
		{"approve_", "", 0, false},
		{"approve_abc", "", 0, false},
		{"approve_-4", "", 0, false},
		{"nounderscore", "", 0, false},
		{"", "", 0, false},
	}
	for _, tt := range tests {
		action, id, ok := parseCallback(tt.data)
		if action != tt.action || id != tt.id || ok != tt.ok {
			t.Errorf("parseCallback(%q) = (%q, %d, %v), want (%q, %d, %v)",
				tt.data, action, id, ok, tt.action, tt.id, tt.ok)
		}
	}
}

func TestApprovalKeyboard(t *testing.T) {
	kb := approvalKeyboard(42)
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("keyboard rows = %d", len(kb.InlineKeyboard))
	}
	if got := *kb.InlineKeyboard[0][0].CallbackData; got != "approve_42" {
		t.Errorf("approve button data = %q", got)
	}
	if got := *kb.InlineKeyboard[0][1].CallbackData; got != "reject_42" {
		t.Errorf("reject button data = %q", got)
	}
	if got := *kb.InlineKeyboard[1][0].CallbackData; got != "view_42" {
		t.Errorf("view button data = %q", got)
	}
}
