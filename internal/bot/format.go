package bot

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hvtran/accounting-bot/internal/entity"
)

const welcomeText = `🤖 <b>Chào mừng đến với Bot Kế Toán!</b>

Bot này giúp bạn tự động xử lý và quản lý hóa đơn, chứng từ kế toán.

<b>📋 Các lệnh có sẵn:</b>

/start - Hiển thị hướng dẫn này
/help - Trợ giúp chi tiết
/stats - Xem thống kê tổng hợp
/excel - Xuất dữ liệu ra Excel
/search [từ khóa] - Tìm kiếm hóa đơn
/recent - Xem 10 hóa đơn gần nhất

<b>📸 Cách sử dụng:</b>

1️⃣ Gửi ảnh hoặc file PDF chứng từ vào đây
2️⃣ Bot sẽ tự động đọc và trích xuất thông tin
3️⃣ Dữ liệu được lưu vào cơ sở dữ liệu
4️⃣ Bạn có thể tra cứu và xuất báo cáo bất cứ lúc nào

<i>Hãy thử gửi một ảnh hóa đơn để bắt đầu!</i> ✨`

const helpText = `<b>📖 HƯỚNG DẪN SỬ DỤNG BOT</b>

<b>📋 LỆNH CƠ BẢN:</b>
/start - Hiển thị hướng dẫn
/help - Trợ giúp chi tiết
/stats - Thống kê tổng hợp
/recent - 10 hóa đơn mới nhất
/search [từ khóa] - Tìm theo tên/số HĐ
/excel - Xuất Excel

<b>🔐 ADMIN (Chỉ Admin/Accountant):</b>
/admin - Admin panel
/pending - Xem hóa đơn chờ duyệt
/users - Quản lý users
/setrole @username role - Phân quyền
/statsadmin - Thống kê chi tiết

<b>💡 CÁCH SỬ DỤNG:</b>
1️⃣ Gửi ảnh/PDF hóa đơn
2️⃣ Bot tự động OCR và trích xuất
3️⃣ Hóa đơn chờ admin duyệt
4️⃣ Tra cứu và xuất báo cáo

<b>⚠️ LƯU Ý:</b>
• Ảnh rõ ràng, không bị mờ
• Hỗ trợ tiếng Việt + Anh
• File tối đa: 20MB`

// formatVND renders an amount grouped by thousands, no decimals.
func formatVND(amount float64) string {
	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return sign + strings.Join(parts, ",")
}

// formatSaved builds the confirmation shown after an invoice is stored.
func formatSaved(inv *entity.Invoice) string {
	var b strings.Builder
	b.WriteString("✅ <b>Đã lưu hóa đơn thành công!</b>\n\n")
	b.WriteString("<b>Thông tin:</b>\n")
	fmt.Fprintf(&b, "📄 Số HĐ: %s\n", inv.InvoiceNumber)
	fmt.Fprintf(&b, "📅 Ngày: %s\n", inv.InvoiceDate.Format("02/01/2006"))
	fmt.Fprintf(&b, "🏢 NCC: %s\n", inv.SupplierName)
	fmt.Fprintf(&b, "💰 Tổng tiền: %s VNĐ\n\n", formatVND(inv.TotalAmount))
	fmt.Fprintf(&b, "📊 Tài khoản: %s\n", inv.AccountCode)
	fmt.Fprintf(&b, "📂 Danh mục: %s\n", inv.Category)
	if inv.Notes != "" {
		fmt.Fprintf(&b, "\n⚠️ %s\n", inv.Notes)
	}
	fmt.Fprintf(&b, "\n<i>Sử dụng /search %s để xem chi tiết</i>", inv.InvoiceNumber)
	return b.String()
}

// formatBrief is the short per-invoice block used in lists.
func formatBrief(inv *entity.Invoice) string {
	return fmt.Sprintf("📄 <b>%s</b>\n📅 %s\n🏢 %s\n💰 %s VNĐ\n%s\n",
		inv.InvoiceNumber,
		inv.InvoiceDate.Format("02/01/2006"),
		inv.SupplierName,
		formatVND(inv.TotalAmount),
		strings.Repeat("-", 25),
	)
}

// formatPending is the detailed block shown to approvers.
func formatPending(inv *entity.Invoice) string {
	desc := inv.Description
	if r := []rune(desc); len(r) > 100 {
		desc = string(r[:100]) + "..."
	}
	creator := inv.CreatedByUsername
	if creator == "" {
		creator = "N/A"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📄 <b>Hóa đơn #%d</b>\n\n", inv.ID)
	fmt.Fprintf(&b, "🔢 Số HĐ: %s\n", inv.InvoiceNumber)
	fmt.Fprintf(&b, "📅 Ngày: %s\n", inv.InvoiceDate.Format("02/01/2006"))
	fmt.Fprintf(&b, "🏢 Nhà CC: %s\n", inv.SupplierName)
	fmt.Fprintf(&b, "💰 Tổng tiền: <b>%s VNĐ</b>\n", formatVND(inv.TotalAmount))
	fmt.Fprintf(&b, "📝 Mô tả: %s\n", desc)
	fmt.Fprintf(&b, "👤 Người tạo: @%s\n\n", creator)
	fmt.Fprintf(&b, "📂 Danh mục: %s\n", inv.Category)
	fmt.Fprintf(&b, "🏷️ Mã TK: %s", inv.AccountCode)
	return b.String()
}
