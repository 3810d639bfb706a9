package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hvtran/accounting-bot/constants"
	"github.com/hvtran/accounting-bot/internal/entity"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.touchUser(ctx, msg)
	if err != nil {
		b.logger.Error("bot.command.user_error", "error", err)
		b.reply(msg.Chat.ID, "❌ Có lỗi xảy ra. Vui lòng thử lại.")
		return
	}

	cmd := msg.Command()
	b.logger.Info("bot.command", "command", cmd, "telegram_user_id", user.TelegramUserID)

	switch cmd {
	case "start":
		b.reply(msg.Chat.ID, welcomeText)
	case "help":
		b.reply(msg.Chat.ID, helpText)
	case "search":
		b.cmdSearch(ctx, msg)
	case "stats":
		b.cmdStats(ctx, msg)
	case "recent":
		b.cmdRecent(ctx, msg, user)
	case "excel":
		b.cmdExcel(ctx, msg, user)
	case "admin":
		b.cmdAdmin(ctx, msg, user)
	case "pending":
		b.cmdPending(ctx, msg, user)
	case "users":
		b.cmdUsers(ctx, msg, user)
	case "setrole":
		b.cmdSetRole(ctx, msg, user)
	case "statsadmin":
		b.cmdStatsAdmin(ctx, msg, user)
	default:
		b.reply(msg.Chat.ID, "❓ Lệnh không hợp lệ. Dùng /help để xem danh sách lệnh.")
	}
}

func (b *Bot) cmdSearch(ctx context.Context, msg *tgbotapi.Message) {
	keyword := strings.TrimSpace(msg.CommandArguments())
	if keyword == "" {
		b.reply(msg.Chat.ID, "❌ Vui lòng nhập từ khóa tìm kiếm.\nVí dụ: /search Công ty ABC")
		return
	}

	invs, err := b.invoices.Search(ctx, keyword, 10)
	if err != nil {
		b.logger.Error("bot.search.error", "error", err)
		b.reply(msg.Chat.ID, "❌ Có lỗi xảy ra khi tìm kiếm.")
		return
	}
	if len(invs) == 0 {
		b.reply(msg.Chat.ID, "❌ Không tìm thấy hóa đơn nào.")
		return
	}

	var out strings.Builder
	fmt.Fprintf(&out, "<b>Tìm thấy %d hóa đơn:</b>\n\n", len(invs))
	for _, inv := range invs {
		out.WriteString(formatBrief(inv))
	}
	b.reply(msg.Chat.ID, out.String())
}

func (b *Bot) cmdStats(ctx context.Context, msg *tgbotapi.Message) {
	now := time.Now()
	firstDay := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	invs, err := b.invoices.ListByDateRange(ctx, firstDay, now)
	if err != nil {
		b.logger.Error("bot.stats.error", "error", err)
		b.reply(msg.Chat.ID, "❌ Có lỗi xảy ra khi tính thống kê.")
		return
	}
	if len(invs) == 0 {
		b.reply(msg.Chat.ID, "❌ Chưa có dữ liệu trong tháng này.")
		return
	}

	var total float64
	byCategory := map[string]float64{}
	byAccount := map[string]float64{}
	for _, inv := range invs {
		total += inv.TotalAmount
		byCategory[inv.Category] += inv.TotalAmount
		byAccount[inv.AccountCode] += inv.TotalAmount
	}

	var out strings.Builder
	fmt.Fprintf(&out, "📊 <b>THỐNG KÊ THÁNG %d/%d</b>\n\n", now.Month(), now.Year())
	out.WriteString("📈 <b>Tổng quan:</b>\n")
	fmt.Fprintf(&out, "• Số lượng HĐ: %d\n", len(invs))
	fmt.Fprintf(&out, "• Tổng giá trị: %s VNĐ\n", formatVND(total))
	fmt.Fprintf(&out, "• Trung bình: %s VNĐ/HĐ\n\n", formatVND(total/float64(len(invs))))
	out.WriteString("💼 <b>Theo danh mục:</b>\n")
	for _, kv := range topAmounts(byCategory, 5) {
		fmt.Fprintf(&out, "• %s: %s VNĐ\n", kv.key, formatVND(kv.amount))
	}
	out.WriteString("\n📂 <b>Theo tài khoản:</b>\n")
	for _, kv := range topAmounts(byAccount, 5) {
		fmt.Fprintf(&out, "• TK %s: %s VNĐ\n", kv.key, formatVND(kv.amount))
	}
	b.reply(msg.Chat.ID, out.String())
}

type amountByKey struct {
	key    string
	amount float64
}

func topAmounts(m map[string]float64, n int) []amountByKey {
	out := make([]amountByKey, 0, len(m))
	for k, v := range m {
		out = append(out, amountByKey{k, v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].amount > out[j].amount })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (b *Bot) cmdRecent(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	invs, err := b.invoices.ListByUser(ctx, user.TelegramUserID, 10)
	if err != nil {
		b.logger.Error("bot.recent.error", "error", err)
		b.reply(msg.Chat.ID, "❌ Có lỗi xảy ra.")
		return
	}
	if len(invs) == 0 {
		b.reply(msg.Chat.ID, "❌ Chưa có hóa đơn nào.")
		return
	}

	var out strings.Builder
	out.WriteString("<b>🕐 10 hóa đơn gần nhất:</b>\n\n")
	for _, inv := range invs {
		out.WriteString(formatBrief(inv))
	}
	b.reply(msg.Chat.ID, out.String())
}

func (b *Bot) cmdExcel(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	b.reply(msg.Chat.ID, "📊 Đang tạo file Excel...")

	data, err := b.exporter.ExportInvoicesXLSX(ctx, nil, nil)
	if err != nil {
		b.logger.Error("bot.excel.error", "error", err)
		b.reply(msg.Chat.ID, "❌ Có lỗi xảy ra khi xuất Excel.")
		return
	}

	name := fmt.Sprintf("hoa_don_%s.xlsx", time.Now().Format("20060102_150405"))
	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = "✅ Đã xuất dữ liệu hóa đơn ra Excel!"
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("bot.excel.send_error", "error", err)
		b.reply(msg.Chat.ID, "❌ Không thể gửi file Excel.")
	}
}

func (b *Bot) cmdAdmin(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if !user.Role.CanApprove() {
		b.reply(msg.Chat.ID, "⛔ Bạn không có quyền truy cập chức năng này!")
		return
	}

	pendingCount, _ := b.invoices.CountByStatus(ctx, constants.StatusPending)
	users, _ := b.users.List(ctx)

	name := user.FirstName
	if name == "" {
		name = user.Username
	}
	var out strings.Builder
	out.WriteString("🔐 <b>ADMIN PANEL</b>\n\n")
	fmt.Fprintf(&out, "👤 Xin chào %s!\n", name)
	fmt.Fprintf(&out, "📊 Vai trò: <b>%s</b>\n\n", strings.ToUpper(string(user.Role)))
	out.WriteString("📈 <b>Thống kê:</b>\n")
	fmt.Fprintf(&out, "• Hóa đơn chờ duyệt: %d\n", pendingCount)
	fmt.Fprintf(&out, "• Tổng số users: %d\n\n", len(users))
	out.WriteString("<b>Các lệnh có sẵn:</b>\n/pending - Xem hóa đơn chờ duyệt\n/users - Quản lý users\n/statsadmin - Thống kê chi tiết\n/setrole - Phân quyền user")
	b.reply(msg.Chat.ID, out.String())
}

func (b *Bot) cmdPending(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if !user.Role.CanApprove() {
		b.reply(msg.Chat.ID, "⛔ Bạn không có quyền truy cập!")
		return
	}

	invs, err := b.invoices.ListByStatus(ctx, constants.StatusPending, 10)
	if err != nil {
		b.logger.Error("bot.pending.error", "error", err)
		b.reply(msg.Chat.ID, "❌ Có lỗi xảy ra.")
		return
	}
	if len(invs) == 0 {
		b.reply(msg.Chat.ID, "✅ Không có hóa đơn nào chờ duyệt!")
		return
	}

	for _, inv := range invs {
		b.replyWithKeyboard(msg.Chat.ID, formatPending(inv), approvalKeyboard(inv.ID))
	}
}

func (b *Bot) cmdUsers(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if !user.Role.CanApprove() {
		b.reply(msg.Chat.ID, "⛔ Bạn không có quyền!")
		return
	}

	users, err := b.users.List(ctx)
	if err != nil {
		b.logger.Error("bot.users.error", "error", err)
		b.reply(msg.Chat.ID, "❌ Có lỗi xảy ra.")
		return
	}

	roleIcons := map[constants.Role]string{
		constants.RoleAdmin:      "👑",
		constants.RoleAccountant: "📊",
		constants.RoleUser:       "👤",
	}

	var out strings.Builder
	out.WriteString("<b>👥 DANH SÁCH USERS</b>\n\n")
	shown := users
	if len(shown) > 20 {
		shown = shown[:20]
	}
	for _, u := range shown {
		status := "✅"
		if !u.IsActive {
			status = "❌"
		}
		icon := roleIcons[u.Role]
		if icon == "" {
			icon = "👤"
		}
		username := u.Username
		if username == "" {
			username = "N/A"
		}
		fmt.Fprintf(&out, "%s %s @%s - %s\n", status, icon, username, u.Role)
		fmt.Fprintf(&out, "   📈 Đã gửi: %d | Đã duyệt: %d\n\n", u.TotalSubmitted, u.TotalApproved)
	}
	fmt.Fprintf(&out, "\n<i>Tổng: %d users</i>", len(users))
	b.reply(msg.Chat.ID, out.String())
}

func (b *Bot) cmdSetRole(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if user.Role != constants.RoleAdmin {
		b.reply(msg.Chat.ID, "⛔ Bạn không có quyền!")
		return
	}

	parts := strings.Fields(msg.CommandArguments())
	if len(parts) < 2 {
		b.reply(msg.Chat.ID, "📝 Cú pháp: /setrole @username role\nRoles: user, accountant, admin")
		return
	}
	username := strings.TrimPrefix(parts[0], "@")
	role := constants.Role(strings.ToLower(parts[1]))
	if role != constants.RoleUser && role != constants.RoleAccountant && role != constants.RoleAdmin {
		b.reply(msg.Chat.ID, "❌ Role không hợp lệ! (user/accountant/admin)")
		return
	}

	target, err := b.findUserByUsername(ctx, username)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Không tìm thấy user @%s", username))
		return
	}
	if err := b.users.UpdateRole(ctx, target.TelegramUserID, role); err != nil {
		b.logger.Error("bot.setrole.error", "error", err)
		b.reply(msg.Chat.ID, "❌ Có lỗi xảy ra khi cập nhật role.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Đã cập nhật role cho @%s:\n📊 Role mới: <b>%s</b>", username, role))
}

func (b *Bot) findUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	users, err := b.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %q not found", username)
}

func (b *Bot) cmdStatsAdmin(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if !user.Role.CanApprove() {
		b.reply(msg.Chat.ID, "⛔ Bạn không có quyền!")
		return
	}

	total, _ := b.invoices.CountAll(ctx)
	pending, _ := b.invoices.CountByStatus(ctx, constants.StatusPending)
	approved, _ := b.invoices.CountByStatus(ctx, constants.StatusApproved)
	rejected, _ := b.invoices.CountByStatus(ctx, constants.StatusRejected)
	totalAmount, _ := b.invoices.TotalAmount(ctx)
	approvedAmount, _ := b.invoices.TotalAmountByStatus(ctx, constants.StatusApproved)

	approvalRate := 0.0
	if total > 0 {
		approvalRate = float64(approved) / float64(total) * 100
	}

	var out strings.Builder
	out.WriteString("📊 <b>THỐNG KÊ TỔNG QUAN</b>\n\n")
	out.WriteString("📄 <b>Hóa đơn:</b>\n")
	fmt.Fprintf(&out, "• Tổng số: %d\n", total)
	fmt.Fprintf(&out, "• Chờ duyệt: %d\n", pending)
	fmt.Fprintf(&out, "• Đã duyệt: %d\n", approved)
	fmt.Fprintf(&out, "• Từ chối: %d\n\n", rejected)
	out.WriteString("💰 <b>Tài chính:</b>\n")
	fmt.Fprintf(&out, "• Tổng giá trị: %s VNĐ\n", formatVND(totalAmount))
	fmt.Fprintf(&out, "• Đã duyệt: %s VNĐ\n", formatVND(approvedAmount))
	fmt.Fprintf(&out, "• Chờ duyệt: %s VNĐ\n\n", formatVND(totalAmount-approvedAmount))
	fmt.Fprintf(&out, "📈 <b>Tỷ lệ duyệt:</b> %.1f%%", approvalRate)
	b.reply(msg.Chat.ID, out.String())
}
