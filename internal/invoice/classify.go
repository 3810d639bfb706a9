package invoice

import (
	"strings"

	"github.com/hvtran/accounting-bot/constants"
)

// categoryRule maps an ordered keyword set to a category label. Rules are
// evaluated top to bottom against the lower-cased description and the first
// rule with any keyword hit wins, so order is behavior: keyword sets overlap
// (e.g. "điện" belongs to utilities, "điện thoại" to telecom) and ties break
// by position, not specificity. The table is append-only; reordering existing
// entries changes classification results and needs review.
type categoryRule struct {
	label    constants.Category
	keywords []string
}

var categoryRules = []categoryRule{
	{constants.CategoryNhanSu, []string{"lương", "thưởng", "nhân viên", "nhân sự", "tiền công", "công lương"}},
	{constants.CategoryTienIch, []string{"điện", "nước", "điện nước"}},
	{constants.CategoryVienThong, []string{"internet", "điện thoại", "viễn thông", "di động", "cước phí", "wifi", "mạng"}},
	{constants.CategoryVanPhongPham, []string{"văn phòng phẩm", "giấy", "bút", "mực in", "bìa", "kẹp", "ghim", "bấm"}},
	{constants.CategoryThueMatBang, []string{"thuê", "mặt bằng", "văn phòng", "nhà xưởng", "kho", "cho thuê"}},
	{constants.CategoryMarketing, []string{"marketing", "quảng cáo", "pr", "truyền thông", "facebook ads", "google ads", "banner", "poster"}},
	{constants.CategoryDaoTao, []string{"đào tạo", "khóa học", "training", "hội thảo", "seminar", "workshop"}},
	{constants.CategoryVanChuyen, []string{"vận chuyển", "giao hàng", "ship", "xe tải", "chuyển hàng", "logistics", "cước phí vận chuyển"}},
	{constants.CategoryXangXe, []string{"xăng", "dầu", "nhiên liệu", "bảo dưỡng xe", "sửa xe", "taxi", "grab", "đi lại", "công tác phí"}},
	{constants.CategoryBaoHiem, []string{"bảo hiểm", "bhxh", "bhyt", "bhtn", "insurance"}},
	{constants.CategoryThuePhi, []string{"thuế", "phí", "lệ phí", "tax", "môn bài"}},
	{constants.CategorySuaChua, []string{"sửa chữa", "bảo trì", "bảo dưỡng", "maintenance", "repair"}},
	{constants.CategoryKhauHao, []string{"khấu hao", "depreciation", "phân bổ"}},
	{constants.CategoryNguyenVatLieu, []string{"nguyên liệu", "vật liệu", "nguyên vật liệu", "nvl", "materials", "raw material"}},
	{constants.CategoryAnUong, []string{"ăn uống", "tiếp khách", "cafe", "cà phê", "nhà hàng", "buffet", "tiệc", "đãi"}},
	{constants.CategoryInAn, []string{"in ấn", "photocopy", "photo", "scan", "printing", "catalogue", "brochure", "name card"}},
	{constants.CategoryPhanMem, []string{"phần mềm", "software", "license", "bản quyền", "hosting", "domain", "cloud", "saas"}},
	{constants.CategoryTaiChinh, []string{"lãi vay", "lãi suất", "ngân hàng", "chuyển khoản", "phí bank", "interest"}},
	{constants.CategoryThietBi, []string{"thiết bị", "máy móc", "dụng cụ", "đồ dùng", "equipment", "tools"}},
	{constants.CategoryYTe, []string{"y tế", "khám sức khỏe", "thuốc", "khẩu trang", "bảo hộ lao động", "atsk", "an toàn"}},
	{constants.CategoryQuaTang, []string{"quà", "tặng", "phúc lợi", "sinh nhật", "lễ tết", "kỷ niệm", "welfare"}},
	{constants.CategoryDichVu, []string{"tư vấn", "luật sư", "kế toán", "kiểm toán", "audit", "consulting", "dịch vụ"}},
}

// accountRule maps keywords to a chart-of-accounts code. This is a coarser,
// independent rule set. It is not derived from the category table, and the
// two classifications can legitimately disagree (a telecom bill is account
// 642 but category "Chi Phí Viễn Thông").
type accountRule struct {
	code     string
	keywords []string
}

var accountRules = []accountRule{
	{constants.AccountQuanLy, []string{"điện", "nước", "internet", "điện thoại", "viễn thông"}},
	{constants.AccountQuanLy, []string{"văn phòng phẩm", "giấy", "bút", "mực in"}},
	{constants.AccountLuong, []string{"lương", "thưởng", "nhân viên"}},
	{constants.AccountQuanLy, []string{"thuê", "mặt bằng", "văn phòng"}},
	{constants.AccountBanHang, []string{"marketing", "quảng cáo", "pr"}},
}

// ClassifyCategory maps a free-text description to one of the fixed category
// labels, defaulting to "Chi Phí Khác".
func ClassifyCategory(description string) string {
	desc := strings.ToLower(description)
	for _, rule := range categoryRules {
		if matchesAny(desc, rule.keywords) {
			return string(rule.label)
		}
	}
	return string(constants.CategoryKhac)
}

// ClassifyAccount maps a free-text description to a chart-of-accounts code,
// defaulting to 642.
func ClassifyAccount(description string) string {
	desc := strings.ToLower(description)
	for _, rule := range accountRules {
		if matchesAny(desc, rule.keywords) {
			return rule.code
		}
	}
	return constants.AccountQuanLy
}

func matchesAny(desc string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}
