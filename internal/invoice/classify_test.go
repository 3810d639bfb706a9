package invoice

import (
	"testing"

	"github.com/hvtran/accounting-bot/constants"
)

func TestClassifyCategory(t *testing.T) {
	tests := []struct {
		desc string
		want constants.Category
	}{
		{"Tiền điện tháng 12", constants.CategoryTienIch},
		{"Lương nhân viên tháng 12", constants.CategoryNhanSu},
		{"Cước internet văn phòng", constants.CategoryVienThong},
		{"Mua giấy in và bút bi", constants.CategoryVanPhongPham},
		{"Thuê mặt bằng quý 1", constants.CategoryThueMatBang},
		{"Chạy quảng cáo facebook ads", constants.CategoryMarketing},
		{"Khóa học excel cho kế toán", constants.CategoryDaoTao},
		{"Phí vận chuyển hàng hóa", constants.CategoryVanChuyen},
		{"Đổ xăng xe công ty", constants.CategoryXangXe},
		{"Đóng bhxh tháng này", constants.CategoryBaoHiem},
		{"Nộp thuế môn bài", constants.CategoryThuePhi},
		{"Sửa chữa máy lạnh", constants.CategorySuaChua},
		{"Phân bổ khấu hao thiết bị", constants.CategoryKhauHao},
		{"Mua nguyên vật liệu sản xuất", constants.CategoryNguyenVatLieu},
		{"Tiếp khách nhà hàng ABC", constants.CategoryAnUong},
		{"In ấn catalogue sản phẩm", constants.CategoryInAn},
		{"Gia hạn license phần mềm", constants.CategoryPhanMem},
		{"Lãi vay ngân hàng", constants.CategoryTaiChinh},
		{"Mua máy móc dụng cụ mới", constants.CategoryThietBi},
		{"Khám sức khỏe định kỳ", constants.CategoryYTe},
		{"Quà tặng lễ tết đối tác", constants.CategoryQuaTang},
		{"Tư vấn luật sư hợp đồng", constants.CategoryDichVu},
		{"abc xyz", constants.CategoryKhac},
		{"", constants.CategoryKhac},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := ClassifyCategory(tt.desc); got != string(tt.want) {
				t.Errorf("ClassifyCategory(%q) = %q, want %q", tt.desc, got, tt.want)
			}
		})
	}
}

// Rule order is behavior: "điện thoại" contains "điện", so a phone bill with
// overlapping keywords lands on whichever rule comes first. This pins the
// current precedence.
func TestClassifyCategoryPrecedence(t *testing.T) {
	if got := ClassifyCategory("hóa đơn tiền điện"); got != string(constants.CategoryTienIch) {
		t.Errorf("plain electricity bill got %q", got)
	}
	// "cước phí" is a telecom keyword but "điện" wins by rule order
	if got := ClassifyCategory("cước phí điện thoại"); got != string(constants.CategoryTienIch) {
		t.Errorf("overlapping keywords should break ties by rule order, got %q", got)
	}

	// descriptions whose later-rule keywords collide with an earlier rule
	// land on the earlier one
	collisions := []struct {
		desc string
		want constants.Category
	}{
		// "văn phòng" (rent) beats "thiết bị" (equipment)
		{"Mua thiết bị văn phòng mới", constants.CategoryThueMatBang},
		// "nhân viên" (personnel) beats "quà tặng" (gifts)
		{"Quà tặng sinh nhật nhân viên", constants.CategoryNhanSu},
		// "phí" (taxes and fees) beats "tư vấn" (services)
		{"Phí tư vấn luật sư", constants.CategoryThuePhi},
	}
	for _, tt := range collisions {
		if got := ClassifyCategory(tt.desc); got != string(tt.want) {
			t.Errorf("ClassifyCategory(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

func TestClassifyAccount(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"Tiền điện tháng 12", constants.AccountQuanLy},
		{"Lương nhân viên tháng 12", constants.AccountLuong},
		{"Chạy quảng cáo facebook", constants.AccountBanHang},
		{"Thuê văn phòng", constants.AccountQuanLy},
		{"abc xyz", constants.AccountQuanLy},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := ClassifyAccount(tt.desc); got != tt.want {
				t.Errorf("ClassifyAccount(%q) = %q, want %q", tt.desc, got, tt.want)
			}
		})
	}
}

// The account and category classifiers are independent rule sets and may
// disagree: a telecom expense is account 642 but category telecom.
func TestClassifierIndependence(t *testing.T) {
	desc := "Cước internet tháng 5"
	if acc := ClassifyAccount(desc); acc != constants.AccountQuanLy {
		t.Errorf("account = %q, want 642", acc)
	}
	if cat := ClassifyCategory(desc); cat != string(constants.CategoryVienThong) {
		t.Errorf("category = %q, want telecom", cat)
	}
}
