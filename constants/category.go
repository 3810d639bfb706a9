package constants

// Category is a human-readable expense classification label.
// The taxonomy is independent of the chart-of-accounts codes in account.go.
type Category string

const (
	CategoryNhanSu        Category = "Chi Phí Nhân Sự"
	CategoryTienIch       Category = "Chi Phí Tiện Ích - Điện Nước"
	CategoryVienThong     Category = "Chi Phí Viễn Thông"
	CategoryVanPhongPham  Category = "Chi Phí Văn Phòng Phẩm"
	CategoryThueMatBang   Category = "Chi Phí Thuê Mặt Bằng"
	CategoryMarketing     Category = "Chi Phí Marketing & Quảng Cáo"
	CategoryDaoTao        Category = "Chi Phí Đào Tạo"
	CategoryVanChuyen     Category = "Chi Phí Vận Chuyển"
	CategoryXangXe        Category = "Chi Phí Xăng Xe & Đi Lại"
	CategoryBaoHiem       Category = "Chi Phí Bảo Hiểm"
	CategoryThuePhi       Category = "Chi Phí Thuế & Phí"
	CategorySuaChua       Category = "Chi Phí Sửa Chữa & Bảo Trì"
	CategoryKhauHao       Category = "Chi Phí Khấu Hao"
	CategoryNguyenVatLieu Category = "Chi Phí Nguyên Vật Liệu"
	CategoryAnUong        Category = "Chi Phí Ăn Uống & Tiếp Khách"
	CategoryInAn          Category = "Chi Phí In Ấn"
	CategoryPhanMem       Category = "Chi Phí Phần Mềm & Công Nghệ"
	CategoryTaiChinh      Category = "Chi Phí Tài Chính"
	CategoryThietBi       Category = "Chi Phí Đồ Dùng & Thiết Bị"
	CategoryYTe           Category = "Chi Phí Y Tế & An Toàn"
	CategoryQuaTang       Category = "Chi Phí Quà Tặng & Phúc Lợi"
	CategoryDichVu        Category = "Chi Phí Dịch Vụ Chuyên Nghiệp"
	CategoryKhac          Category = "Chi Phí Khác"
)

var allCategories = []Category{
	CategoryNhanSu,
	CategoryTienIch,
	CategoryVienThong,
	CategoryVanPhongPham,
	CategoryThueMatBang,
	CategoryMarketing,
	CategoryDaoTao,
	CategoryVanChuyen,
	CategoryXangXe,
	CategoryBaoHiem,
	CategoryThuePhi,
	CategorySuaChua,
	CategoryKhauHao,
	CategoryNguyenVatLieu,
	CategoryAnUong,
	CategoryInAn,
	CategoryPhanMem,
	CategoryTaiChinh,
	CategoryThietBi,
	CategoryYTe,
	CategoryQuaTang,
	CategoryDichVu,
	CategoryKhac,
}

// AllCategories returns every category label as a string slice.
func AllCategories() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}
