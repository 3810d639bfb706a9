package constants

// Chart-of-accounts codes used by the account classifier. These follow the
// Vietnamese chart of accounts (thông tư 200) and are a fixed enumeration.
const (
	AccountQuanLy  = "642" // chi phí quản lý doanh nghiệp
	AccountBanHang = "641" // chi phí bán hàng
	AccountLuong   = "334" // phải trả người lao động
)
