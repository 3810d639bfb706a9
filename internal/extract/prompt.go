package extract

import "strings"

// BuildExtractionPrompt embeds the OCR text in a Vietnamese instruction that
// asks the model for a JSON object with exactly the invoice field list.
// Missing fields are to be reported as null; the validator resolves those to
// defaults.
func BuildExtractionPrompt(ocrText string) string {
	var b strings.Builder
	b.WriteString("Hãy phân tích văn bản hóa đơn sau và trích xuất thông tin theo định dạng JSON.\n\n")
	b.WriteString("Văn bản OCR:\n")
	b.WriteString(ocrText)
	b.WriteString("\n\nHãy trích xuất các thông tin sau (nếu không tìm thấy thì để null):\n")
	b.WriteString(`1. invoice_number: Số hóa đơn
2. invoice_date: Ngày hóa đơn (định dạng YYYY-MM-DD)
3. supplier_name: Tên nhà cung cấp/người bán
4. supplier_tax_code: Mã số thuế
5. supplier_address: Địa chỉ
6. subtotal: Tiền trước thuế (số)
7. tax_rate: Thuế suất % (số)
8. tax_amount: Tiền thuế (số)
9. total_amount: Tổng tiền (số)
10. description: Mô tả/nội dung hóa đơn
11. items: Danh sách sản phẩm/dịch vụ (nếu có)

Trả về CHÍNH XÁC theo định dạng JSON sau (không thêm text nào khác):
{
    "invoice_number": "...",
    "invoice_date": "YYYY-MM-DD",
    "supplier_name": "...",
    "supplier_tax_code": "...",
    "supplier_address": "...",
    "subtotal": 0.0,
    "tax_rate": 10.0,
    "tax_amount": 0.0,
    "total_amount": 0.0,
    "description": "...",
    "items": "..."
}
`)
	return b.String()
}

// SystemPrompt frames the model as an accounting specialist; used by providers
// that support a separate system role.
const SystemPrompt = "Bạn là một chuyên gia kế toán, nhiệm vụ của bạn là trích xuất thông tin từ hóa đơn."
