package purchase

import (
	"fmt"

	"github.com/xiebiao/bookshop/internal/domain/purchase"
)

// PurchaseResult 订单响应DTO
// 各用例共用同一响应形状,与HTTP层解耦
type PurchaseResult struct {
	ID              uint                 `json:"id"`
	OrderNo         string               `json:"order_no"`
	CustomerName    string               `json:"customer_name"`
	CustomerEmail   string               `json:"customer_email"`
	ShippingAddress string               `json:"shipping_address"`
	Items           []PurchaseItemResult `json:"items"`
	Subtotal        int64                `json:"subtotal"`
	SubtotalYuan    string               `json:"subtotal_yuan"`
	DiscountAmount  int64                `json:"discount_amount"`
	DiscountCode    string               `json:"discount_code,omitempty"`
	TotalAmount     int64                `json:"total_amount"`
	TotalYuan       string               `json:"total_yuan"`
	TotalItems      int                  `json:"total_items"`
	Status          string               `json:"status"`
	PurchaseDate    string               `json:"purchase_date"`
}

// PurchaseItemResult 订单明细响应DTO
type PurchaseItemResult struct {
	BookID     uint   `json:"book_id"`
	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
	BookISBN   string `json:"book_isbn"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	Subtotal   int64  `json:"subtotal"`
}

// toResult 领域实体 → 响应DTO
func toResult(p *purchase.Purchase) *PurchaseResult {
	items := make([]PurchaseItemResult, len(p.Items))
	for i, item := range p.Items {
		items[i] = PurchaseItemResult{
			BookID:     item.BookID,
			BookTitle:  item.BookTitle,
			BookAuthor: item.BookAuthor,
			BookISBN:   item.BookISBN,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			Subtotal:   item.Subtotal,
		}
	}

	return &PurchaseResult{
		ID:              p.ID,
		OrderNo:         p.OrderNo,
		CustomerName:    p.CustomerName,
		CustomerEmail:   p.CustomerEmail,
		ShippingAddress: p.ShippingAddress,
		Items:           items,
		Subtotal:        p.Subtotal,
		SubtotalYuan:    formatPrice(p.Subtotal),
		DiscountAmount:  p.DiscountAmount,
		DiscountCode:    p.DiscountCode,
		TotalAmount:     p.TotalAmount,
		TotalYuan:       formatPrice(p.TotalAmount),
		TotalItems:      p.TotalItems,
		Status:          p.Status.String(),
		PurchaseDate:    p.PurchaseDate.Format("2006-01-02 15:04:05"),
	}
}

// toResults 批量转换
func toResults(purchases []*purchase.Purchase) []*PurchaseResult {
	results := make([]*PurchaseResult, len(purchases))
	for i, p := range purchases {
		results[i] = toResult(p)
	}
	return results
}

// formatPrice 格式化价格(分→元)
func formatPrice(fen int64) string {
	return fmt.Sprintf("%.2f", float64(fen)/100.0)
}
