package dto

import (
	apppurchase "github.com/xiebiao/bookshop/internal/application/purchase"
)

// CreatePurchaseRequest 下单请求
type CreatePurchaseRequest struct {
	CustomerName    string                `json:"customer_name" binding:"required,max=100" example:"张三"`
	CustomerEmail   string                `json:"customer_email" binding:"required,email,max=100" example:"zhangsan@example.com"`
	ShippingAddress string                `json:"shipping_address" binding:"omitempty,max=500" example:"北京市海淀区中关村大街1号"`
	Items           []PurchaseLineRequest `json:"items" binding:"required,min=1,dive"`
	DiscountCode    string                `json:"discount_code" binding:"omitempty,max=32" example:"SAVE10"`
}

// PurchaseLineRequest 订单行:购买某本书若干册
type PurchaseLineRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1,max=999" example:"2"`
}

// ToApplication 转换为应用层请求
func (r *CreatePurchaseRequest) ToApplication() apppurchase.CreatePurchaseRequest {
	items := make([]apppurchase.PurchaseLine, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, apppurchase.PurchaseLine{
			BookID:   it.BookID,
			Quantity: it.Quantity,
		})
	}
	return apppurchase.CreatePurchaseRequest{
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		ShippingAddress: r.ShippingAddress,
		Items:           items,
		DiscountCode:    r.DiscountCode,
	}
}

// UpdateStatusRequest 订单状态流转请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,max=20" example:"CONFIRMED"`
}

// ApplyDiscountRequest 对已有订单追加/替换折扣码
type ApplyDiscountRequest struct {
	Code string `json:"code" binding:"required,max=32" example:"SAVE20"`
}
