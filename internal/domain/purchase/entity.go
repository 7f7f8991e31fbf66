package purchase

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// Purchase 订单实体(聚合根)
// DDD设计说明:
// 1. Purchase是聚合根,PurchaseItem是聚合内的子实体,随聚合一起创建/销毁
// 2. OrderNo是业务主键(全局唯一,人类可读)
// 3. Subtotal/TotalAmount等金额冗余存储,由RecalculateTotals统一维护,
//    防止改价攻击,也避免每次读取都重复计算
// 4. 订单永不物理删除:取消/退款是终态,不是删除
type Purchase struct {
	ID              uint
	OrderNo         string // 订单号(业务主键,全局唯一)
	CustomerName    string // 客户姓名
	CustomerEmail   string // 客户邮箱
	ShippingAddress string // 收货地址
	Items           []PurchaseItem
	Subtotal        int64  // 明细小计之和(分)
	DiscountAmount  int64  // 折扣金额(分)
	DiscountCode    string // 归一化折扣码,未使用时为空
	TotalAmount     int64  // 实付金额(分) = max(0, Subtotal-DiscountAmount)
	TotalItems      int    // 商品总件数
	Status          Status
	PurchaseDate    time.Time // 下单时间,创建后不可变
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PurchaseItem 订单明细项
// 设计说明:
// 1. 不是独立聚合根,必须通过Purchase访问
// 2. BookTitle/BookAuthor/BookISBN/UnitPrice是下单时的快照,
//    创建后绝不从Book重新计算 —— 商家改价、删书都不影响历史订单
// 3. BookID只是弱引用(用于取消时回补库存),图书被删除后引用失效,
//    快照数据依然完整
type PurchaseItem struct {
	ID         uint
	PurchaseID uint   // 所属订单ID
	BookID     uint   // 图书ID(弱引用)
	BookTitle  string // 快照:书名
	BookAuthor string // 快照:作者
	BookISBN   string // 快照:ISBN
	Quantity   int    // 购买数量(>=1)
	UnitPrice  int64  // 快照:下单时单价(分)
	Subtotal   int64  // 明细小计(分) = UnitPrice × Quantity
}

// NewPurchaseItem 从图书创建明细项(捕获快照)
func NewPurchaseItem(b *book.Book, quantity int) (*PurchaseItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	item := &PurchaseItem{
		BookID:     b.ID,
		BookTitle:  b.Title,
		BookAuthor: b.Author,
		BookISBN:   b.ISBN,
		Quantity:   quantity,
		UnitPrice:  b.Price,
	}
	item.calculateSubtotal()
	return item, nil
}

// SetQuantity 修改数量并重算小计
func (i *PurchaseItem) SetQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	i.Quantity = quantity
	i.calculateSubtotal()
	return nil
}

// calculateSubtotal 重算明细小计
func (i *PurchaseItem) calculateSubtotal() {
	i.Subtotal = i.UnitPrice * int64(i.Quantity)
}

// NewPurchase 创建新订单(工厂方法)
// 初始状态为Pending,订单号与下单时间在此生成
func NewPurchase(customerName, customerEmail, shippingAddress string) *Purchase {
	now := time.Now()
	return &Purchase{
		OrderNo:         GenerateOrderNo(),
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		ShippingAddress: shippingAddress,
		Status:          StatusPending,
		PurchaseDate:    now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// AddItem 添加明细项并重算金额
func (p *Purchase) AddItem(item PurchaseItem) {
	p.Items = append(p.Items, item)
	p.RecalculateTotals()
}

// RemoveItem 按下标移除明细项并重算金额
// 说明:购买流程本身不会拆单,此方法供聚合内部维护使用
func (p *Purchase) RemoveItem(index int) {
	if index < 0 || index >= len(p.Items) {
		return
	}
	p.Items = append(p.Items[:index], p.Items[index+1:]...)
	p.RecalculateTotals()
}

// SetItems 整体替换明细并重算金额
func (p *Purchase) SetItems(items []PurchaseItem) {
	p.Items = items
	p.RecalculateTotals()
}

// RecalculateTotals 重算所有金额字段
// 核心业务规则:
// 1. Subtotal = 所有明细小计之和
// 2. TotalItems = 所有明细数量之和
// 3. TotalAmount = Subtotal - DiscountAmount,且永不为负
func (p *Purchase) RecalculateTotals() {
	var subtotal int64
	var totalItems int
	for _, item := range p.Items {
		subtotal += item.Subtotal
		totalItems += item.Quantity
	}
	p.Subtotal = subtotal
	p.TotalItems = totalItems

	p.TotalAmount = p.Subtotal - p.DiscountAmount
	if p.TotalAmount < 0 {
		p.TotalAmount = 0
	}
	p.UpdatedAt = time.Now()
}

// ApplyPercentageDiscount 应用百分比折扣
// 业务规则:
// 1. 百分比必须在0-100之间
// 2. 折扣金额 = 小计 × 百分比 / 100,四舍五入到分
// 3. 重复应用会整体覆盖之前的折扣(不叠加)
func (p *Purchase) ApplyPercentageDiscount(percent int64, code string) error {
	if percent < 0 || percent > 100 {
		return ErrInvalidDiscountPercent
	}
	p.DiscountCode = code
	// 整数四舍五入:先乘percent,加50后整除100(半进位到分)
	p.DiscountAmount = (p.Subtotal*percent + 50) / 100
	p.RecalculateTotals()
	return nil
}

// ApplyFixedDiscount 应用固定金额折扣
// 业务规则:
// 1. 金额不能为负
// 2. 折扣金额不能超过小计(防止负总价)
// 3. 重复应用会整体覆盖之前的折扣(不叠加)
func (p *Purchase) ApplyFixedDiscount(amount int64, code string) error {
	if amount < 0 {
		return ErrNegativeDiscountAmount
	}
	p.DiscountCode = code
	if amount > p.Subtotal {
		amount = p.Subtotal
	}
	p.DiscountAmount = amount
	p.RecalculateTotals()
	return nil
}

// ClearDiscount 清除已应用的折扣
func (p *Purchase) ClearDiscount() {
	p.DiscountCode = ""
	p.DiscountAmount = 0
	p.RecalculateTotals()
}

// CanTransitionTo 检查是否可以转换到目标状态
func (p *Purchase) CanTransitionTo(target Status) bool {
	return p.Status.CanTransitionTo(target)
}

// TransitionTo 状态转换
// 先按状态转换表校验,非法转换返回携带current/requested的错误
func (p *Purchase) TransitionTo(target Status) error {
	if !p.CanTransitionTo(target) {
		return NewInvalidTransitionError(p.Status, target)
	}
	p.Status = target
	p.UpdatedAt = time.Now()
	return nil
}

// Confirm 确认订单(领域行为)
// 业务规则:只有Pending状态的订单可以确认
func (p *Purchase) Confirm() error {
	if p.Status != StatusPending {
		return NewInvalidTransitionError(p.Status, StatusConfirmed)
	}
	return p.TransitionTo(StatusConfirmed)
}

// IsModifiable 判断订单是否可修改(可应用折扣)
// 只有Pending状态的订单可修改
func (p *Purchase) IsModifiable() bool {
	return p.Status == StatusPending
}

// IsCompleted 判断订单是否已完成(已送达)
func (p *Purchase) IsCompleted() bool {
	return p.Status == StatusDelivered
}
