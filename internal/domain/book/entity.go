package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,同时承担库存单元的角色
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. ISBN作为业务唯一标识(数据库层保证唯一性)
// 4. Quantity是当前可售库存,所有变更必须经过领域方法,保证不为负
type Book struct {
	ID              uint
	ISBN            string // ISBN号(国际标准书号)
	Title           string // 书名
	Author          string // 作者
	Publisher       string // 出版社
	PublicationYear int    // 出版年份
	Genre           string // 分类
	Price           int64  // 价格(单位:分,1元=100分)
	Quantity        int    // 库存数量
	Description     string // 图书描述
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 创建新图书(工厂方法)
// 参数说明:
// - isbn: ISBN号(需调用方先验证格式)
// - price: 价格(分),必须>=0
// - quantity: 初始库存,必须>=0
func NewBook(isbn, title, author, publisher string, publicationYear int, genre string, price int64, quantity int, description string) *Book {
	now := time.Now()
	return &Book{
		ISBN:            isbn,
		Title:           title,
		Author:          author,
		Publisher:       publisher,
		PublicationYear: publicationYear,
		Genre:           genre,
		Price:           price,
		Quantity:        quantity,
		Description:     description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// HasStock 判断库存是否满足需求量
func (b *Book) HasStock(amount int) bool {
	return b.Quantity >= amount
}

// IsAvailable 判断是否有货(库存>0)
func (b *Book) IsAvailable() bool {
	return b.Quantity > 0
}

// ReduceQuantity 扣减库存(用于订单创建)
// 业务规则:扣减后库存不能为负数,失败时库存不发生任何变化
func (b *Book) ReduceQuantity(amount int) error {
	if amount <= 0 {
		return ErrInvalidQuantity
	}
	if b.Quantity < amount {
		return ErrInsufficientStock.WithDetails(map[string]interface{}{
			"isbn":      b.ISBN,
			"requested": amount,
			"available": b.Quantity,
		})
	}
	b.Quantity -= amount
	b.UpdatedAt = time.Now()
	return nil
}

// AddQuantity 增加库存(用于订单取消、补货)
// 业务规则:增量不能为负数
func (b *Book) AddQuantity(amount int) error {
	if amount < 0 {
		return ErrInvalidQuantity
	}
	b.Quantity += amount
	b.UpdatedAt = time.Now()
	return nil
}

// SetQuantity 设置库存绝对值(用于盘点、库存修正)
// 业务规则:库存不能为负数
func (b *Book) SetQuantity(quantity int) error {
	if quantity < 0 {
		return ErrInvalidStock
	}
	b.Quantity = quantity
	b.UpdatedAt = time.Now()
	return nil
}

// UpdatePrice 更新价格(领域行为)
// 业务规则:价格必须>=0
func (b *Book) UpdatePrice(newPrice int64) error {
	if newPrice < 0 {
		return ErrInvalidPrice
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息(部分更新,空值跳过)
func (b *Book) UpdateInfo(title, author, publisher, genre, description string, publicationYear int) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	if publisher != "" {
		b.Publisher = publisher
	}
	if genre != "" {
		b.Genre = genre
	}
	if description != "" {
		b.Description = description
	}
	if publicationYear > 0 {
		b.PublicationYear = publicationYear
	}
	b.UpdatedAt = time.Now()
}
