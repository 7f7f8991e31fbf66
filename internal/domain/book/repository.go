package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. 购买流程依赖LockByID+UpdateStock提供的事务级并发保证
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除)
	// 历史订单保留下单时的快照,不受删除影响
	Delete(ctx context.Context, id uint) error

	// ExistsByISBN 判断ISBN是否已存在
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)

	// ExistsByID 判断图书是否存在
	ExistsByID(ctx context.Context, id uint) (bool, error)

	// List 条件查询图书列表
	// params支持:关键词、作者、书名、分类、价格区间、仅有货、分页、排序
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书(用于订单创建时锁定库存)
	// 使用SELECT FOR UPDATE锁定行,防止并发超卖
	// 必须在事务中调用(通过context传递事务DB)
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateStock 更新库存(原子操作)
	// delta为正数表示增加,负数表示减少
	// 内部会检查库存是否充足,不足则返回ErrInsufficientStock
	UpdateStock(ctx context.Context, id uint, delta int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Keyword       string // 全文关键词(搜索标题、作者、出版社、描述)
	Author        string // 按作者模糊查询
	Title         string // 按书名模糊查询
	Genre         string // 按分类精确查询(忽略大小写)
	MinPrice      int64  // 价格下限(分),0表示不限
	MaxPrice      int64  // 价格上限(分),0表示不限
	AvailableOnly bool   // 仅返回有货图书
	Page          int    // 页码(从1开始)
	PageSize      int    // 每页数量
	SortBy        string // 排序字段(price_asc, price_desc, created_at_desc)
}
