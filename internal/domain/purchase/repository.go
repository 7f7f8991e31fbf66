package purchase

import (
	"context"
)

// Repository 订单仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 订单和明细是聚合关系,Create必须在同一事务中保存两者
// 3. 事务通过context传递(配合TxManager使用)
type Repository interface {
	// Create 创建订单(包含订单明细)
	Create(ctx context.Context, p *Purchase) error

	// FindByID 根据ID查找订单(包含订单明细)
	FindByID(ctx context.Context, id uint) (*Purchase, error)

	// FindByOrderNo 根据订单号查找订单
	FindByOrderNo(ctx context.Context, orderNo string) (*Purchase, error)

	// Update 更新订单(状态、折扣与金额字段,不更新明细)
	Update(ctx context.Context, p *Purchase) error

	// FindAll 查询全部订单(按下单时间倒序)
	FindAll(ctx context.Context) ([]*Purchase, error)

	// FindByStatus 按状态查询订单
	FindByStatus(ctx context.Context, status Status) ([]*Purchase, error)

	// FindByCustomerEmail 按客户邮箱查询订单(忽略大小写)
	FindByCustomerEmail(ctx context.Context, email string) ([]*Purchase, error)

	// Count 订单总数
	Count(ctx context.Context) (int64, error)

	// CountByStatus 指定状态的订单数
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
