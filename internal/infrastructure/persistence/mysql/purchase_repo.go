package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/purchase"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// purchaseRepository 订单仓储实现(MySQL)
// 设计说明:
// 1. Purchase和PurchaseItem是聚合关系,Create时一起保存
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. 事务通过context传递
type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository 创建订单仓储
func NewPurchaseRepository(db *gorm.DB) purchase.Repository {
	return &purchaseRepository{db: db}
}

// Create 创建订单(包含明细)
// GORM通过foreignKey自动保存关联的Items;必须在事务中调用
func (r *purchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	model := toPurchaseModel(p)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			// 订单号碰撞,概率极低(毫秒时间戳+随机后缀)
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号冲突,请重试")
		}
		return apperrors.Wrap(err, "创建订单失败")
	}

	// 回填自增ID
	p.ID = model.ID
	for i := range p.Items {
		p.Items[i].ID = model.Items[i].ID
		p.Items[i].PurchaseID = model.ID
	}
	return nil
}

// FindByID 根据ID查找订单(包含明细)
func (r *purchaseRepository) FindByID(ctx context.Context, id uint) (*purchase.Purchase, error) {
	var model PurchaseModel
	err := getDB(ctx, r.db).Preload("Items").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, purchase.ErrPurchaseNotFound.WithDetails(map[string]interface{}{
				"purchase_id": id,
			})
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return toPurchaseEntity(&model), nil
}

// FindByOrderNo 根据订单号查找订单
func (r *purchaseRepository) FindByOrderNo(ctx context.Context, orderNo string) (*purchase.Purchase, error) {
	var model PurchaseModel
	err := getDB(ctx, r.db).Preload("Items").Where("order_no = ?", orderNo).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, purchase.ErrPurchaseNotFound.WithDetails(map[string]interface{}{
				"order_no": orderNo,
			})
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return toPurchaseEntity(&model), nil
}

// Update 更新订单
// 只更新状态、折扣与金额字段,明细在创建后不可变
func (r *purchaseRepository) Update(ctx context.Context, p *purchase.Purchase) error {
	result := getDB(ctx, r.db).Model(&PurchaseModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"status":          int(p.Status),
			"discount_code":   p.DiscountCode,
			"discount_amount": p.DiscountAmount,
			"total_amount":    p.TotalAmount,
			"updated_at":      p.UpdatedAt,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单失败")
	}
	if result.RowsAffected == 0 {
		return purchase.ErrPurchaseNotFound.WithDetails(map[string]interface{}{
			"purchase_id": p.ID,
		})
	}
	return nil
}

// FindAll 查询全部订单(按下单时间倒序)
func (r *purchaseRepository) FindAll(ctx context.Context) ([]*purchase.Purchase, error) {
	var models []PurchaseModel
	err := getDB(ctx, r.db).Preload("Items").
		Order("purchase_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询订单列表失败")
	}
	return toPurchaseEntities(models), nil
}

// FindByStatus 按状态查询订单
func (r *purchaseRepository) FindByStatus(ctx context.Context, status purchase.Status) ([]*purchase.Purchase, error) {
	var models []PurchaseModel
	err := getDB(ctx, r.db).Preload("Items").
		Where("status = ?", int(status)).
		Order("purchase_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询订单列表失败")
	}
	return toPurchaseEntities(models), nil
}

// FindByCustomerEmail 按客户邮箱查询订单(忽略大小写)
func (r *purchaseRepository) FindByCustomerEmail(ctx context.Context, email string) ([]*purchase.Purchase, error) {
	var models []PurchaseModel
	err := getDB(ctx, r.db).Preload("Items").
		Where("LOWER(customer_email) = ?", strings.ToLower(email)).
		Order("purchase_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询订单列表失败")
	}
	return toPurchaseEntities(models), nil
}

// Count 订单总数
func (r *purchaseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&PurchaseModel{}).Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计订单失败")
	}
	return count, nil
}

// CountByStatus 指定状态的订单数
func (r *purchaseRepository) CountByStatus(ctx context.Context, status purchase.Status) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&PurchaseModel{}).
		Where("status = ?", int(status)).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计订单失败")
	}
	return count, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toPurchaseModel 领域实体 → GORM模型
func toPurchaseModel(p *purchase.Purchase) *PurchaseModel {
	items := make([]PurchaseItemModel, len(p.Items))
	for i, item := range p.Items {
		items[i] = PurchaseItemModel{
			ID:         item.ID,
			PurchaseID: item.PurchaseID,
			BookID:     item.BookID,
			BookTitle:  item.BookTitle,
			BookAuthor: item.BookAuthor,
			BookISBN:   item.BookISBN,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			Subtotal:   item.Subtotal,
		}
	}

	return &PurchaseModel{
		ID:              p.ID,
		OrderNo:         p.OrderNo,
		CustomerName:    p.CustomerName,
		CustomerEmail:   p.CustomerEmail,
		ShippingAddress: p.ShippingAddress,
		Subtotal:        p.Subtotal,
		DiscountAmount:  p.DiscountAmount,
		DiscountCode:    p.DiscountCode,
		TotalAmount:     p.TotalAmount,
		TotalItems:      p.TotalItems,
		Status:          int(p.Status),
		PurchaseDate:    p.PurchaseDate,
		Items:           items,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// toPurchaseEntity GORM模型 → 领域实体
func toPurchaseEntity(model *PurchaseModel) *purchase.Purchase {
	items := make([]purchase.PurchaseItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = purchase.PurchaseItem{
			ID:         item.ID,
			PurchaseID: item.PurchaseID,
			BookID:     item.BookID,
			BookTitle:  item.BookTitle,
			BookAuthor: item.BookAuthor,
			BookISBN:   item.BookISBN,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			Subtotal:   item.Subtotal,
		}
	}

	return &purchase.Purchase{
		ID:              model.ID,
		OrderNo:         model.OrderNo,
		CustomerName:    model.CustomerName,
		CustomerEmail:   model.CustomerEmail,
		ShippingAddress: model.ShippingAddress,
		Items:           items,
		Subtotal:        model.Subtotal,
		DiscountAmount:  model.DiscountAmount,
		DiscountCode:    model.DiscountCode,
		TotalAmount:     model.TotalAmount,
		TotalItems:      model.TotalItems,
		Status:          purchase.Status(model.Status),
		PurchaseDate:    model.PurchaseDate,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// toPurchaseEntities 批量转换
func toPurchaseEntities(models []PurchaseModel) []*purchase.Purchase {
	purchases := make([]*purchase.Purchase, len(models))
	for i := range models {
		purchases[i] = toPurchaseEntity(&models[i])
	}
	return purchases
}
