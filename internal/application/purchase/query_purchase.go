package purchase

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/purchase"
)

// QueryPurchaseUseCase 订单查询用例
// 纯读操作,不开事务
type QueryPurchaseUseCase struct {
	purchaseRepo purchase.Repository
}

func NewQueryPurchaseUseCase(purchaseRepo purchase.Repository) *QueryPurchaseUseCase {
	return &QueryPurchaseUseCase{purchaseRepo: purchaseRepo}
}

// GetByID 按ID查询订单
func (uc *QueryPurchaseUseCase) GetByID(ctx context.Context, id uint) (*PurchaseResult, error) {
	p, err := uc.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResult(p), nil
}

// GetByOrderNo 按订单号查询订单
func (uc *QueryPurchaseUseCase) GetByOrderNo(ctx context.Context, orderNo string) (*PurchaseResult, error) {
	p, err := uc.purchaseRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	return toResult(p), nil
}

// ListAll 查询全部订单
func (uc *QueryPurchaseUseCase) ListAll(ctx context.Context) ([]*PurchaseResult, error) {
	list, err := uc.purchaseRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toResults(list), nil
}

// ListByStatus 按状态查询订单,status为英文状态字符串(如 "PENDING")
func (uc *QueryPurchaseUseCase) ListByStatus(ctx context.Context, status string) ([]*PurchaseResult, error) {
	s, err := purchase.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	list, err := uc.purchaseRepo.FindByStatus(ctx, s)
	if err != nil {
		return nil, err
	}
	return toResults(list), nil
}

// ListByCustomerEmail 按客户邮箱查询订单(不区分大小写)
func (uc *QueryPurchaseUseCase) ListByCustomerEmail(ctx context.Context, email string) ([]*PurchaseResult, error) {
	list, err := uc.purchaseRepo.FindByCustomerEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toResults(list), nil
}
