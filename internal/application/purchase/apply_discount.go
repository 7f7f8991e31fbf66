package purchase

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/discount"
	"github.com/xiebiao/bookshop/internal/domain/purchase"
)

// ApplyDiscountUseCase 为已有订单应用折扣码
// 只有待处理(PENDING)状态的订单可以修改金额;
// 重复应用以最后一次为准(先清除旧折扣再重算)
type ApplyDiscountUseCase struct {
	purchaseRepo purchase.Repository
	txManager    TxManager
	discounts    discount.Table
}

func NewApplyDiscountUseCase(
	purchaseRepo purchase.Repository,
	txManager TxManager,
	discounts discount.Table,
) *ApplyDiscountUseCase {
	return &ApplyDiscountUseCase{
		purchaseRepo: purchaseRepo,
		txManager:    txManager,
		discounts:    discounts,
	}
}

// Execute 应用折扣码并更新订单金额
func (uc *ApplyDiscountUseCase) Execute(ctx context.Context, purchaseID uint, code string) (*PurchaseResult, error) {
	normalized, rule, err := uc.discounts.Lookup(code)
	if err != nil {
		return nil, err
	}

	var result *purchase.Purchase
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		p, err := uc.purchaseRepo.FindByID(txCtx, purchaseID)
		if err != nil {
			return err
		}
		if !p.IsModifiable() {
			return purchase.NewInvalidStateError(p.Status)
		}
		if err := applyRule(p, rule, normalized); err != nil {
			return err
		}
		if err := uc.purchaseRepo.Update(txCtx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResult(result), nil
}
