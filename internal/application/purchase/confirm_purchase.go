package purchase

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/purchase"
)

// ConfirmPurchaseUseCase 确认订单用例
// 只有待处理(PENDING)状态的订单可以确认
type ConfirmPurchaseUseCase struct {
	purchaseRepo purchase.Repository
	txManager    TxManager
	publisher    EventPublisher
}

func NewConfirmPurchaseUseCase(
	purchaseRepo purchase.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *ConfirmPurchaseUseCase {
	return &ConfirmPurchaseUseCase{
		purchaseRepo: purchaseRepo,
		txManager:    txManager,
		publisher:    publisher,
	}
}

// Execute 确认订单:PENDING -> CONFIRMED
func (uc *ConfirmPurchaseUseCase) Execute(ctx context.Context, purchaseID uint) (*PurchaseResult, error) {
	var result *purchase.Purchase
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		p, err := uc.purchaseRepo.FindByID(txCtx, purchaseID)
		if err != nil {
			return err
		}
		if err := p.Confirm(); err != nil {
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

	publishEvent(uc.publisher, EventPurchaseConfirmed, PurchaseStatusChangedEvent{
		PurchaseID: result.ID,
		OrderNo:    result.OrderNo,
		From:       purchase.StatusPending.String(),
		To:         result.Status.String(),
	})

	return toResult(result), nil
}
