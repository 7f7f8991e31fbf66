package purchase

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/purchase"
)

// UpdateStatusUseCase 推进订单状态用例
// 目标状态由调用方以字符串传入(如 "SHIPPED"),状态机负责校验迁移合法性
type UpdateStatusUseCase struct {
	purchaseRepo purchase.Repository
	txManager    TxManager
	publisher    EventPublisher
	cancel       *CancelPurchaseUseCase
}

func NewUpdateStatusUseCase(
	purchaseRepo purchase.Repository,
	txManager TxManager,
	publisher EventPublisher,
	cancel *CancelPurchaseUseCase,
) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		purchaseRepo: purchaseRepo,
		txManager:    txManager,
		publisher:    publisher,
		cancel:       cancel,
	}
}

// Execute 将订单状态迁移到target
// 取消是特殊迁移:除了改状态还要回补库存,因此委托给CancelPurchaseUseCase,
// 避免出现"经由状态接口取消、库存却没有回补"的不一致路径
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, purchaseID uint, target string) (*PurchaseResult, error) {
	status, err := purchase.ParseStatus(target)
	if err != nil {
		return nil, err
	}
	if status == purchase.StatusCancelled {
		return uc.cancel.Execute(ctx, purchaseID)
	}

	var result *purchase.Purchase
	var fromStatus purchase.Status
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		p, err := uc.purchaseRepo.FindByID(txCtx, purchaseID)
		if err != nil {
			return err
		}
		fromStatus = p.Status
		if err := p.TransitionTo(status); err != nil {
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

	publishEvent(uc.publisher, EventPurchaseStatusUpdated, PurchaseStatusChangedEvent{
		PurchaseID: result.ID,
		OrderNo:    result.OrderNo,
		From:       fromStatus.String(),
		To:         result.Status.String(),
	})

	return toResult(result), nil
}
