package purchase

import (
	"context"
	"errors"
	"log"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/purchase"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// CancelPurchaseUseCase 取消订单用例
// 取消时需要回补库存,与下单是一对互逆操作,同样必须放在一个事务里
type CancelPurchaseUseCase struct {
	purchaseRepo purchase.Repository
	bookRepo     book.Repository
	txManager    TxManager
	publisher    EventPublisher
}

func NewCancelPurchaseUseCase(
	purchaseRepo purchase.Repository,
	bookRepo book.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *CancelPurchaseUseCase {
	return &CancelPurchaseUseCase{
		purchaseRepo: purchaseRepo,
		bookRepo:     bookRepo,
		txManager:    txManager,
		publisher:    publisher,
	}
}

// Execute 取消订单并回补库存
// 已发货(SHIPPED)、已送达(DELIVERED)及已取消的订单不允许取消;
// 回补库存时如果某本书已被删除,跳过该书继续处理其余明细 ——
// 订单取消不应因为目录端的删书操作而失败
func (uc *CancelPurchaseUseCase) Execute(ctx context.Context, purchaseID uint) (*PurchaseResult, error) {
	var result *purchase.Purchase
	var fromStatus purchase.Status
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		p, err := uc.purchaseRepo.FindByID(txCtx, purchaseID)
		if err != nil {
			return err
		}
		fromStatus = p.Status

		if err := p.TransitionTo(purchase.StatusCancelled); err != nil {
			return err
		}

		// 回补库存
		for _, item := range p.Items {
			if err := uc.bookRepo.UpdateStock(txCtx, item.BookID, item.Quantity); err != nil {
				if errors.Is(err, book.ErrBookNotFound) {
					// 图书已下架,无处回补,记录后继续
					log.Printf("取消订单回补库存: 图书已删除, book_id=%d, isbn=%s",
						item.BookID, item.BookISBN)
					continue
				}
				return err
			}
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

	metrics.RecordPurchaseCancelled()
	publishEvent(uc.publisher, EventPurchaseCancelled, PurchaseStatusChangedEvent{
		PurchaseID: result.ID,
		OrderNo:    result.OrderNo,
		From:       fromStatus.String(),
		To:         result.Status.String(),
	})

	return toResult(result), nil
}
