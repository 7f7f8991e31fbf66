package purchase

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/discount"
	"github.com/xiebiao/bookshop/internal/domain/purchase"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// CreatePurchaseUseCase 创建订单用例
// 这是整个项目最核心的用例:涉及事务处理、并发控制、业务规则校验
type CreatePurchaseUseCase struct {
	purchaseRepo purchase.Repository
	bookRepo     book.Repository
	txManager    TxManager
	discounts    discount.Table
	publisher    EventPublisher
}

// NewCreatePurchaseUseCase 创建下单用例
func NewCreatePurchaseUseCase(
	purchaseRepo purchase.Repository,
	bookRepo book.Repository,
	txManager TxManager,
	discounts discount.Table,
	publisher EventPublisher,
) *CreatePurchaseUseCase {
	return &CreatePurchaseUseCase{
		purchaseRepo: purchaseRepo,
		bookRepo:     bookRepo,
		txManager:    txManager,
		discounts:    discounts,
		publisher:    publisher,
	}
}

// CreatePurchaseRequest 下单请求DTO
type CreatePurchaseRequest struct {
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	Items           []PurchaseLine
	DiscountCode    string // 可选,空白表示不使用折扣
}

// PurchaseLine 下单明细行
// 同一图书允许出现在多行,库存校验前会先按图书聚合数量
type PurchaseLine struct {
	BookID   uint
	Quantity int
}

// Execute 执行下单用例
// 防止超卖的完整流程:
//
//  1. 校验折扣码(在任何库存变更之前 —— 无效折扣码不会留下已扣减的库存)
//  2. 开启事务,按ID升序逐本SELECT FOR UPDATE锁定图书
//     (固定加锁顺序,避免并发下单时互相持锁造成死锁)
//  3. 按图书聚合需求量后校验库存(同一本书出现在多行必须合并校验,
//     否则每行单独校验会放过"2+3>4"这类超卖)
//  4. 全部校验通过后才扣库存、生成快照明细
//  5. 应用折扣、落订单,事务提交
//
// 任何一步失败,事务回滚,库存与订单都不会留下部分效果
func (uc *CreatePurchaseUseCase) Execute(ctx context.Context, req CreatePurchaseRequest) (*PurchaseResult, error) {
	ctx, span := tracing.StartSpan(ctx, "bookshop/purchase", "CreatePurchase")
	defer span.End()
	start := time.Now()

	// 1. 参数校验
	if len(req.Items) == 0 {
		return nil, purchase.ErrEmptyItems
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, purchase.ErrInvalidQuantity
		}
	}

	// 2. 折扣码前置校验
	// 设计决策:折扣码在库存变更之前校验。原始流程把折扣放在扣库存之后,
	// 完全依赖外部事务边界回滚;前置校验让"无效折扣码"这种纯参数错误
	// 根本不进入事务,语义更直白
	var discountCode string
	var discountRule discount.Rule
	hasDiscount := discount.Normalize(req.DiscountCode) != ""
	if hasDiscount {
		var err error
		discountCode, discountRule, err = uc.discounts.Lookup(req.DiscountCode)
		if err != nil {
			return nil, err
		}
	}

	var result *purchase.Purchase
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 3. 按图书聚合需求量(校验用),并记录首次出现顺序无关的锁定顺序
		requested := make(map[uint]int)
		for _, line := range req.Items {
			requested[line.BookID] += line.Quantity
		}

		bookIDs := make([]uint, 0, len(requested))
		for id := range requested {
			bookIDs = append(bookIDs, id)
		}
		// 固定加锁顺序(ID升序),避免并发事务互相等待造成死锁
		sort.Slice(bookIDs, func(i, j int) bool { return bookIDs[i] < bookIDs[j] })

		// 4. 锁定图书并校验库存
		// LockByID执行SELECT FOR UPDATE,其他事务必须等待本事务结束
		// 才能访问同一行 —— 校验必须在锁定之后做,否则检查与扣减之间
		// 仍有并发窗口
		bookMap := make(map[uint]*book.Book, len(bookIDs))
		for _, id := range bookIDs {
			b, err := uc.bookRepo.LockByID(txCtx, id)
			if err != nil {
				return err
			}
			if !b.HasStock(requested[id]) {
				return book.ErrInsufficientStock.WithDetails(map[string]interface{}{
					"isbn":      b.ISBN,
					"requested": requested[id],
					"available": b.Quantity,
				})
			}
			bookMap[id] = b
		}

		// 5. 构建订单:按请求行顺序生成快照明细并扣减库存
		// 明细使用"锁定时的价格"而非调用方传递的价格(防止改价攻击),
		// 并固化书名/作者/ISBN快照,历史订单不受后续改价、删书影响
		p := purchase.NewPurchase(req.CustomerName, req.CustomerEmail, req.ShippingAddress)
		for _, line := range req.Items {
			b := bookMap[line.BookID]
			item, err := purchase.NewPurchaseItem(b, line.Quantity)
			if err != nil {
				return err
			}
			p.AddItem(*item)

			if err := uc.bookRepo.UpdateStock(txCtx, line.BookID, -line.Quantity); err != nil {
				return err
			}
		}

		// 6. 应用折扣(规则已在事务外校验通过)
		if hasDiscount {
			if err := applyRule(p, discountRule, discountCode); err != nil {
				return err
			}
		}

		// 7. 落订单(包含明细),事务提交
		if err := uc.purchaseRepo.Create(txCtx, p); err != nil {
			return err
		}

		result = p
		return nil
	})

	metrics.RecordPurchaseCreated(err == nil, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	log.Printf("订单创建成功: order_no=%s, total=%d, items=%d",
		result.OrderNo, result.TotalAmount, result.TotalItems)

	// 8. 发布事件(事务提交后,尽力而为)
	publishEvent(uc.publisher, EventPurchaseCreated, PurchaseCreatedEvent{
		PurchaseID:    result.ID,
		OrderNo:       result.OrderNo,
		CustomerEmail: result.CustomerEmail,
		TotalAmount:   result.TotalAmount,
		TotalItems:    result.TotalItems,
	})

	return toResult(result), nil
}

// applyRule 按规则类型将折扣应用到订单
func applyRule(p *purchase.Purchase, rule discount.Rule, code string) error {
	switch rule.Kind {
	case discount.KindPercentage:
		return p.ApplyPercentageDiscount(rule.Value, code)
	case discount.KindFixed:
		return p.ApplyFixedDiscount(rule.Value, code)
	default:
		return discount.ErrInvalidDiscountCode
	}
}
