package purchase

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/purchase"
)

// StatisticsUseCase 订单统计用例
type StatisticsUseCase struct {
	purchaseRepo purchase.Repository
}

func NewStatisticsUseCase(purchaseRepo purchase.Repository) *StatisticsUseCase {
	return &StatisticsUseCase{purchaseRepo: purchaseRepo}
}

// StatisticsResult 订单统计结果
// 金额字段同样使用"分",由接口层决定展示格式
type StatisticsResult struct {
	TotalPurchases     int64  `json:"total_purchases"`
	PendingPurchases   int64  `json:"pending_purchases"`
	ConfirmedPurchases int64  `json:"confirmed_purchases"`
	CancelledPurchases int64  `json:"cancelled_purchases"`
	TotalRevenue       int64  `json:"total_revenue"`
	TotalRevenueYuan   string `json:"total_revenue_yuan"`
}

// Execute 汇总订单统计
// 营收口径:排除已取消(CANCELLED)和已退款(REFUNDED)的订单,
// 其余状态(含待处理)的订单金额全部计入
func (uc *StatisticsUseCase) Execute(ctx context.Context) (*StatisticsResult, error) {
	total, err := uc.purchaseRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := uc.purchaseRepo.CountByStatus(ctx, purchase.StatusPending)
	if err != nil {
		return nil, err
	}
	confirmed, err := uc.purchaseRepo.CountByStatus(ctx, purchase.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	cancelled, err := uc.purchaseRepo.CountByStatus(ctx, purchase.StatusCancelled)
	if err != nil {
		return nil, err
	}

	all, err := uc.purchaseRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var revenue int64
	for _, p := range all {
		if p.Status == purchase.StatusCancelled || p.Status == purchase.StatusRefunded {
			continue
		}
		revenue += p.TotalAmount
	}

	return &StatisticsResult{
		TotalPurchases:     total,
		PendingPurchases:   pending,
		ConfirmedPurchases: confirmed,
		CancelledPurchases: cancelled,
		TotalRevenue:       revenue,
		TotalRevenueYuan:   formatPrice(revenue),
	}, nil
}
