package purchase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/discount"
	"github.com/xiebiao/bookshop/internal/domain/purchase"
)

// workflowEnv 装配全部订单用例,模拟真实的服务装配
type workflowEnv struct {
	*testEnv
	create     *CreatePurchaseUseCase
	confirm    *ConfirmPurchaseUseCase
	cancel     *CancelPurchaseUseCase
	updateStat *UpdateStatusUseCase
	applyDisc  *ApplyDiscountUseCase
	query      *QueryPurchaseUseCase
	stats      *StatisticsUseCase
}

func newWorkflowEnv() *workflowEnv {
	env := newTestEnv()
	table := discount.DefaultTable()
	cancel := NewCancelPurchaseUseCase(env.purchaseRepo, env.bookRepo, env.txManager, env.publisher)
	return &workflowEnv{
		testEnv:    env,
		create:     NewCreatePurchaseUseCase(env.purchaseRepo, env.bookRepo, env.txManager, table, env.publisher),
		confirm:    NewConfirmPurchaseUseCase(env.purchaseRepo, env.txManager, env.publisher),
		cancel:     cancel,
		updateStat: NewUpdateStatusUseCase(env.purchaseRepo, env.txManager, env.publisher, cancel),
		applyDisc:  NewApplyDiscountUseCase(env.purchaseRepo, env.txManager, table),
		query:      NewQueryPurchaseUseCase(env.purchaseRepo),
		stats:      NewStatisticsUseCase(env.purchaseRepo),
	}
}

// mustCreate 创建一个订单作为测试前置条件
func (w *workflowEnv) mustCreate(t *testing.T, bookID uint, qty int) *PurchaseResult {
	t.Helper()
	result, err := w.create.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:  "张三",
		CustomerEmail: "zhangsan@example.com",
		Items:         []PurchaseLine{{BookID: bookID, Quantity: qty}},
	})
	require.NoError(t, err)
	return result
}

// TestConfirmPurchase 确认待处理订单
func TestConfirmPurchase(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("100", "Book", 1000, 10)
	created := w.mustCreate(t, b.ID, 1)

	result, err := w.confirm.Execute(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", result.Status)
}

// TestConfirmPurchase_NotPending 非待处理订单不能确认
func TestConfirmPurchase_NotPending(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("101", "Book", 1000, 10)
	created := w.mustCreate(t, b.ID, 1)

	_, err := w.confirm.Execute(context.Background(), created.ID)
	require.NoError(t, err)

	// 二次确认失败
	_, err = w.confirm.Execute(context.Background(), created.ID)
	assert.ErrorIs(t, err, purchase.ErrInvalidPurchaseState)
}

// TestConfirmPurchase_NotFound 订单不存在
func TestConfirmPurchase_NotFound(t *testing.T) {
	w := newWorkflowEnv()
	_, err := w.confirm.Execute(context.Background(), 12345)
	assert.ErrorIs(t, err, purchase.ErrPurchaseNotFound)
}

// TestCancelPurchase_RestoresInventory 取消订单回补库存
// 场景:库存10,购买3后取消,库存回到10
func TestCancelPurchase_RestoresInventory(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("102", "Book", 1000, 10)
	created := w.mustCreate(t, b.ID, 3)
	assert.Equal(t, 7, w.store.books[b.ID].Quantity)

	result, err := w.cancel.Execute(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", result.Status)
	assert.Equal(t, 10, w.store.books[b.ID].Quantity)
}

// TestCancelPurchase_BookDeleted 回补库存时图书已删除,跳过该明细
func TestCancelPurchase_BookDeleted(t *testing.T) {
	w := newWorkflowEnv()
	b1 := w.seedBook("103", "Book1", 1000, 10)
	b2 := w.seedBook("104", "Book2", 1000, 10)

	result, err := w.create.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:  "张三",
		CustomerEmail: "zhangsan@example.com",
		Items: []PurchaseLine{
			{BookID: b1.ID, Quantity: 2},
			{BookID: b2.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	// 下架第一本书
	delete(w.store.books, b1.ID)

	cancelled, err := w.cancel.Execute(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	// 第二本书的库存正常回补
	assert.Equal(t, 10, w.store.books[b2.ID].Quantity)
}

// TestCancelPurchase_ShippedRejected 已发货订单不能取消
func TestCancelPurchase_ShippedRejected(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("105", "Book", 1000, 10)
	created := w.mustCreate(t, b.ID, 2)

	// PENDING -> CONFIRMED -> PROCESSING -> SHIPPED
	for _, target := range []string{"CONFIRMED", "PROCESSING", "SHIPPED"} {
		_, err := w.updateStat.Execute(context.Background(), created.ID, target)
		require.NoError(t, err)
	}

	_, err := w.cancel.Execute(context.Background(), created.ID)
	assert.ErrorIs(t, err, purchase.ErrInvalidPurchaseState)
	// 库存不回补
	assert.Equal(t, 8, w.store.books[b.ID].Quantity)
}

// TestCancelPurchase_AlreadyCancelled 重复取消被拒绝
func TestCancelPurchase_AlreadyCancelled(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("106", "Book", 1000, 10)
	created := w.mustCreate(t, b.ID, 2)

	_, err := w.cancel.Execute(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = w.cancel.Execute(context.Background(), created.ID)
	assert.ErrorIs(t, err, purchase.ErrInvalidPurchaseState)
	// 库存不会被二次回补
	assert.Equal(t, 10, w.store.books[b.ID].Quantity)
}

// TestUpdateStatus_FullLifecycle 正常生命周期逐步推进
func TestUpdateStatus_FullLifecycle(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("107", "Book", 1000, 10)
	created := w.mustCreate(t, b.ID, 1)

	for _, target := range []string{"CONFIRMED", "PROCESSING", "SHIPPED", "DELIVERED", "REFUNDED"} {
		result, err := w.updateStat.Execute(context.Background(), created.ID, target)
		require.NoError(t, err, "推进到%s失败", target)
		assert.Equal(t, target, result.Status)
	}
}

// TestUpdateStatus_IllegalTransitions 非法迁移被状态机拒绝
func TestUpdateStatus_IllegalTransitions(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("108", "Book", 1000, 10)

	cases := []struct {
		name    string
		prepare []string // 先推进到的状态序列
		target  string
	}{
		{"待处理不能直接发货", nil, "SHIPPED"},
		{"待处理不能直接送达", nil, "DELIVERED"},
		{"待处理不能退款", nil, "REFUNDED"},
		{"已确认不能直接送达", []string{"CONFIRMED"}, "DELIVERED"},
		{"已发货不能回退", []string{"CONFIRMED", "PROCESSING", "SHIPPED"}, "PROCESSING"},
		{"已退款是终态", []string{"CONFIRMED", "PROCESSING", "SHIPPED", "DELIVERED", "REFUNDED"}, "CONFIRMED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			created := w.mustCreate(t, b.ID, 1)
			for _, s := range tc.prepare {
				_, err := w.updateStat.Execute(context.Background(), created.ID, s)
				require.NoError(t, err)
			}
			_, err := w.updateStat.Execute(context.Background(), created.ID, tc.target)
			assert.ErrorIs(t, err, purchase.ErrInvalidPurchaseState)
		})
	}
}

// TestUpdateStatus_UnknownStatus 无法识别的状态串
func TestUpdateStatus_UnknownStatus(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("109", "Book", 1000, 10)
	created := w.mustCreate(t, b.ID, 1)

	_, err := w.updateStat.Execute(context.Background(), created.ID, "TELEPORTED")
	assert.ErrorIs(t, err, purchase.ErrUnknownStatus)
}

// TestUpdateStatus_CancelDelegates 经状态接口取消同样回补库存
func TestUpdateStatus_CancelDelegates(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("110", "Book", 1000, 10)
	created := w.mustCreate(t, b.ID, 4)
	assert.Equal(t, 6, w.store.books[b.ID].Quantity)

	result, err := w.updateStat.Execute(context.Background(), created.ID, "CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", result.Status)
	assert.Equal(t, 10, w.store.books[b.ID].Quantity)
}

// TestApplyDiscount_Save10Rounding 折扣四舍五入:
// 小计19.99应用SAVE10 → 折扣2.00,实付17.99
func TestApplyDiscount_Save10Rounding(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("111", "Book", 1999, 10)
	created := w.mustCreate(t, b.ID, 1)

	result, err := w.applyDisc.Execute(context.Background(), created.ID, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, int64(1999), result.Subtotal)
	assert.Equal(t, int64(200), result.DiscountAmount)
	assert.Equal(t, int64(1799), result.TotalAmount)
	assert.Equal(t, "SAVE10", result.DiscountCode)
}

// TestApplyDiscount_ReplacesPrevious 重复应用以最后一次为准
func TestApplyDiscount_ReplacesPrevious(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("112", "Book", 1000, 10)
	created := w.mustCreate(t, b.ID, 2) // 小计20.00

	_, err := w.applyDisc.Execute(context.Background(), created.ID, "SAVE20")
	require.NoError(t, err)

	result, err := w.applyDisc.Execute(context.Background(), created.ID, "FLAT5")
	require.NoError(t, err)
	assert.Equal(t, int64(500), result.DiscountAmount)
	assert.Equal(t, int64(1500), result.TotalAmount)
	assert.Equal(t, "FLAT5", result.DiscountCode)
}

// TestApplyDiscount_NotModifiable 已确认订单不能再改折扣
func TestApplyDiscount_NotModifiable(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("113", "Book", 1000, 10)
	created := w.mustCreate(t, b.ID, 1)
	_, err := w.confirm.Execute(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = w.applyDisc.Execute(context.Background(), created.ID, "SAVE10")
	assert.ErrorIs(t, err, purchase.ErrInvalidPurchaseState)
}

// TestApplyDiscount_InvalidCode 无效折扣码不改变订单
func TestApplyDiscount_InvalidCode(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("114", "Book", 1000, 10)
	created := w.mustCreate(t, b.ID, 1)

	_, err := w.applyDisc.Execute(context.Background(), created.ID, "BOGUS")
	assert.ErrorIs(t, err, discount.ErrInvalidDiscountCode)

	unchanged, err := w.query.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unchanged.DiscountAmount)
	assert.Empty(t, unchanged.DiscountCode)
}

// TestQueryPurchase 各查询入口
func TestQueryPurchase(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("115", "Book", 1000, 100)
	p1 := w.mustCreate(t, b.ID, 1)
	p2 := w.mustCreate(t, b.ID, 2)
	_, err := w.confirm.Execute(context.Background(), p2.ID)
	require.NoError(t, err)

	byID, err := w.query.GetByID(context.Background(), p1.ID)
	require.NoError(t, err)
	assert.Equal(t, p1.OrderNo, byID.OrderNo)

	byNo, err := w.query.GetByOrderNo(context.Background(), p2.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, p2.ID, byNo.ID)

	all, err := w.query.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := w.query.ListByStatus(context.Background(), "PENDING")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	// 邮箱查询不区分大小写
	byEmail, err := w.query.ListByCustomerEmail(context.Background(), "ZHANGSAN@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Len(t, byEmail, 2)

	_, err = w.query.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, purchase.ErrPurchaseNotFound)

	_, err = w.query.ListByStatus(context.Background(), "NOPE")
	assert.ErrorIs(t, err, purchase.ErrUnknownStatus)
}

// TestStatistics 统计口径:
// 总数含全部订单;营收排除已取消/已退款
func TestStatistics(t *testing.T) {
	w := newWorkflowEnv()
	b := w.seedBook("116", "Book", 1000, 100)

	p1 := w.mustCreate(t, b.ID, 1) // PENDING, 10.00
	p2 := w.mustCreate(t, b.ID, 2) // → CONFIRMED, 20.00
	p3 := w.mustCreate(t, b.ID, 3) // → CANCELLED, 30.00
	_ = p1

	_, err := w.confirm.Execute(context.Background(), p2.ID)
	require.NoError(t, err)
	_, err = w.cancel.Execute(context.Background(), p3.ID)
	require.NoError(t, err)

	stats, err := w.stats.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalPurchases)
	assert.Equal(t, int64(1), stats.PendingPurchases)
	assert.Equal(t, int64(1), stats.ConfirmedPurchases)
	assert.Equal(t, int64(1), stats.CancelledPurchases)
	// 营收 = 10.00 + 20.00(取消的30.00不计入)
	assert.Equal(t, int64(3000), stats.TotalRevenue)
	assert.Equal(t, "30.00", stats.TotalRevenueYuan)
}
