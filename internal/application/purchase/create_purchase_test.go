package purchase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/discount"
	"github.com/xiebiao/bookshop/internal/domain/purchase"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

func newCreateUseCase(env *testEnv) *CreatePurchaseUseCase {
	return NewCreatePurchaseUseCase(
		env.purchaseRepo,
		env.bookRepo,
		env.txManager,
		discount.DefaultTable(),
		env.publisher,
	)
}

// TestCreatePurchase_Success 基本下单流程:扣库存+快照+金额计算
func TestCreatePurchase_Success(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook("9787111111111", "Go语言实战", 2599, 10)
	uc := newCreateUseCase(env)

	result, err := uc.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:    "张三",
		CustomerEmail:   "zhangsan@example.com",
		ShippingAddress: "北京市海淀区",
		Items:           []PurchaseLine{{BookID: b.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "PENDING", result.Status)
	assert.Equal(t, int64(5198), result.Subtotal)
	assert.Equal(t, int64(0), result.DiscountAmount)
	assert.Equal(t, int64(5198), result.TotalAmount)
	assert.Equal(t, 2, result.TotalItems)
	assert.NotEmpty(t, result.OrderNo)

	// 库存被扣减
	assert.Equal(t, 8, env.store.books[b.ID].Quantity)

	// 明细固化快照
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Go语言实战", result.Items[0].BookTitle)
	assert.Equal(t, int64(2599), result.Items[0].UnitPrice)

	// 发布了创建事件
	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, EventPurchaseCreated, env.publisher.events[0].routingKey)
}

// TestCreatePurchase_EndToEndWithSave20 完整场景:
// 书A(价格10.00,库存5),购买2本并使用SAVE20
// 期望:库存3,小计20.00,折扣4.00,实付16.00,状态PENDING,共2件
func TestCreatePurchase_EndToEndWithSave20(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook("111", "Book A", 1000, 5)
	uc := newCreateUseCase(env)

	result, err := uc.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:  "李四",
		CustomerEmail: "lisi@example.com",
		Items:         []PurchaseLine{{BookID: b.ID, Quantity: 2}},
		DiscountCode:  "SAVE20",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, env.store.books[b.ID].Quantity)
	assert.Equal(t, int64(2000), result.Subtotal)
	assert.Equal(t, int64(400), result.DiscountAmount)
	assert.Equal(t, int64(1600), result.TotalAmount)
	assert.Equal(t, "PENDING", result.Status)
	assert.Equal(t, 2, result.TotalItems)
	assert.Equal(t, "SAVE20", result.DiscountCode)
}

// TestCreatePurchase_DiscountCodeNormalized 折扣码忽略大小写与首尾空格
func TestCreatePurchase_DiscountCodeNormalized(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook("222", "Book B", 1000, 5)
	uc := newCreateUseCase(env)

	result, err := uc.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:  "王五",
		CustomerEmail: "wangwu@example.com",
		Items:         []PurchaseLine{{BookID: b.ID, Quantity: 1}},
		DiscountCode:  "  save10  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", result.DiscountCode)
	assert.Equal(t, int64(100), result.DiscountAmount)
}

// TestCreatePurchase_FixedDiscountClamped 固定折扣不超过小计
func TestCreatePurchase_FixedDiscountClamped(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook("333", "Book C", 300, 5) // 3.00元
	uc := newCreateUseCase(env)

	result, err := uc.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:  "赵六",
		CustomerEmail: "zhaoliu@example.com",
		Items:         []PurchaseLine{{BookID: b.ID, Quantity: 1}},
		DiscountCode:  "FLAT10", // 10元 > 小计3元
	})
	require.NoError(t, err)
	assert.Equal(t, int64(300), result.DiscountAmount)
	assert.Equal(t, int64(0), result.TotalAmount)
}

// TestCreatePurchase_EmptyItems 空明细拒绝下单
func TestCreatePurchase_EmptyItems(t *testing.T) {
	env := newTestEnv()
	uc := newCreateUseCase(env)

	_, err := uc.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:  "张三",
		CustomerEmail: "zhangsan@example.com",
	})
	assert.ErrorIs(t, err, purchase.ErrEmptyItems)
}

// TestCreatePurchase_InvalidQuantity 数量必须大于0
func TestCreatePurchase_InvalidQuantity(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook("444", "Book D", 1000, 5)
	uc := newCreateUseCase(env)

	for _, qty := range []int{0, -1} {
		_, err := uc.Execute(context.Background(), CreatePurchaseRequest{
			CustomerName:  "张三",
			CustomerEmail: "zhangsan@example.com",
			Items:         []PurchaseLine{{BookID: b.ID, Quantity: qty}},
		})
		assert.ErrorIs(t, err, purchase.ErrInvalidQuantity)
	}
	// 没有任何库存变化
	assert.Equal(t, 5, env.store.books[b.ID].Quantity)
}

// TestCreatePurchase_BookNotFound 明细引用不存在的图书
func TestCreatePurchase_BookNotFound(t *testing.T) {
	env := newTestEnv()
	uc := newCreateUseCase(env)

	_, err := uc.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:  "张三",
		CustomerEmail: "zhangsan@example.com",
		Items:         []PurchaseLine{{BookID: 999, Quantity: 1}},
	})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

// TestCreatePurchase_InsufficientStock 库存不足,无部分效果
func TestCreatePurchase_InsufficientStock(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook("555", "Book E", 1000, 3)
	uc := newCreateUseCase(env)

	_, err := uc.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:  "张三",
		CustomerEmail: "zhangsan@example.com",
		Items:         []PurchaseLine{{BookID: b.ID, Quantity: 5}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, book.ErrInsufficientStock)

	// 结构化上下文:isbn/requested/available
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "555", appErr.Details["isbn"])
	assert.Equal(t, 5, appErr.Details["requested"])
	assert.Equal(t, 3, appErr.Details["available"])

	// 库存与订单都没有变化
	assert.Equal(t, 3, env.store.books[b.ID].Quantity)
	assert.Empty(t, env.store.purchases)
}

// TestCreatePurchase_DuplicateLinesAggregated 同一本书出现在多行时,
// 库存校验必须按聚合后的总量进行(2+3 > 4 应当被拒绝)
func TestCreatePurchase_DuplicateLinesAggregated(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook("666", "Book F", 1000, 4)
	uc := newCreateUseCase(env)

	_, err := uc.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:  "张三",
		CustomerEmail: "zhangsan@example.com",
		Items: []PurchaseLine{
			{BookID: b.ID, Quantity: 2},
			{BookID: b.ID, Quantity: 3},
		},
	})
	assert.ErrorIs(t, err, book.ErrInsufficientStock)
	assert.Equal(t, 4, env.store.books[b.ID].Quantity)
}

// TestCreatePurchase_DuplicateLinesKeptSeparate 聚合只用于校验,
// 通过校验后每行保留为独立明细
func TestCreatePurchase_DuplicateLinesKeptSeparate(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook("777", "Book G", 1000, 10)
	uc := newCreateUseCase(env)

	result, err := uc.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:  "张三",
		CustomerEmail: "zhangsan@example.com",
		Items: []PurchaseLine{
			{BookID: b.ID, Quantity: 2},
			{BookID: b.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, 5, result.TotalItems)
	assert.Equal(t, 5, env.store.books[b.ID].Quantity)
}

// TestCreatePurchase_InvalidDiscountCode 无效折扣码在库存变更前被拒绝
func TestCreatePurchase_InvalidDiscountCode(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook("888", "Book H", 1000, 5)
	uc := newCreateUseCase(env)

	_, err := uc.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:  "张三",
		CustomerEmail: "zhangsan@example.com",
		Items:         []PurchaseLine{{BookID: b.ID, Quantity: 2}},
		DiscountCode:  "NOSUCHCODE",
	})
	assert.ErrorIs(t, err, discount.ErrInvalidDiscountCode)

	// 折扣码校验发生在库存扣减之前,库存保持原样
	assert.Equal(t, 5, env.store.books[b.ID].Quantity)
	assert.Empty(t, env.store.purchases)
}

// TestCreatePurchase_AtomicRollback 多本书下单部分失败时,
// 已扣减的库存全部回滚
func TestCreatePurchase_AtomicRollback(t *testing.T) {
	env := newTestEnv()
	b1 := env.seedBook("991", "Book I", 1000, 10)
	b2 := env.seedBook("992", "Book J", 1000, 1)
	uc := newCreateUseCase(env)

	_, err := uc.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:  "张三",
		CustomerEmail: "zhangsan@example.com",
		Items: []PurchaseLine{
			{BookID: b1.ID, Quantity: 2}, // 充足
			{BookID: b2.ID, Quantity: 5}, // 不足
		},
	})
	require.Error(t, err)

	assert.Equal(t, 10, env.store.books[b1.ID].Quantity)
	assert.Equal(t, 1, env.store.books[b2.ID].Quantity)
	assert.Empty(t, env.store.purchases)
	assert.Empty(t, env.publisher.events)
}

// TestCreatePurchase_OrderNoUnique 订单号全局唯一
func TestCreatePurchase_OrderNoUnique(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook("993", "Book K", 100, 1000)
	uc := newCreateUseCase(env)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		result, err := uc.Execute(context.Background(), CreatePurchaseRequest{
			CustomerName:  "张三",
			CustomerEmail: "zhangsan@example.com",
			Items:         []PurchaseLine{{BookID: b.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.False(t, seen[result.OrderNo], "订单号重复: %s", result.OrderNo)
		seen[result.OrderNo] = true
	}
}

// TestCreatePurchase_PriceFromCatalog 明细价格取自目录而非请求
func TestCreatePurchase_PriceFromCatalog(t *testing.T) {
	env := newTestEnv()
	b := env.seedBook("994", "Book L", 1999, 5)
	uc := newCreateUseCase(env)

	result, err := uc.Execute(context.Background(), CreatePurchaseRequest{
		CustomerName:  "张三",
		CustomerEmail: "zhangsan@example.com",
		Items:         []PurchaseLine{{BookID: b.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1999), result.Items[0].UnitPrice)

	// 后续改价不影响已生成的明细快照
	env.store.books[b.ID].Price = 9999
	assert.Equal(t, int64(1999), result.Items[0].UnitPrice)
}
