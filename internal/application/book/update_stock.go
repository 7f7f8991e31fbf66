package book

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// UpdateStockUseCase 库存盘点用例
// 直接把库存设置为指定数量(进货/盘点场景)
// 注意:购买流程的库存扣减不走这里,而是在订单事务内原子完成
type UpdateStockUseCase struct {
	bookService book.Service
	cache       DetailCache
}

// NewUpdateStockUseCase 创建库存盘点用例
func NewUpdateStockUseCase(bookService book.Service, cache DetailCache) *UpdateStockUseCase {
	return &UpdateStockUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// Execute 设置图书库存
func (uc *UpdateStockUseCase) Execute(ctx context.Context, id uint, quantity int) (*BookResult, error) {
	b, err := uc.bookService.UpdateStock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	uc.cache.Delete(ctx, id)
	return toResult(b), nil
}
