package book

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// DeleteBookUseCase 图书下架用例
// 软删除:历史订单保留下单时的快照,不受下架影响
type DeleteBookUseCase struct {
	bookService book.Service
	cache       DetailCache
}

// NewDeleteBookUseCase 创建下架用例
func NewDeleteBookUseCase(bookService book.Service, cache DetailCache) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// Execute 执行下架用例
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}
	uc.cache.Delete(ctx, id)
	return nil
}
