package book

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// GetBookUseCase 图书详情查询用例
// 详情是读热点(商品页),走Cache-Aside:
// 缓存命中直接返回;未命中回源数据库,再异步无所谓地写回缓存
type GetBookUseCase struct {
	bookService book.Service
	cache       DetailCache
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service, cache DetailCache) *GetBookUseCase {
	return &GetBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// ByID 按ID查询图书详情
func (uc *GetBookUseCase) ByID(ctx context.Context, id uint) (*BookResult, error) {
	if b, ok := uc.cache.Get(ctx, id); ok {
		return toResult(b), nil
	}

	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.cache.Set(ctx, b)
	return toResult(b), nil
}

// ByISBN 按ISBN查询图书详情
// ISBN查询频率低,不走缓存(缓存键按ID组织)
func (uc *GetBookUseCase) ByISBN(ctx context.Context, isbn string) (*BookResult, error) {
	b, err := uc.bookService.GetBookByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	return toResult(b), nil
}
