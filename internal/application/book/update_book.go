package book

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// UpdateBookUseCase 更新图书信息用例
// 支持部分更新:为空的字符串字段、负的价格表示"不修改"
// 更新成功后删除详情缓存,下次读取重建
type UpdateBookUseCase struct {
	bookService book.Service
	cache       DetailCache
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service, cache DetailCache) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// UpdateBookRequest 更新请求DTO
// ISBN不允许修改(业务主键);库存走独立的UpdateStockUseCase
type UpdateBookRequest struct {
	Title           string // 为空表示不修改
	Author          string
	Publisher       string
	Genre           string
	Description     string
	PublicationYear int   // 0表示不修改
	Price           int64 // 负数表示不修改
}

// Execute 执行更新用例
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, req UpdateBookRequest) (*BookResult, error) {
	b, err := uc.bookService.UpdateBook(
		ctx,
		id,
		req.Title,
		req.Author,
		req.Publisher,
		req.Genre,
		req.Description,
		req.PublicationYear,
		req.Price,
	)
	if err != nil {
		return nil, err
	}

	// 写后失效:删除旧缓存而不是写入新值,避免并发写导致缓存脏数据
	uc.cache.Delete(ctx, id)
	return toResult(b), nil
}
