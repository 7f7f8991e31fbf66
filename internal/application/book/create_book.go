package book

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// CreateBookUseCase 图书入库用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO,与HTTP层解耦
// 3. 业务规则校验(ISBN格式、ISBN重复、价格/库存非负)由领域服务负责
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建入库用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
	}
}

// CreateBookRequest 入库请求DTO
type CreateBookRequest struct {
	ISBN            string // ISBN号(10位或13位)
	Title           string // 书名
	Author          string // 作者
	Publisher       string // 出版社
	PublicationYear int    // 出版年份
	Genre           string // 分类
	Price           int64  // 价格(分)
	Quantity        int    // 初始库存
	Description     string // 图书描述
}

// Execute 执行入库用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookResult, error) {
	b, err := uc.bookService.CreateBook(
		ctx,
		req.ISBN,
		req.Title,
		req.Author,
		req.Publisher,
		req.PublicationYear,
		req.Genre,
		req.Price,
		req.Quantity,
		req.Description,
	)
	if err != nil {
		return nil, err
	}
	return toResult(b), nil
}
