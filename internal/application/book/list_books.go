package book

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// ListBooksUseCase 图书列表/搜索用例
// 设计说明:
// 1. 支持分页、关键词搜索、按作者/书名/分类/价格区间过滤、仅看有货
// 2. 列表项不返回description(减少数据传输量)
// 3. 为后续迁移到ElasticSearch做准备,过滤参数集中在ListParams
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page          int    // 页码(从1开始)
	PageSize      int    // 每页数量
	Keyword       string // 关键词(搜索标题、作者、出版社、描述)
	Author        string // 按作者模糊查询
	Title         string // 按书名模糊查询
	Genre         string // 按分类查询(忽略大小写)
	MinPrice      int64  // 价格下限(分)
	MaxPrice      int64  // 价格上限(分)
	AvailableOnly bool   // 仅返回有货图书
	SortBy        string // 排序方式(price_asc, price_desc, created_at_desc)
}

// BookListItem 列表项DTO(不含description)
type BookListItem struct {
	ID        uint   `json:"id"`
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Genre     string `json:"genre"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Available bool   `json:"available"`
	CreatedAt string `json:"created_at"`
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List       []BookListItem `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 参数默认值与范围限制
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	params := book.ListParams{
		Keyword:       req.Keyword,
		Author:        req.Author,
		Title:         req.Title,
		Genre:         req.Genre,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		AvailableOnly: req.AvailableOnly,
		Page:          req.Page,
		PageSize:      req.PageSize,
		SortBy:        req.SortBy,
	}

	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	list := make([]BookListItem, len(books))
	for i, b := range books {
		list[i] = BookListItem{
			ID:        b.ID,
			ISBN:      b.ISBN,
			Title:     b.Title,
			Author:    b.Author,
			Publisher: b.Publisher,
			Genre:     b.Genre,
			Price:     b.Price,
			Quantity:  b.Quantity,
			Available: b.IsAvailable(),
			CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}
