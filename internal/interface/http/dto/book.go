package dto

import (
	appbook "github.com/xiebiao/bookshop/internal/application/book"
)

// CreateBookRequest 图书入库请求
// 价格单位为分,避免浮点精度问题(99.00元 => 9900)
type CreateBookRequest struct {
	ISBN            string `json:"isbn" binding:"required,min=10,max=13" example:"9787111558422"`
	Title           string `json:"title" binding:"required,max=200" example:"Go语言程序设计"`
	Author          string `json:"author" binding:"required,max=100" example:"Alan A. A. Donovan"`
	Publisher       string `json:"publisher" binding:"omitempty,max=100" example:"机械工业出版社"`
	PublicationYear int    `json:"publication_year" binding:"omitempty,min=1000,max=2100" example:"2017"`
	Genre           string `json:"genre" binding:"omitempty,max=50" example:"programming"`
	Price           int64  `json:"price" binding:"required,min=1" example:"7900"`
	Quantity        int    `json:"quantity" binding:"min=0" example:"100"`
	Description     string `json:"description" binding:"omitempty,max=2000" example:"Go语言经典教程"`
}

// ToApplication 转换为应用层请求
func (r *CreateBookRequest) ToApplication() appbook.CreateBookRequest {
	return appbook.CreateBookRequest{
		ISBN:            r.ISBN,
		Title:           r.Title,
		Author:          r.Author,
		Publisher:       r.Publisher,
		PublicationYear: r.PublicationYear,
		Genre:           r.Genre,
		Price:           r.Price,
		Quantity:        r.Quantity,
		Description:     r.Description,
	}
}

// UpdateBookRequest 图书信息修改请求
// 所有字段均可选:空字符串/0年份表示不修改,价格传-1表示不修改
type UpdateBookRequest struct {
	Title           string `json:"title" binding:"omitempty,max=200" example:"Go语言程序设计(修订版)"`
	Author          string `json:"author" binding:"omitempty,max=100" example:"Alan A. A. Donovan"`
	Publisher       string `json:"publisher" binding:"omitempty,max=100" example:"机械工业出版社"`
	Genre           string `json:"genre" binding:"omitempty,max=50" example:"programming"`
	Description     string `json:"description" binding:"omitempty,max=2000" example:"新版增加泛型章节"`
	PublicationYear int    `json:"publication_year" binding:"omitempty,min=1000,max=2100" example:"2024"`
	Price           *int64 `json:"price" binding:"omitempty,min=1" example:"8900"`
}

// ToApplication 转换为应用层请求
// price使用指针区分"未传"和"传0":未传时转换为-1(应用层约定负数不修改)
func (r *UpdateBookRequest) ToApplication() appbook.UpdateBookRequest {
	price := int64(-1)
	if r.Price != nil {
		price = *r.Price
	}
	return appbook.UpdateBookRequest{
		Title:           r.Title,
		Author:          r.Author,
		Publisher:       r.Publisher,
		Genre:           r.Genre,
		Description:     r.Description,
		PublicationYear: r.PublicationYear,
		Price:           price,
	}
}

// UpdateStockRequest 库存设置请求(绝对值覆盖)
type UpdateStockRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0" example:"50"`
}

// ListBooksQuery 图书列表查询参数
type ListBooksQuery struct {
	Page          int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword       string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
	Author        string `form:"author" binding:"omitempty,max=100"`
	Title         string `form:"title" binding:"omitempty,max=200"`
	Genre         string `form:"genre" binding:"omitempty,max=50"`
	MinPrice      int64  `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice      int64  `form:"max_price" binding:"omitempty,min=0"`
	AvailableOnly bool   `form:"available_only"`
	SortBy        string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc created_at_desc"`
}

// ToApplication 转换为应用层请求
func (q *ListBooksQuery) ToApplication() appbook.ListBooksRequest {
	return appbook.ListBooksRequest{
		Page:          q.Page,
		PageSize:      q.PageSize,
		Keyword:       q.Keyword,
		Author:        q.Author,
		Title:         q.Title,
		Genre:         q.Genre,
		MinPrice:      q.MinPrice,
		MaxPrice:      q.MaxPrice,
		AvailableOnly: q.AvailableOnly,
		SortBy:        q.SortBy,
	}
}
