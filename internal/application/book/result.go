package book

import (
	"fmt"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// BookResult 图书响应DTO
// 各用例共用,价格同时给出"分"与格式化后的"元"
type BookResult struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year"`
	Genre           string `json:"genre"`
	Price           int64  `json:"price"`
	PriceYuan       string `json:"price_yuan"`
	Quantity        int    `json:"quantity"`
	Available       bool   `json:"available"`
	Description     string `json:"description"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// toResult 领域实体 → 响应DTO
func toResult(b *book.Book) *BookResult {
	return &BookResult{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		Genre:           b.Genre,
		Price:           b.Price,
		PriceYuan:       fmt.Sprintf("%.2f", float64(b.Price)/100.0),
		Quantity:        b.Quantity,
		Available:       b.IsAvailable(),
		Description:     b.Description,
		CreatedAt:       b.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       b.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
