package book

import (
	"github.com/xiebiao/bookshelf/internal/domain/book"
)

const timeLayout = "2006-01-02 15:04:05"

// BookInfo 图书DTO
type BookInfo struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Price     int64  `json:"price"` // 分
	Category  string `json:"category"`
	ImageURL  string `json:"image_url"`
	Stock     int    `json:"stock"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toBookInfo(b *book.Book) BookInfo {
	return BookInfo{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Price:     b.Price,
		Category:  b.Category,
		ImageURL:  b.ImageURL,
		Stock:     b.Stock,
		CreatedAt: b.CreatedAt.Format(timeLayout),
		UpdatedAt: b.UpdatedAt.Format(timeLayout),
	}
}
