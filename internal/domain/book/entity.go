package book

import (
	"strings"
	"time"
)

// Book 图书实体(聚合根)
// 价格以"分"为单位存储,避免浮点误差
type Book struct {
	ID        uint
	Title     string
	Author    string
	Price     int64  // 单价(分)
	Category  string // 分类,自由文本
	ImageURL  string // 封面图片URL
	Stock     int    // 库存,任何时刻>=0
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建图书(工厂方法),字段会去掉首尾空白
func NewBook(title, author, category, imageURL string, price int64, stock int) *Book {
	now := time.Now()
	return &Book{
		Title:     strings.TrimSpace(title),
		Author:    strings.TrimSpace(author),
		Price:     price,
		Category:  strings.TrimSpace(category),
		ImageURL:  strings.TrimSpace(imageURL),
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate 字段校验
func (b *Book) Validate() error {
	switch {
	case b.Title == "":
		return ErrTitleRequired
	case b.Author == "":
		return ErrAuthorRequired
	case b.Category == "":
		return ErrCategoryRequired
	case b.Price <= 0:
		return ErrInvalidPrice
	case b.Stock < 0:
		return ErrInvalidStock
	}
	return nil
}

// InStock 是否还有库存
func (b *Book) InStock() bool {
	return b.Stock > 0
}
