package cart

import (
	"errors"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/cart"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	tracerName = "application/cart"
)

// LineItem 购物车行DTO
type LineItem struct {
	ID       uint   `json:"id"`
	BookID   uint   `json:"book_id"`
	Title    string `json:"title"`
	Price    int64  `json:"price"` // 加入时单价(分)
	ImageURL string `json:"image_url"`
	Quantity int    `json:"quantity"`
	Subtotal int64  `json:"subtotal"`
	AddedAt  string `json:"added_at"`
}

func toLineItem(l *cart.Line) LineItem {
	return LineItem{
		ID:       l.ID,
		BookID:   l.BookID,
		Title:    l.Title,
		Price:    l.Price,
		ImageURL: l.ImageURL,
		Quantity: l.Quantity,
		Subtotal: l.Subtotal(),
		AddedAt:  l.CreatedAt.Format(timeLayout),
	}
}

// result 指标标签
func result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, book.ErrInsufficientStock):
		return "out_of_stock"
	case errors.Is(err, book.ErrBookNotFound), errors.Is(err, cart.ErrLineNotFound):
		return "not_found"
	default:
		return "error"
	}
}
