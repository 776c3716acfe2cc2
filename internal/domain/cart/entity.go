package cart

import (
	"time"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// Line 购物车行
//
// 同一用户同一本书最多一行(唯一索引 user_id + book_id)。
// 加入购物车时即扣减库存(软预留),行里保存加入时的书名、单价和封面快照。
type Line struct {
	ID        uint
	UserID    uint
	BookID    uint
	Title     string
	Price     int64 // 加入时的单价(分)
	ImageURL  string
	Quantity  int // >=1
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLine 以图书快照创建数量为1的行
func NewLine(userID uint, b *book.Book) *Line {
	now := time.Now()
	return &Line{
		UserID:    userID,
		BookID:    b.ID,
		Title:     b.Title,
		Price:     b.Price,
		ImageURL:  b.ImageURL,
		Quantity:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Subtotal 小计
func (l *Line) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Total 购物车合计
func Total(lines []*Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// IDs 行ID列表
func IDs(lines []*Line) []uint {
	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}
	return ids
}
