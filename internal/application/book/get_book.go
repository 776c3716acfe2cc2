package book

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// GetBookUseCase 图书详情
type GetBookUseCase struct {
	bookRepo book.Repository
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookRepo book.Repository) *GetBookUseCase {
	return &GetBookUseCase{bookRepo: bookRepo}
}

// Execute 不存在时返回ErrBookNotFound
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookInfo, error) {
	b, err := uc.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := toBookInfo(b)
	return &info, nil
}
