package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// bookRepository 图书仓储(MySQL)
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		Title:    b.Title,
		Author:   b.Author,
		Category: b.Category,
		Price:    b.Price,
		ImageURL: b.ImageURL,
		Stock:    b.Stock,
	}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, bookError(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Delete 软删除
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	params = params.Normalize()
	query := conn(ctx, r.db).Model(&BookModel{})

	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("title LIKE ? OR author LIKE ? OR category LIKE ?", kw, kw, kw)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	// id作为第二排序键,同一快照下结果稳定
	switch params.SortBy {
	case book.SortPriceAsc:
		query = query.Order("price ASC").Order("id DESC")
	case book.SortPriceDesc:
		query = query.Order("price DESC").Order("id DESC")
	default:
		query = query.Order("created_at DESC").Order("id DESC")
	}

	if params.PageSize > 0 {
		query = query.Limit(params.PageSize).Offset((params.Page - 1) * params.PageSize)
	}

	var models []BookModel
	if err := query.Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// LockByID SELECT ... FOR UPDATE,必须在事务中调用
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		return nil, bookError(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// UpdateStock UPDATE books SET stock = stock + ? WHERE id = ? AND stock + ? >= 0
func (r *bookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	db := conn(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ?", id).
		Where("stock + ? >= 0", delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// 0行:图书不存在或库存不足
	var model BookModel
	if err := db.Select("id").First(&model, id).Error; err != nil {
		return bookError(err, "查询图书失败")
	}
	return book.ErrInsufficientStock
}

func (r *bookRepository) SetStock(ctx context.Context, id uint, stock int) error {
	result := conn(ctx, r.db).Model(&BookModel{}).Where("id = ?", id).Update("stock", stock)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "设置库存失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}
	// 值未变化时MySQL也返回0行,再确认一次是否存在
	_, err := r.FindByID(ctx, id)
	return err
}

func bookError(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return book.ErrBookNotFound
	}
	return apperrors.Wrap(err, msg)
}

func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:        m.ID,
		Title:     m.Title,
		Author:    m.Author,
		Price:     m.Price,
		Category:  m.Category,
		ImageURL:  m.ImageURL,
		Stock:     m.Stock,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
