package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshelf/internal/domain/cart"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// cartRepository 购物车仓储(MySQL),所有查询都带user_id条件
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

func (r *cartRepository) ListByUser(ctx context.Context, userID uint) ([]*cart.Line, error) {
	return r.find(conn(ctx, r.db), userID)
}

func (r *cartRepository) LockByUser(ctx context.Context, userID uint) ([]*cart.Line, error) {
	return r.find(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (r *cartRepository) find(db *gorm.DB, userID uint) ([]*cart.Line, error) {
	var models []CartLineModel
	if err := db.Where("user_id = ?", userID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}
	lines := make([]*cart.Line, len(models))
	for i := range models {
		lines[i] = toLineEntity(&models[i])
	}
	return lines, nil
}

func (r *cartRepository) LockByUserAndBook(ctx context.Context, userID, bookID uint) (*cart.Line, error) {
	var model CartLineModel
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}
	return toLineEntity(&model), nil
}

func (r *cartRepository) FindByID(ctx context.Context, userID, lineID uint) (*cart.Line, error) {
	return r.findLine(conn(ctx, r.db), userID, lineID)
}

func (r *cartRepository) LockByID(ctx context.Context, userID, lineID uint) (*cart.Line, error) {
	return r.findLine(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), userID, lineID)
}

func (r *cartRepository) findLine(db *gorm.DB, userID, lineID uint) (*cart.Line, error) {
	var model CartLineModel
	err := db.Where("id = ? AND user_id = ?", lineID, userID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, cart.ErrLineNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}
	return toLineEntity(&model), nil
}

func (r *cartRepository) Create(ctx context.Context, line *cart.Line) error {
	model := &CartLineModel{
		UserID:   line.UserID,
		BookID:   line.BookID,
		Title:    line.Title,
		Price:    line.Price,
		ImageURL: line.ImageURL,
		Quantity: line.Quantity,
	}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "购物车行已存在").WithCause(err)
		}
		return apperrors.Wrap(err, "加入购物车失败")
	}
	line.ID = model.ID
	line.CreatedAt = model.CreatedAt
	line.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, lineID uint, quantity int) error {
	result := conn(ctx, r.db).Model(&CartLineModel{}).Where("id = ?", lineID).Update("quantity", quantity)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车数量失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrLineNotFound
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, userID uint, lineIDs ...uint) (int64, error) {
	if len(lineIDs) == 0 {
		return 0, nil
	}
	result := conn(ctx, r.db).Where("user_id = ? AND id IN ?", userID, lineIDs).Delete(&CartLineModel{})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "删除购物车行失败")
	}
	return result.RowsAffected, nil
}

func (r *cartRepository) DeleteByBook(ctx context.Context, bookID uint) (int64, error) {
	result := conn(ctx, r.db).Where("book_id = ?", bookID).Delete(&CartLineModel{})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "删除购物车行失败")
	}
	return result.RowsAffected, nil
}

func (r *cartRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := conn(ctx, r.db).Where("user_id = ?", userID).Delete(&CartLineModel{})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "清空购物车失败")
	}
	return result.RowsAffected, nil
}

func toLineEntity(m *CartLineModel) *cart.Line {
	return &cart.Line{
		ID:        m.ID,
		UserID:    m.UserID,
		BookID:    m.BookID,
		Title:     m.Title,
		Price:     m.Price,
		ImageURL:  m.ImageURL,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
