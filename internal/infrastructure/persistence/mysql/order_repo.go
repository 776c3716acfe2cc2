package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshelf/internal/domain/order"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// orderRepository 订单仓储(MySQL)
// 订单与明细一起写入,查询时Preload明细避免N+1
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	return r.first(conn(ctx, r.db), id)
}

func (r *orderRepository) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	return r.first(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *orderRepository) first(db *gorm.DB, id uint) (*order.Order, error) {
	var model OrderModel
	if err := db.Preload("Items").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status order.Status) error {
	result := conn(ctx, r.db).Model(&OrderModel{}).Where("id = ?", id).Update("status", string(status))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单状态失败")
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID uint) ([]*order.Order, error) {
	return r.list(conn(ctx, r.db).Where("user_id = ?", userID))
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*order.Order, error) {
	return r.list(conn(ctx, r.db))
}

func (r *orderRepository) list(db *gorm.DB) ([]*order.Order, error) {
	var models []OrderModel
	if err := db.Preload("Items").Order("created_at DESC").Order("id DESC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询订单列表失败")
	}
	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, nil
}

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			BookID:   item.BookID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
			ImageURL: item.ImageURL,
		}
	}
	return &OrderModel{
		OrderNo:      o.OrderNo,
		UserID:       o.UserID,
		CustomerName: o.CustomerName,
		Address:      o.Address,
		Total:        o.Total,
		Status:       string(o.Status),
		Items:        items,
	}
}

func toOrderEntity(m *OrderModel) *order.Order {
	items := make([]order.Item, len(m.Items))
	for i, item := range m.Items {
		items[i] = order.Item{
			ID:       item.ID,
			OrderID:  item.OrderID,
			BookID:   item.BookID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
			ImageURL: item.ImageURL,
		}
	}
	return &order.Order{
		ID:           m.ID,
		OrderNo:      m.OrderNo,
		UserID:       m.UserID,
		CustomerName: m.CustomerName,
		Address:      m.Address,
		Total:        m.Total,
		Status:       order.Status(m.Status),
		Items:        items,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
