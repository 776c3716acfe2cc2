package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/bookshelf/internal/domain/order"
)

type orderRepository struct {
	s *Store
}

func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.s.run(ctx, func(t *tables) error {
		o.ID = t.nextID()
		for i := range o.Items {
			o.Items[i].ID = t.nextID()
			o.Items[i].OrderID = o.ID
		}
		t.orders[o.ID] = copyOrder(o)
		return nil
	})
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var found *order.Order
	err := r.s.run(ctx, func(t *tables) error {
		o, ok := t.orders[id]
		if !ok {
			return order.ErrOrderNotFound
		}
		found = copyOrder(o)
		return nil
	})
	return found, err
}

func (r *orderRepository) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status order.Status) error {
	return r.s.run(ctx, func(t *tables) error {
		o, ok := t.orders[id]
		if !ok {
			return order.ErrOrderNotFound
		}
		o.Status = status
		o.UpdatedAt = time.Now()
		return nil
	})
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID uint) ([]*order.Order, error) {
	return r.list(ctx, func(o *order.Order) bool { return o.UserID == userID })
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*order.Order, error) {
	return r.list(ctx, func(*order.Order) bool { return true })
}

func (r *orderRepository) list(ctx context.Context, keep func(*order.Order) bool) ([]*order.Order, error) {
	orders := make([]*order.Order, 0)
	err := r.s.run(ctx, func(t *tables) error {
		for _, o := range t.orders {
			if keep(o) {
				orders = append(orders, copyOrder(o))
			}
		}
		return nil
	})
	// 最新的在前
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, err
}
