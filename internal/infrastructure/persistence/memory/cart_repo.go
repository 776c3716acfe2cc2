package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/bookshelf/internal/domain/cart"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

type cartRepository struct {
	s *Store
}

func (r *cartRepository) ListByUser(ctx context.Context, userID uint) ([]*cart.Line, error) {
	var lines []*cart.Line
	err := r.s.run(ctx, func(t *tables) error {
		lines = linesOf(t, userID)
		return nil
	})
	return lines, err
}

func (r *cartRepository) LockByUser(ctx context.Context, userID uint) ([]*cart.Line, error) {
	return r.ListByUser(ctx, userID)
}

func (r *cartRepository) LockByUserAndBook(ctx context.Context, userID, bookID uint) (*cart.Line, error) {
	var found *cart.Line
	err := r.s.run(ctx, func(t *tables) error {
		for _, l := range t.lines {
			if l.UserID == userID && l.BookID == bookID {
				found = copyLine(l)
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *cartRepository) FindByID(ctx context.Context, userID, lineID uint) (*cart.Line, error) {
	return r.LockByID(ctx, userID, lineID)
}

func (r *cartRepository) LockByID(ctx context.Context, userID, lineID uint) (*cart.Line, error) {
	var found *cart.Line
	err := r.s.run(ctx, func(t *tables) error {
		l, ok := t.lines[lineID]
		if !ok || l.UserID != userID {
			return cart.ErrLineNotFound
		}
		found = copyLine(l)
		return nil
	})
	return found, err
}

func (r *cartRepository) Create(ctx context.Context, line *cart.Line) error {
	return r.s.run(ctx, func(t *tables) error {
		for _, l := range t.lines {
			if l.UserID == line.UserID && l.BookID == line.BookID {
				return apperrors.New(apperrors.ErrCodeDuplicateEntry, "购物车行已存在")
			}
		}
		now := time.Now()
		line.ID = t.nextID()
		line.CreatedAt, line.UpdatedAt = now, now
		t.lines[line.ID] = copyLine(line)
		return nil
	})
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, lineID uint, quantity int) error {
	return r.s.run(ctx, func(t *tables) error {
		l, ok := t.lines[lineID]
		if !ok {
			return cart.ErrLineNotFound
		}
		l.Quantity = quantity
		l.UpdatedAt = time.Now()
		return nil
	})
}

func (r *cartRepository) Delete(ctx context.Context, userID uint, lineIDs ...uint) (int64, error) {
	var n int64
	err := r.s.run(ctx, func(t *tables) error {
		for _, id := range lineIDs {
			if l, ok := t.lines[id]; ok && l.UserID == userID {
				delete(t.lines, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *cartRepository) DeleteByBook(ctx context.Context, bookID uint) (int64, error) {
	var n int64
	err := r.s.run(ctx, func(t *tables) error {
		for id, l := range t.lines {
			if l.BookID == bookID {
				delete(t.lines, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *cartRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.s.run(ctx, func(t *tables) error {
		for id, l := range t.lines {
			if l.UserID == userID {
				delete(t.lines, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func linesOf(t *tables, userID uint) []*cart.Line {
	lines := make([]*cart.Line, 0)
	for _, l := range t.lines {
		if l.UserID == userID {
			lines = append(lines, copyLine(l))
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines
}
