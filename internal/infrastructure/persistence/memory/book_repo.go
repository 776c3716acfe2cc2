package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

type bookRepository struct {
	s *Store
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	return r.s.run(ctx, func(t *tables) error {
		now := time.Now()
		b.ID = t.nextID()
		b.CreatedAt, b.UpdatedAt = now, now
		t.books[b.ID] = copyBook(b)
		return nil
	})
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var found *book.Book
	err := r.s.run(ctx, func(t *tables) error {
		b, ok := t.books[id]
		if !ok {
			return book.ErrBookNotFound
		}
		found = copyBook(b)
		return nil
	})
	return found, err
}

// LockByID 事务本身已串行,等同FindByID
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	return r.s.run(ctx, func(t *tables) error {
		if _, ok := t.books[id]; !ok {
			return book.ErrBookNotFound
		}
		delete(t.books, id)
		return nil
	})
}

func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	params = params.Normalize()
	var (
		result []*book.Book
		total  int64
	)
	err := r.s.run(ctx, func(t *tables) error {
		keyword := strings.ToLower(strings.TrimSpace(params.Keyword))
		matched := make([]*book.Book, 0, len(t.books))
		for _, b := range t.books {
			if keyword != "" && !matches(b, keyword) {
				continue
			}
			matched = append(matched, copyBook(b))
		}
		sortBooks(matched, params.SortBy)

		total = int64(len(matched))
		if params.PageSize == 0 {
			result = matched
			return nil
		}
		start := (params.Page - 1) * params.PageSize
		if start >= len(matched) {
			result = []*book.Book{}
			return nil
		}
		end := start + params.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		result = matched[start:end]
		return nil
	})
	return result, total, err
}

func (r *bookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	return r.s.run(ctx, func(t *tables) error {
		b, ok := t.books[id]
		if !ok {
			return book.ErrBookNotFound
		}
		if b.Stock+delta < 0 {
			return book.ErrInsufficientStock
		}
		b.Stock += delta
		b.UpdatedAt = time.Now()
		return nil
	})
}

func (r *bookRepository) SetStock(ctx context.Context, id uint, stock int) error {
	return r.s.run(ctx, func(t *tables) error {
		b, ok := t.books[id]
		if !ok {
			return book.ErrBookNotFound
		}
		b.Stock = stock
		b.UpdatedAt = time.Now()
		return nil
	})
}

func matches(b *book.Book, keyword string) bool {
	return strings.Contains(strings.ToLower(b.Title), keyword) ||
		strings.Contains(strings.ToLower(b.Author), keyword) ||
		strings.Contains(strings.ToLower(b.Category), keyword)
}

// sortBooks 与MySQL实现一致,同值时按ID倒序保证稳定
func sortBooks(books []*book.Book, sortBy string) {
	sort.SliceStable(books, func(i, j int) bool {
		a, b := books[i], books[j]
		switch sortBy {
		case book.SortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case book.SortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID > b.ID
	})
}
