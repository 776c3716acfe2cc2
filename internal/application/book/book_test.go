package book

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/cart"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	rediscache "github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

type fixture struct {
	repos    persistence.Repositories
	list     *ListBooksUseCase
	get      *GetBookUseCase
	create   *CreateBookUseCase
	remove   *DeleteBookUseCase
	setStock *SetStockUseCase
}

func newFixture(t *testing.T, cache book.ListCache) *fixture {
	t.Helper()
	repos := memory.NewRepositories(memory.New())
	logger := zap.NewNop()
	return &fixture{
		repos:    repos,
		list:     NewListBooksUseCase(repos.Books, cache, logger),
		get:      NewGetBookUseCase(repos.Books),
		create:   NewCreateBookUseCase(repos.Books, cache, logger),
		remove:   NewDeleteBookUseCase(repos.Books, repos.Carts, repos.Tx, cache, logger),
		setStock: NewSetStockUseCase(repos.Books, repos.Tx, cache, logger),
	}
}

func (f *fixture) mustCreate(t *testing.T, title string, price int64, stock int) *BookInfo {
	t.Helper()
	info, err := f.create.Execute(context.Background(), CreateBookRequest{
		Title:    title,
		Author:   "Author",
		Price:    price,
		Category: "Fiction",
		Stock:    stock,
	})
	require.NoError(t, err)
	return info
}

func TestCreateBook_Validation(t *testing.T) {
	f := newFixture(t, book.NopListCache{})

	tests := []struct {
		name string
		req  CreateBookRequest
		want error
	}{
		{name: "缺少书名", req: CreateBookRequest{Title: " ", Author: "A", Category: "C", Price: 100}, want: book.ErrTitleRequired},
		{name: "缺少作者", req: CreateBookRequest{Title: "T", Category: "C", Price: 100}, want: book.ErrAuthorRequired},
		{name: "缺少分类", req: CreateBookRequest{Title: "T", Author: "A", Price: 100}, want: book.ErrCategoryRequired},
		{name: "价格为0", req: CreateBookRequest{Title: "T", Author: "A", Category: "C"}, want: book.ErrInvalidPrice},
		{name: "库存为负", req: CreateBookRequest{Title: "T", Author: "A", Category: "C", Price: 100, Stock: -1}, want: book.ErrInvalidStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
		})
	}
}

func TestGetBook(t *testing.T) {
	f := newFixture(t, book.NopListCache{})
	created := f.mustCreate(t, "Dune", 4500, 3)

	got, err := f.get.Execute(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, 3, got.Stock)

	_, err = f.get.Execute(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func TestSetStock(t *testing.T) {
	f := newFixture(t, book.NopListCache{})
	ctx := context.Background()
	created := f.mustCreate(t, "Dune", 4500, 3)

	t.Run("负数被拒绝且库存不变", func(t *testing.T) {
		_, err := f.setStock.Execute(ctx, SetStockRequest{BookID: created.ID, Stock: -1})
		assert.ErrorIs(t, err, book.ErrInvalidStock)

		got, err := f.get.Execute(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Stock)
	})

	t.Run("直接覆盖", func(t *testing.T) {
		got, err := f.setStock.Execute(ctx, SetStockRequest{BookID: created.ID, Stock: 42})
		require.NoError(t, err)
		assert.Equal(t, 42, got.Stock)
	})

	t.Run("图书不存在", func(t *testing.T) {
		_, err := f.setStock.Execute(ctx, SetStockRequest{BookID: 999, Stock: 1})
		assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
	})
}

func TestDeleteBook_RemovesCartLines(t *testing.T) {
	f := newFixture(t, book.NopListCache{})
	ctx := context.Background()
	created := f.mustCreate(t, "Dune", 4500, 3)
	other := f.mustCreate(t, "Emma", 1500, 3)

	for _, id := range []uint{created.ID, other.ID} {
		b, err := f.repos.Books.FindByID(ctx, id)
		require.NoError(t, err)
		require.NoError(t, f.repos.Carts.Create(ctx, cart.NewLine(1, b)))
	}

	require.NoError(t, f.remove.Execute(ctx, created.ID))

	_, err := f.get.Execute(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)

	lines, err := f.repos.Carts.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, other.ID, lines[0].BookID)

	assert.ErrorIs(t, f.remove.Execute(ctx, created.ID), apperrors.ErrBookNotFound)
}

func TestListBooks(t *testing.T) {
	f := newFixture(t, book.NopListCache{})
	ctx := context.Background()
	f.mustCreate(t, "Dune", 4500, 3)
	f.mustCreate(t, "Emma", 1500, 0)
	f.mustCreate(t, "Ulysses", 9900, 1)

	t.Run("按价格升序分页", func(t *testing.T) {
		resp, err := f.list.Execute(ctx, ListBooksRequest{Page: 1, PageSize: 2, SortBy: book.SortPriceAsc})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Total)
		assert.Equal(t, 2, resp.TotalPages)
		require.Len(t, resp.List, 2)
		assert.Equal(t, "Emma", resp.List[0].Title)
		assert.Equal(t, "Dune", resp.List[1].Title)
	})

	t.Run("PageSize为0返回全部", func(t *testing.T) {
		resp, err := f.list.Execute(ctx, ListBooksRequest{})
		require.NoError(t, err)
		assert.Len(t, resp.List, 3)
		assert.Equal(t, 1, resp.TotalPages)
		assert.Equal(t, "Ulysses", resp.List[0].Title)
	})

	t.Run("关键词", func(t *testing.T) {
		resp, err := f.list.Execute(ctx, ListBooksRequest{Keyword: "uly"})
		require.NoError(t, err)
		require.Len(t, resp.List, 1)
		assert.Equal(t, "Ulysses", resp.List[0].Title)
	})
}

func TestListBooks_Cached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newFixture(t, rediscache.NewBookListCache(client, time.Minute))
	ctx := context.Background()
	created := f.mustCreate(t, "Dune", 4500, 3)

	first, err := f.list.Execute(ctx, ListBooksRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, first.List, 1)

	// 绕过用例直接改库,缓存仍返回旧值
	require.NoError(t, f.repos.Books.SetStock(ctx, created.ID, 0))
	cached, err := f.list.Execute(ctx, ListBooksRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, cached.List[0].Stock)

	// 通过用例修改会使缓存失效
	_, err = f.setStock.Execute(ctx, SetStockRequest{BookID: created.ID, Stock: 7})
	require.NoError(t, err)
	fresh, err := f.list.Execute(ctx, ListBooksRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 7, fresh.List[0].Stock)
}

func TestListBooks_CacheDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newFixture(t, rediscache.NewBookListCache(client, time.Minute))
	f.mustCreate(t, "Dune", 4500, 3)
	mr.Close()

	resp, err := f.list.Execute(context.Background(), ListBooksRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, resp.List, 1)
}
