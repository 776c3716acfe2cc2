package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

const listVersionKey = "books:list:version"

// BookListCache 图书列表缓存
//
// key带版本号: books:list:v{ver}:{page}:{size}:{keyword}:{sort}
// 失效时INCR版本号,旧key不再被读到,靠TTL自然过期
type BookListCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ book.ListCache = (*BookListCache)(nil)

// NewBookListCache 创建列表缓存
func NewBookListCache(client *redis.Client, ttl time.Duration) *BookListCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BookListCache{client: client, ttl: ttl}
}

func (c *BookListCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, listVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func listKey(ver int64, p book.ListParams) string {
	return fmt.Sprintf("books:list:v%d:%d:%d:%s:%s", ver, p.Page, p.PageSize, p.Keyword, p.SortBy)
}

// GetList 未命中时page为nil
func (c *BookListCache) GetList(ctx context.Context, params book.ListParams) (*book.ListPage, int64, error) {
	ver, err := c.version(ctx)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "读取缓存版本失败")
	}

	data, err := c.client.Get(ctx, listKey(ver, params)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ver, nil
	}
	if err != nil {
		return nil, ver, apperrors.Wrap(err, "读取列表缓存失败")
	}

	var page book.ListPage
	if err := json.Unmarshal(data, &page); err != nil {
		// 格式变化后的旧数据当作未命中
		return nil, ver, nil
	}
	return &page, ver, nil
}

func (c *BookListCache) SetList(ctx context.Context, ver int64, params book.ListParams, page *book.ListPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return apperrors.Wrap(err, "序列化列表失败")
	}
	if err := c.client.Set(ctx, listKey(ver, params), data, c.ttl).Err(); err != nil {
		return apperrors.Wrap(err, "写入列表缓存失败")
	}
	return nil
}

func (c *BookListCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, listVersionKey).Err(); err != nil {
		return apperrors.Wrap(err, "刷新缓存版本失败")
	}
	return nil
}
