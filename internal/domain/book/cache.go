package book

import (
	"context"
)

// ListPage 缓存的一页列表结果
type ListPage struct {
	Books []*Book `json:"books"`
	Total int64   `json:"total"`
}

// ListCache 图书列表缓存
//
// 库存或目录变动提交后调用Invalidate,使所有已缓存的页失效。
// GetList返回当前缓存版本,未命中时page为nil;查库后用同一版本调用SetList,
// 期间若已失效,写入的旧版本key不会再被读到。
type ListCache interface {
	GetList(ctx context.Context, params ListParams) (page *ListPage, version int64, err error)
	SetList(ctx context.Context, version int64, params ListParams, page *ListPage) error
	Invalidate(ctx context.Context) error
}

// NopListCache 不缓存
type NopListCache struct{}

func (NopListCache) GetList(context.Context, ListParams) (*ListPage, int64, error) {
	return nil, 0, nil
}

func (NopListCache) SetList(context.Context, int64, ListParams, *ListPage) error { return nil }

func (NopListCache) Invalidate(context.Context) error { return nil }
