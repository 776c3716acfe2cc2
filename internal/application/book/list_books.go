package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 支持分页、搜索、排序,PageSize为0时返回全部
// 2. 先查Redis缓存,未命中再查库并回填;库存或目录变动后整体失效
// 3. 缓存故障只记日志,降级为直接查库
type ListBooksUseCase struct {
	bookRepo book.Repository
	cache    book.ListCache
	logger   *zap.Logger
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookRepo book.Repository, cache book.ListCache, logger *zap.Logger) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookRepo: bookRepo,
		cache:    cache,
		logger:   logger,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量,0表示全部,最大100
	Keyword  string // 搜索书名、作者、分类
	SortBy   string // price_asc, price_desc, created_at_desc
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List       []BookInfo `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	params := book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	}.Normalize()

	page, version, err := uc.cache.GetList(ctx, params)
	if err != nil {
		uc.logger.Warn("读取图书列表缓存失败", zap.Error(err))
		page = nil
	}

	if page == nil {
		books, total, err := uc.bookRepo.List(ctx, params)
		if err != nil {
			return nil, err
		}
		page = &book.ListPage{Books: books, Total: total}

		if err := uc.cache.SetList(ctx, version, params, page); err != nil {
			uc.logger.Warn("写入图书列表缓存失败", zap.Error(err))
		}
	}

	list := make([]BookInfo, len(page.Books))
	for i, b := range page.Books {
		list[i] = toBookInfo(b)
	}

	// 不分页时视为一页
	totalPages := 1
	if params.PageSize > 0 {
		totalPages = int(page.Total) / params.PageSize
		if int(page.Total)%params.PageSize != 0 {
			totalPages++
		}
	}

	return &ListBooksResponse{
		List:       list,
		Total:      page.Total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}
