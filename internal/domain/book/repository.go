package book

import (
	"context"
	"sort"
)

// Repository 图书仓储接口
//
// 所有方法都接受可能携带事务的ctx(见domain.TxManager)。
// LockByID / UpdateStock 必须在事务中调用才有串行化效果。
type Repository interface {
	Create(ctx context.Context, book *Book) error

	// FindByID 不存在时返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Delete 软删除,不存在时返回ErrBookNotFound
	Delete(ctx context.Context, id uint) error

	// List 分页查询,PageSize为0时返回全部
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 行锁读取(SELECT ... FOR UPDATE),同一本书的库存变动在此排队
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateStock 条件更新 stock = stock + delta,结果不能为负
	// 影响行数为0时区分ErrBookNotFound和ErrInsufficientStock
	UpdateStock(ctx context.Context, id uint, delta int) error

	// SetStock 直接覆盖库存
	SetStock(ctx context.Context, id uint, stock int) error
}

// LockOrder 去重后按id升序
//
// 加锁顺序: 先图书行(id升序),再购物车行。
// 同一事务要锁多本书时按这里返回的顺序逐个加锁,避免互相等待形成死锁。
func LockOrder(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	ordered := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })
	return ordered
}

// 排序方式
const (
	SortCreatedAtDesc = "created_at_desc"
	SortPriceAsc      = "price_asc"
	SortPriceDesc     = "price_desc"
)

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 从1开始
	PageSize int    // 0表示不分页
	Keyword  string // 匹配书名、作者、分类
	SortBy   string
}

// Normalize 填充默认值
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 0 {
		p.PageSize = 0
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	switch p.SortBy {
	case SortPriceAsc, SortPriceDesc, SortCreatedAtDesc:
	default:
		p.SortBy = SortCreatedAtDesc
	}
	return p
}
