package cart

import (
	"context"
)

// Repository 购物车仓储接口
//
// 每个方法都带userID过滤条件,用户只能读写自己的行。
// Lock* 方法需要在事务中调用。
type Repository interface {
	// ListByUser 按加入时间排序
	ListByUser(ctx context.Context, userID uint) ([]*Line, error)

	// LockByUser 行锁读取用户全部行(结算用)
	LockByUser(ctx context.Context, userID uint) ([]*Line, error)

	// LockByUserAndBook 行锁读取(user, book)对应的行,不存在时返回(nil, nil)
	LockByUserAndBook(ctx context.Context, userID, bookID uint) (*Line, error)

	// FindByID 不加锁读取,行不存在或不属于该用户时返回ErrLineNotFound
	FindByID(ctx context.Context, userID, lineID uint) (*Line, error)

	// LockByID 行锁读取,行不存在或不属于该用户时返回ErrLineNotFound
	LockByID(ctx context.Context, userID, lineID uint) (*Line, error)

	Create(ctx context.Context, line *Line) error

	UpdateQuantity(ctx context.Context, lineID uint, quantity int) error

	// Delete 删除该用户的指定行,返回实际删除数
	Delete(ctx context.Context, userID uint, lineIDs ...uint) (int64, error)

	// DeleteByBook 删除引用该图书的所有行
	DeleteByBook(ctx context.Context, bookID uint) (int64, error)

	// DeleteByUser 删除用户全部行
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
}
