package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/domain"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
)

type txKey struct{}

// TxManager 通过ctx传递事务,嵌套调用时GORM使用SavePoint
type TxManager struct {
	db *gorm.DB
}

var _ domain.TxManager = (*TxManager)(nil)

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction fn返回nil时提交,否则回滚
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return conn(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// NewRepositories 基于同一连接的全部仓储
func NewRepositories(db *gorm.DB) persistence.Repositories {
	return persistence.Repositories{
		Books:  NewBookRepository(db),
		Carts:  NewCartRepository(db),
		Orders: NewOrderRepository(db),
		Users:  NewUserRepository(db),
		Tx:     NewTxManager(db),
	}
}

// conn ctx中有事务时使用事务连接
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// isDuplicateError MySQL 1062 唯一索引冲突
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}
