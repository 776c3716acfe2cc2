// Package persistence 聚合各存储实现提供的仓储
package persistence

import (
	"github.com/xiebiao/bookshelf/internal/domain"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/cart"
	"github.com/xiebiao/bookshelf/internal/domain/order"
	"github.com/xiebiao/bookshelf/internal/domain/user"
)

// Repositories 同一存储上的全部仓储和事务管理器
type Repositories struct {
	Books  book.Repository
	Carts  cart.Repository
	Orders order.Repository
	Users  user.Repository
	Tx     domain.TxManager
}
