// Package memory 进程内存储,用于测试和本地演示(database.driver: memory)
//
// 所有事务共用一把互斥锁串行执行,fn返回错误或panic时恢复事务开始前的快照,
// 语义上等价于对所有行加锁的可串行化事务。
package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/cart"
	"github.com/xiebiao/bookshelf/internal/domain/order"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
)

type txKey struct{}

// Store 内存数据
type Store struct {
	mu   sync.Mutex
	data *tables
}

type tables struct {
	seq    uint
	books  map[uint]*book.Book
	lines  map[uint]*cart.Line
	orders map[uint]*order.Order
	users  map[uint]*user.User
}

// New 创建空存储
func New() *Store {
	return &Store{data: &tables{
		books:  map[uint]*book.Book{},
		lines:  map[uint]*cart.Line{},
		orders: map[uint]*order.Order{},
		users:  map[uint]*user.User{},
	}}
}

// NewRepositories 基于同一Store的全部仓储
func NewRepositories(s *Store) persistence.Repositories {
	return persistence.Repositories{
		Books:  &bookRepository{s: s},
		Carts:  &cartRepository{s: s},
		Orders: &orderRepository{s: s},
		Users:  &userRepository{s: s},
		Tx:     s,
	}
}

// Transaction 串行执行fn,出错或panic时回滚,panic继续向上抛出
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.data = snapshot
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// run 事务内直接执行,事务外单独加锁
func (s *Store) run(ctx context.Context, fn func(t *tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx(ctx) {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (t *tables) nextID() uint {
	t.seq++
	return t.seq
}

func (t *tables) clone() *tables {
	c := &tables{
		seq:    t.seq,
		books:  make(map[uint]*book.Book, len(t.books)),
		lines:  make(map[uint]*cart.Line, len(t.lines)),
		orders: make(map[uint]*order.Order, len(t.orders)),
		users:  make(map[uint]*user.User, len(t.users)),
	}
	for id, b := range t.books {
		c.books[id] = copyBook(b)
	}
	for id, l := range t.lines {
		c.lines[id] = copyLine(l)
	}
	for id, o := range t.orders {
		c.orders[id] = copyOrder(o)
	}
	for id, u := range t.users {
		c.users[id] = copyUser(u)
	}
	return c
}

func copyBook(b *book.Book) *book.Book {
	c := *b
	return &c
}

func copyLine(l *cart.Line) *cart.Line {
	c := *l
	return &c
}

func copyOrder(o *order.Order) *order.Order {
	c := *o
	c.Items = append([]order.Item(nil), o.Items...)
	return &c
}

func copyUser(u *user.User) *user.User {
	c := *u
	return &c
}
