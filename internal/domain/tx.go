// Package domain 领域层公共接口
package domain

import "context"

// TxManager 事务管理器
//
// fn收到的ctx携带事务，仓储方法用这个ctx时会在同一事务中执行。
// fn返回错误时整个事务回滚。
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
