package user

import (
	"context"
)

// Repository 用户仓储接口
type Repository interface {
	// Create 邮箱已存在时返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 不存在时返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 不存在时返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	Update(ctx context.Context, user *User) error

	// Delete 软删除
	Delete(ctx context.Context, id uint) error

	// List 按注册时间倒序
	List(ctx context.Context) ([]*User, error)
}
