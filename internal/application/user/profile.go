package user

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/user"
)

// ProfileUseCase 当前用户信息
type ProfileUseCase struct {
	userRepo user.Repository
}

// NewProfileUseCase 创建用例
func NewProfileUseCase(userRepo user.Repository) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo}
}

// Execute 查询用户
func (uc *ProfileUseCase) Execute(ctx context.Context, userID uint) (*UserInfo, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}
