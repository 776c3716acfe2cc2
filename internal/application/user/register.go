package user

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/user"
)

// RegisterUseCase 用户注册用例
// 注册的都是普通用户,管理员只能由配置创建
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	u, err := uc.userService.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}
