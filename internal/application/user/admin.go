package user

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/cart"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// ListUsersUseCase 管理员查看用户列表
type ListUsersUseCase struct {
	userRepo user.Repository
}

// NewListUsersUseCase 创建用例
func NewListUsersUseCase(userRepo user.Repository) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo}
}

// Execute 按注册时间倒序
func (uc *ListUsersUseCase) Execute(ctx context.Context) ([]UserInfo, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]UserInfo, len(users))
	for i, u := range users {
		list[i] = toUserInfo(u)
	}
	return list, nil
}

// ErrDeleteSelf 管理员不能删除自己
var ErrDeleteSelf = apperrors.New(apperrors.ErrCodeBusinessError, "不能删除当前登录的管理员账号")

// DeleteUserUseCase 管理员删除用户
//
// 同一事务中把该用户购物车里预留的库存全部归还、删除购物车行、软删除用户;订单保留。
// 提交后删除其会话,已签发的Refresh Token无法再刷新。
type DeleteUserUseCase struct {
	userRepo     user.Repository
	cartRepo     cart.Repository
	bookRepo     book.Repository
	txManager    domain.TxManager
	cache        book.ListCache
	sessionStore SessionStore
	logger       *zap.Logger
}

// NewDeleteUserUseCase 创建用例
func NewDeleteUserUseCase(
	userRepo user.Repository,
	cartRepo cart.Repository,
	bookRepo book.Repository,
	txManager domain.TxManager,
	cache book.ListCache,
	sessionStore SessionStore,
	logger *zap.Logger,
) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		userRepo:     userRepo,
		cartRepo:     cartRepo,
		bookRepo:     bookRepo,
		txManager:    txManager,
		cache:        cache,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// DeleteUserRequest 删除请求
type DeleteUserRequest struct {
	OperatorID uint // 当前管理员
	UserID     uint
}

// Execute 执行删除
func (uc *DeleteUserUseCase) Execute(ctx context.Context, req DeleteUserRequest) error {
	if req.OperatorID == req.UserID {
		return ErrDeleteSelf
	}

	var released int
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		if _, err := uc.userRepo.FindByID(ctx, req.UserID); err != nil {
			return err
		}

		// 先按id升序锁住涉及的图书,再锁购物车行
		peek, err := uc.cartRepo.ListByUser(ctx, req.UserID)
		if err != nil {
			return err
		}
		for _, id := range book.LockOrder(bookIDs(peek)) {
			if _, err := uc.bookRepo.LockByID(ctx, id); err != nil && !errors.Is(err, book.ErrBookNotFound) {
				return err
			}
		}

		lines, err := uc.cartRepo.LockByUser(ctx, req.UserID)
		if err != nil {
			return err
		}
		qty := make(map[uint]int, len(lines))
		for _, l := range lines {
			qty[l.BookID] += l.Quantity
		}
		for _, id := range book.LockOrder(bookIDs(lines)) {
			switch err := uc.bookRepo.UpdateStock(ctx, id, qty[id]); {
			case err == nil:
				released += qty[id]
			case errors.Is(err, book.ErrBookNotFound):
				// 图书已删除
			default:
				return err
			}
		}
		if _, err := uc.cartRepo.DeleteByUser(ctx, req.UserID); err != nil {
			return err
		}
		return uc.userRepo.Delete(ctx, req.UserID)
	})
	if err != nil {
		return err
	}

	if err := uc.sessionStore.DeleteSession(ctx, req.UserID); err != nil {
		uc.logger.Warn("删除会话失败", zap.Uint("user_id", req.UserID), zap.Error(err))
	}
	if released > 0 {
		metrics.RecordStockAdjustment("user_delete")
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warn("图书列表缓存失效失败", zap.Error(err))
		}
	}

	uc.logger.Info("用户已删除",
		zap.Uint("operator_id", req.OperatorID),
		zap.Uint("user_id", req.UserID),
		zap.Int("released_stock", released),
	)
	return nil
}

func bookIDs(lines []*cart.Line) []uint {
	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.BookID
	}
	return ids
}

// EnsureAdminUseCase 启动时确保配置的管理员账号存在
type EnsureAdminUseCase struct {
	userRepo    user.Repository
	userService user.Service
	logger      *zap.Logger
}

// NewEnsureAdminUseCase 创建用例
func NewEnsureAdminUseCase(userRepo user.Repository, userService user.Service, logger *zap.Logger) *EnsureAdminUseCase {
	return &EnsureAdminUseCase{
		userRepo:    userRepo,
		userService: userService,
		logger:      logger,
	}
}

// EnsureAdminRequest 管理员账号
type EnsureAdminRequest struct {
	Name     string
	Email    string
	Password string
}

// Execute 邮箱为空时跳过;账号不存在则创建,已存在则提升为管理员(不修改密码)
func (uc *EnsureAdminUseCase) Execute(ctx context.Context, req EnsureAdminRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil
	}

	existing, err := uc.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin {
			return nil
		}
		existing.PromoteToAdmin()
		if err := uc.userRepo.Update(ctx, existing); err != nil {
			return err
		}
		uc.logger.Info("已有用户提升为管理员", zap.String("email", email))
		return nil
	case !apperrors.HasCode(err, apperrors.ErrCodeUserNotFound):
		return err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Admin"
	}
	if err := user.ValidatePasswordStrength(req.Password); err != nil {
		return err
	}
	hashed, err := uc.userService.HashPassword(req.Password)
	if err != nil {
		return err
	}

	admin := user.NewUser(name, email, hashed)
	admin.PromoteToAdmin()
	if err := uc.userRepo.Create(ctx, admin); err != nil {
		return err
	}
	uc.logger.Info("已创建管理员账号", zap.String("email", email), zap.Uint("user_id", admin.ID))
	return nil
}
