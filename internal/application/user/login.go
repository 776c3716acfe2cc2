package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/user"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/jwt"
)

// LoginUseCase 用户登录用例
// 1. 验证邮箱密码
// 2. 生成JWT Token对
// 3. 保存会话到Redis
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore SessionStore
	logger       *zap.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore SessionStore,
	logger *zap.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // Access Token过期时间（秒）
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	pair, err := uc.jwtManager.GenerateToken(identityOf(u))
	if err != nil {
		return nil, err
	}

	// 会话有效期 = Refresh Token有效期
	sessionData := map[string]interface{}{
		"user_id":  u.ID,
		"email":    u.Email,
		"name":     u.Name,
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionData, uc.jwtManager.RefreshTokenExpire()); err != nil {
		// 会话保存失败不影响登录,但刷新Token会失败
		uc.logger.Warn("保存会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	return &LoginResponse{
		User:         toUserInfo(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// LogoutRequest 登出请求
type LogoutRequest struct {
	UserID      uint
	AccessToken string
	ExpiresAt   time.Time // Access Token过期时间
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, req LogoutRequest) error {
	if err := uc.sessionStore.DeleteSession(ctx, req.UserID); err != nil {
		return err
	}

	// 黑名单只需保留到Token自然过期
	return uc.sessionStore.AddToBlacklist(ctx, req.AccessToken, time.Until(req.ExpiresAt))
}

// RefreshTokenUseCase 用Refresh Token换新的Token对
//
// 会话已删除(登出、用户被删除)时拒绝刷新;角色从数据库重新读取。
type RefreshTokenUseCase struct {
	userRepo     user.Repository
	jwtManager   *jwt.Manager
	sessionStore SessionStore
}

// NewRefreshTokenUseCase 创建刷新用例
func NewRefreshTokenUseCase(userRepo user.Repository, jwtManager *jwt.Manager, sessionStore SessionStore) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		userRepo:     userRepo,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// Execute 执行刷新
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := uc.jwtManager.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if _, err := uc.sessionStore.GetSession(ctx, claims.UserID); err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}

	u, err := uc.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}
	return uc.jwtManager.GenerateToken(identityOf(u))
}

func identityOf(u *user.User) jwt.Identity {
	return jwt.Identity{
		UserID:  u.ID,
		Email:   u.Email,
		Name:    u.Name,
		IsAdmin: u.IsAdmin,
	}
}
