package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/domain/user"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// userRepository 用户仓储(MySQL)
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 邮箱唯一性由uniqueIndex保证
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
		IsAdmin:  u.IsAdmin,
	}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, userError(err)
	}
	return toUserEntity(&model), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := conn(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		return nil, userError(err)
	}
	return toUserEntity(&model), nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	result := conn(ctx, r.db).Model(&UserModel{ID: u.ID}).Updates(map[string]interface{}{
		"name":     u.Name,
		"password": u.Password,
		"is_admin": u.IsAdmin,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新用户失败")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete 物理删除,邮箱可重新注册;订单只保存user_id,不受影响
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&UserModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除用户失败")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*user.User, error) {
	var models []UserModel
	if err := conn(ctx, r.db).Order("created_at DESC").Order("id DESC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询用户列表失败")
	}
	users := make([]*user.User, len(models))
	for i := range models {
		users[i] = toUserEntity(&models[i])
	}
	return users, nil
}

func userError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.Wrap(err, "查询用户失败")
}

func toUserEntity(m *UserModel) *user.User {
	return &user.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Password:  m.Password,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
