package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// BcryptCost 密码哈希成本
const BcryptCost = 12

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

// Service 用户领域服务
type Service interface {
	// Register 校验并创建普通用户
	Register(ctx context.Context, name, email, password string) (*User, error)

	// Login 校验邮箱密码,失败统一返回ErrInvalidPassword
	Login(ctx context.Context, email, password string) (*User, error)

	// HashPassword bcrypt哈希
	HashPassword(password string) (string, error)
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: BcryptCost}
}

// NewServiceWithCost 测试中用较低的cost
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, cost: cost}
}

func (s *service) Register(ctx context.Context, name, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if !emailPattern.MatchString(email) {
		return nil, apperrors.InvalidParams("邮箱格式不正确")
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return nil, apperrors.InvalidParams("用户名长度应为2-50个字符")
	}

	hashed, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := NewUser(name, email, hashed)
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// 不暴露邮箱是否注册
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}
	return user, nil
}

func (s *service) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hashed), nil
}

// ValidatePasswordStrength 8-20位,同时包含字母和数字
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
