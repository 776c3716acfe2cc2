package user

import (
	"time"
)

// User 用户实体(聚合根)
// Password只保存bcrypt哈希
type User struct {
	ID        uint
	Name      string
	Email     string
	Password  string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser hashedPassword必须是bcrypt哈希
func NewUser(name, email, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PromoteToAdmin 设为管理员
func (u *User) PromoteToAdmin() {
	u.IsAdmin = true
	u.UpdatedAt = time.Now()
}
