package mysql

import (
	"time"

	"gorm.io/gorm"
)

// UserModel 用户表
//
// 不做软删除:email唯一索引要求删除后的邮箱可以重新注册
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:50;not null;comment:用户名"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码(bcrypt)"`
	IsAdmin   bool      `gorm:"not null;default:false;comment:是否管理员"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (UserModel) TableName() string { return "users" }

// BookModel 图书表,价格单位为分
type BookModel struct {
	ID        uint           `gorm:"primaryKey"`
	Title     string         `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author    string         `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Category  string         `gorm:"index;size:50;not null;comment:分类"`
	Price     int64          `gorm:"index:idx_list;not null;comment:价格(分)"`
	ImageURL  string         `gorm:"size:500;comment:封面图片URL"`
	Stock     int            `gorm:"not null;default:0;comment:库存"`
	CreatedAt time.Time      `gorm:"index:idx_list"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (BookModel) TableName() string { return "books" }

// CartLineModel 购物车行,(user_id, book_id) 唯一
type CartLineModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex:idx_user_book;not null"`
	BookID    uint   `gorm:"uniqueIndex:idx_user_book;index;not null"`
	Title     string `gorm:"size:200;not null;comment:加入时书名"`
	Price     int64  `gorm:"not null;comment:加入时单价(分)"`
	ImageURL  string `gorm:"size:500"`
	Quantity  int    `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CartLineModel) TableName() string { return "cart_lines" }

// OrderModel 订单表
type OrderModel struct {
	ID           uint             `gorm:"primaryKey"`
	OrderNo      string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID       uint             `gorm:"index;not null"`
	CustomerName string           `gorm:"size:100;not null;comment:收货人"`
	Address      string           `gorm:"size:500;not null;comment:收货地址"`
	Total        int64            `gorm:"not null;comment:总金额(分)"`
	Status       string           `gorm:"index;size:20;not null;default:Pending"`
	Items        []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt    time.Time        `gorm:"index"`
	UpdatedAt    time.Time
}

func (OrderModel) TableName() string { return "orders" }

// OrderItemModel 订单明细,保存下单时的快照
type OrderItemModel struct {
	ID       uint   `gorm:"primaryKey"`
	OrderID  uint   `gorm:"index;not null"`
	BookID   uint   `gorm:"index;not null"`
	Title    string `gorm:"size:200;not null"`
	Price    int64  `gorm:"not null;comment:下单时单价(分)"`
	Quantity int    `gorm:"not null"`
	ImageURL string `gorm:"size:500"`
}

func (OrderItemModel) TableName() string { return "order_items" }
