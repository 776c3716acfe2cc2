package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
)

// NewDB 连接MySQL、配置连接池并自动迁移表结构
// debug模式打印SQL
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	log.Info("数据库连接成功", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	// 生产环境应改用版本化迁移脚本
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return db, nil
}

// AutoMigrate 建表/加字段,不会删除已有字段
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&CartLineModel{},
		&OrderModel{},
		&OrderItemModel{},
	); err != nil {
		return err
	}
	return dropUserSoftDelete(db)
}

// dropUserSoftDelete 用户表改为物理删除,清掉旧版本遗留的软删除行和字段
func dropUserSoftDelete(db *gorm.DB) error {
	m := db.Migrator()
	if !m.HasColumn(&UserModel{}, "deleted_at") {
		return nil
	}
	if err := db.Exec("DELETE FROM users WHERE deleted_at IS NOT NULL").Error; err != nil {
		return err
	}
	return m.DropColumn(&UserModel{}, "deleted_at")
}
