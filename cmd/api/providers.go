package main

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apporder "github.com/xiebiao/bookshelf/internal/application/order"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/ai"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

// provideRepositories 按database.driver选择存储
// memory仅用于本地演示,重启后数据丢失
func provideRepositories(cfg *config.Config, logger *zap.Logger) (persistence.Repositories, func(), error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("使用内存存储,数据不会持久化")
		return memory.NewRepositories(memory.New()), func() {}, nil
	}

	db, err := mysql.NewDB(cfg, logger)
	if err != nil {
		return persistence.Repositories{}, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return mysql.NewRepositories(db), cleanup, nil
}

// provideRedis Redis客户端,关闭时释放连接池
func provideRedis(cfg *config.Config, logger *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideListCache cache.enabled=false时不缓存
func provideListCache(cfg *config.Config, client *goredis.Client) book.ListCache {
	if !cfg.Cache.Enabled {
		return book.NopListCache{}
	}
	return redis.NewBookListCache(client, cfg.Cache.ListTTL)
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// providePublisher 未配置mq.url时丢弃订单事件
func providePublisher(cfg *config.Config, logger *zap.Logger) (apporder.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled() {
		logger.Info("未配置消息队列,订单事件不发布")
		return mq.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, logger)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { _ = publisher.Close() }, nil
}

// provideGenerator 未配置API Key时AI接口返回服务不可用
func provideGenerator(cfg *config.Config, logger *zap.Logger) (ai.Generator, error) {
	if !cfg.AI.Enabled() {
		logger.Info("未配置AI API Key,AI功能不可用")
		return ai.Disabled{}, nil
	}
	return ai.NewGemini(context.Background(), cfg.AI, logger)
}
