package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
)

// App HTTP服务
type App struct {
	cfg         *config.Config
	engine      *gin.Engine
	ensureAdmin *appuser.EnsureAdminUseCase
	logger      *zap.Logger
}

func newApp(cfg *config.Config, engine *gin.Engine, ensureAdmin *appuser.EnsureAdminUseCase, logger *zap.Logger) *App {
	return &App{
		cfg:         cfg,
		engine:      engine,
		ensureAdmin: ensureAdmin,
		logger:      logger,
	}
}

// Run 确保管理员账号存在后启动HTTP服务,ctx取消时优雅关闭
func (a *App) Run(ctx context.Context) error {
	err := a.ensureAdmin.Execute(ctx, appuser.EnsureAdminRequest{
		Name:     a.cfg.Admin.Name,
		Email:    a.cfg.Admin.Email,
		Password: a.cfg.Admin.Password,
	})
	if err != nil {
		return fmt.Errorf("初始化管理员失败: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      a.engine,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP服务启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", a.cfg.Server.Mode),
			zap.String("database", a.cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("正在关闭HTTP服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭HTTP服务失败: %w", err)
	}
	a.logger.Info("HTTP服务已关闭")
	return nil
}
