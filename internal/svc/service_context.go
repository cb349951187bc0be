package svc

import (
	"time"

	"github.com/redis/go-redis/v9"

	"token-launchpad-sol/internal/config"
	"token-launchpad-sol/internal/limit"
	"token-launchpad-sol/internal/storage"
	"token-launchpad-sol/pkg/logger"
)

// ServiceContext 上传代理服务资源
type ServiceContext struct {
	Config   *config.Config
	Uploader storage.Uploader
	Gateway  storage.Gateway
	Quota    *limit.QuotaStore
	rdb      *redis.Client
}

// NewServiceContext 代理始终直连 Pinata；Redis 未配置时不限流
func NewServiceContext(c *config.Config) *ServiceContext {
	ctx := &ServiceContext{
		Config:   c,
		Uploader: storage.NewPinataUploader(c.Pinata),
		Gateway:  storage.NewGateway(c.Pinata.GatewayBase),
	}

	if c.Redis.Addr != "" {
		ctx.rdb = redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		window := time.Duration(c.Api.Quota.WindowSec) * time.Second
		ctx.Quota = limit.NewQuotaStore(ctx.rdb, c.Api.Quota.Limit, window)
		logger.Infof("[ServiceContext] 上传限流已启用: limit=%d window=%s", c.Api.Quota.Limit, window)
	}

	logger.Infof("[ServiceContext] 上传代理服务上下文初始化完成")
	return ctx
}

// Close 关闭服务上下文中的资源
func (ctx *ServiceContext) Close() {
	if ctx.rdb != nil {
		_ = ctx.rdb.Close()
	}
}
