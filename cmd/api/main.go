package main

import (
	"flag"
	"runtime/debug"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	zerosvc "github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/rest"

	"token-launchpad-sol/internal/config"
	"token-launchpad-sol/internal/handler"
	"token-launchpad-sol/internal/svc"
	"token-launchpad-sol/pkg/logger"
)

var configFile = flag.String("f", "etc/launchpad.yaml", "the config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()

	flag.Parse()

	c := config.MustLoad(*configFile)
	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		panic(err)
	}
	defer logger.Sync()

	serviceContext := svc.NewServiceContext(c)
	defer serviceContext.Close()

	server := rest.MustNewServer(restConf(c))
	handler.RegisterHandlers(server, serviceContext)

	sg := zerosvc.NewServiceGroup()
	defer sg.Stop()
	sg.Add(server)

	logx.Infof("Starting upload proxy at %s:%d", c.Api.Host, c.Api.Port)
	sg.Start()
}

// restConf 由 api 配置段生成 go-zero RestConf，其余字段取框架默认值
func restConf(c *config.Config) rest.RestConf {
	var rc rest.RestConf
	if err := conf.FillDefault(&rc); err != nil {
		panic(err)
	}
	rc.Name = c.Api.Name
	rc.Host = c.Api.Host
	rc.Port = c.Api.Port
	rc.MaxBytes = c.Api.MaxBody
	// 上传需要等待 Pinata 返回
	rc.Timeout = int64(c.Pinata.TimeoutMs) + 5000
	return rc
}
