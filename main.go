package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"compass-earn/internal/config"
	"compass-earn/internal/handler"
	"compass-earn/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/compass.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c, conf.UseEnv())

	server := rest.MustNewServer(c.RestConf)
	defer server.Stop()

	ctx := svc.NewServiceContext(c)
	handler.RegisterHandlers(server, ctx)

	// 设置优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("Starting server at %s:%d...\n", c.Host, c.Port)

	go func() {
		server.Start()
	}()

	<-quit
	fmt.Println("\n🛑 收到退出信号，正在关闭服务...")

	ctx.Close()

	fmt.Println("✅ 服务已安全退出")
}
