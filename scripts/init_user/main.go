package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goatwiki/internal/config"
	"github.com/goatwiki/internal/db"
	"github.com/goatwiki/internal/service"
	"github.com/sirupsen/logrus"
)

// 重置后台凭据：go run ./scripts/init_user <用户名> <密码>
func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: init_user <username> <password>")
		os.Exit(2)
	}

	cfg := config.Load()
	gdb, err := db.Init(db.Options{
		Driver:   cfg.DBDriver,
		Path:     cfg.DatabasePath,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Name:     cfg.DBName,
	})
	if err != nil {
		logrus.WithError(err).Fatal("数据库初始化失败")
	}

	creds := service.NewCredentialService(gdb, cfg.QueryTimeout)
	if err := creds.Replace(context.Background(), os.Args[1], os.Args[2]); err != nil {
		logrus.WithError(err).Fatal("写入凭据失败")
	}
	fmt.Println("后台凭据已更新")
	fmt.Println("用户名:", os.Args[1])
}
