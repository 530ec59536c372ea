package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Options 描述如何连接存储。
type Options struct {
	Driver string // sqlite | mysql
	Path   string // sqlite 文件路径

	Host     string
	Port     string
	User     string
	Password string
	Name     string

	// AutoMigrate 为 mysql 建表；sqlite 总是迁移。
	AutoMigrate bool
}

// Models 列出所有需要迁移的表。
func Models() []any {
	return []any{
		&Post{},
		&Section{},
		&Image{},
		&BlogTable{},
		&Qna{},
		&Other{},
		&Script{},
		&Credential{},
	}
}

// Init 打开数据库连接、按需迁移并设置全局 DB。
func Init(opts Options) (*gorm.DB, error) {
	dialector, migrate, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(logrus.StandardLogger(), logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}

	if migrate {
		if err := gdb.AutoMigrate(Models()...); err != nil {
			return nil, err
		}
	}

	DB = gdb
	return gdb, nil
}

func dialectorFor(opts Options) (gorm.Dialector, bool, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", "sqlite":
		path := strings.TrimSpace(opts.Path)
		if path == "" {
			path = "goatwiki.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, false, err
		}
		return sqlite.Open(path), true, nil
	case "mysql":
		return mysql.Open(MySQLDSN(opts)), opts.AutoMigrate, nil
	default:
		return nil, false, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// MySQLDSN 构造 go-sql-driver 格式的连接串。
func MySQLDSN(opts Options) string {
	port := strings.TrimSpace(opts.Port)
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		opts.User, opts.Password, opts.Host, port, opts.Name)
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
