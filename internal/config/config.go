package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的全部配置。
type AppConfig struct {
	ListenAddr string
	Port       string
	GinMode    string

	DBDriver     string
	DatabasePath string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPass       string
	DBName       string
	QueryTimeout time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	CacheTTL     time.Duration
	CacheCleanup time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	MediaSettleDelay    time.Duration

	FTPHost           string
	FTPPort           string
	FTPUser           string
	FTPPass           string
	SitemapRemotePath string
	SiteBaseURL       string
	SitemapRetries    int

	RequireAuthForWrites bool
	SanitizeContent      bool
	SuperRootUserName    string
	SuperRootPassword    string

	LogFormat string
	LogLevel  string
}

var defaults = map[string]any{
	"PORT":                    "7575",
	"GIN_MODE":                "release",
	"DB_DRIVER":               "sqlite",
	"DATABASE_PATH":           "goatwiki.db",
	"DB_PORT":                 "3306",
	"QUERY_TIMEOUT":           "100s",
	"JWT_SECRET":              "goatwiki-dev-secret",
	"TOKEN_TTL":               "240h",
	"CACHE_TTL":               "1h",
	"CACHE_CLEANUP":           "10m",
	"RATE_LIMIT_REQUESTS":     500,
	"RATE_LIMIT_WINDOW":       "10m",
	"MEDIA_SETTLE_DELAY":      "5s",
	"FTP_PORT":                "21",
	"SITEMAP_REMOTE_PATH":     "/public_html/sitemap.xml",
	"SITE_BASE_URL":           "https://goatwiki.com",
	"SITEMAP_RETRIES":         3,
	"REQUIRE_AUTH_FOR_WRITES": false,
	"SANITIZE_CONTENT":        false,
	"LOG_FORMAT":              "text",
	"LOG_LEVEL":               "info",
}

// Load 读取 .env、可选的 config.yaml 与环境变量，环境变量优先。
func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("no .env file loaded")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logrus.WithError(err).Warn("config file ignored")
		}
	}
	return FromViper(v)
}

// FromViper 从给定的 viper 实例构造配置，缺失项使用默认值。
func FromViper(v *viper.Viper) AppConfig {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	port := str(v, "PORT")
	listenAddr := str(v, "LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	return AppConfig{
		ListenAddr: listenAddr,
		Port:       port,
		GinMode:    str(v, "GIN_MODE"),

		DBDriver:     strings.ToLower(str(v, "DB_DRIVER")),
		DatabasePath: str(v, "DATABASE_PATH"),
		DBHost:       str(v, "DB_HOST"),
		DBPort:       str(v, "DB_PORT"),
		DBUser:       str(v, "DB_USER"),
		DBPass:       str(v, "DB_PASS"),
		DBName:       str(v, "DB_NAME"),
		QueryTimeout: v.GetDuration("QUERY_TIMEOUT"),

		JWTSecret: str(v, "JWT_SECRET"),
		TokenTTL:  v.GetDuration("TOKEN_TTL"),

		CacheTTL:     v.GetDuration("CACHE_TTL"),
		CacheCleanup: v.GetDuration("CACHE_CLEANUP"),

		RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
		RateLimitWindow:   v.GetDuration("RATE_LIMIT_WINDOW"),

		CloudinaryCloudName: str(v, "CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    str(v, "CLOUDINARY_CLOUD_API_KEY"),
		CloudinaryAPISecret: str(v, "CLOUDINARY_CLOUD_API_SECRET"),
		MediaSettleDelay:    v.GetDuration("MEDIA_SETTLE_DELAY"),

		FTPHost:           str(v, "FTP_HOST"),
		FTPPort:           str(v, "FTP_PORT"),
		FTPUser:           str(v, "FTP_USER"),
		FTPPass:           str(v, "FTP_PASS"),
		SitemapRemotePath: str(v, "SITEMAP_REMOTE_PATH"),
		SiteBaseURL:       strings.TrimRight(str(v, "SITE_BASE_URL"), "/"),
		SitemapRetries:    v.GetInt("SITEMAP_RETRIES"),

		RequireAuthForWrites: v.GetBool("REQUIRE_AUTH_FOR_WRITES"),
		SanitizeContent:      v.GetBool("SANITIZE_CONTENT"),
		SuperRootUserName:    str(v, "SUPER_ROOT_USER_NAME"),
		SuperRootPassword:    str(v, "SUPER_ROOT_PASSWORD"),

		LogFormat: strings.ToLower(str(v, "LOG_FORMAT")),
		LogLevel:  strings.ToLower(str(v, "LOG_LEVEL")),
	}
}

// MediaConfigured 表示是否提供了 Cloudinary 凭据。
func (c AppConfig) MediaConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// FTPConfigured 表示是否提供了站点地图上传所需的 FTP 信息。
func (c AppConfig) FTPConfigured() bool {
	return c.FTPHost != "" && c.FTPUser != ""
}

func str(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}
