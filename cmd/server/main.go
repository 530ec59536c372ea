package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goatwiki/internal/auth"
	"github.com/goatwiki/internal/cache"
	"github.com/goatwiki/internal/config"
	"github.com/goatwiki/internal/db"
	"github.com/goatwiki/internal/handler"
	"github.com/goatwiki/internal/media"
	"github.com/goatwiki/internal/ratelimit"
	"github.com/goatwiki/internal/router"
	"github.com/goatwiki/internal/service"
	"github.com/goatwiki/internal/sitemap"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	// 初始化数据库
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
		logrus.WithError(err).Fatal("failed to initialize database")
	}
	if err := db.EnsureCredential(gdb, cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		logrus.WithError(err).Fatal("failed to seed credentials")
	}

	posts := service.NewPostService(gdb, cfg.QueryTimeout)
	others := service.NewOthersService(gdb, cfg.QueryTimeout)
	if cfg.SanitizeContent {
		policy := service.ContentPolicy()
		posts.WithSanitizer(policy)
		others.WithSanitizer(policy)
		logrus.Info("content sanitizing enabled")
	}

	var host media.Host = media.Disabled{}
	if cfg.MediaConfigured() {
		cld, err := media.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logrus.WithError(err).Fatal("failed to configure media host")
		}
		host = cld
	} else {
		logrus.Warn("cloudinary credentials missing, media operations are disabled")
	}

	var uploader sitemap.Uploader = sitemap.FileUploader{Path: "sitemap.xml"}
	if cfg.FTPConfigured() {
		uploader = sitemap.FTPUploader{
			Host:       cfg.FTPHost,
			Port:       cfg.FTPPort,
			User:       cfg.FTPUser,
			Password:   cfg.FTPPass,
			RemotePath: cfg.SitemapRemotePath,
		}
	} else {
		logrus.Warn("ftp not configured, sitemap is written to ./sitemap.xml")
	}
	worker := sitemap.NewWorker(posts, uploader, cfg.SiteBaseURL, cfg.SitemapRetries)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go worker.Run(ctx)

	limiter := ratelimit.New(ratelimit.Config{Requests: cfg.RateLimitRequests, Window: cfg.RateLimitWindow})
	defer limiter.Stop()

	api := handler.NewAPI(handler.Deps{
		Posts:   posts,
		Others:  others,
		Scripts: service.NewScriptService(gdb, cfg.QueryTimeout),
		Creds:   service.NewCredentialService(gdb, cfg.QueryTimeout),
		Tokens:  auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
		Cache:   cache.New(cfg.CacheTTL, cfg.CacheCleanup),
		Media:   media.NewService(host, cfg.MediaSettleDelay),
		Sitemap: worker,
	})

	gin.SetMode(cfg.GinMode)
	r := router.SetupRouter(api, router.Options{
		Limiter:              limiter,
		RequireAuthForWrites: cfg.RequireAuthForWrites,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("addr", cfg.ListenAddr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("failed to run server")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("server shutdown failed")
	}
}

func setupLogging(cfg config.AppConfig) {
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
