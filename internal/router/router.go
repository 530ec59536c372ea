package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/goatwiki/internal/auth"
	"github.com/goatwiki/internal/handler"
	"github.com/goatwiki/internal/ratelimit"
)

// Options 控制路由的可选行为。
type Options struct {
	// Limiter 为空时 /api 不限流
	Limiter *ratelimit.Limiter
	// RequireAuthForWrites 为 true 时写接口需要有效 token
	RequireAuthForWrites bool
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(handler.RequestID(), handler.RequestLogger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"}
	r.Use(cors.New(corsConfig))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	if opts.Limiter != nil {
		apiGroup.Use(ratelimit.Middleware(opts.Limiter))
	}

	// 公开读接口
	{
		apiGroup.GET("/getAllPosts", api.GetAllPosts)
		apiGroup.GET("/getAllForNavAndAP", api.GetAllForNavAndAP)
		apiGroup.GET("/getIdOfAll", api.GetIdOfAll)
		apiGroup.GET("/getAllForCategories", api.GetAllForCategories)
		apiGroup.GET("/getScripts", api.GetScripts)
		apiGroup.GET("/getPrivacyPolicy", api.GetPrivacyPolicy)
		apiGroup.GET("/getTermsAndConditions", api.GetTermsAndConditions)
		apiGroup.GET("/getAbout", api.GetAbout)
		apiGroup.GET("/GetOneByLink", api.GetOneByLink)
		apiGroup.GET("/GetOneById", api.GetOneById)
		apiGroup.GET("/getOneForCard", api.GetOneForCard)
		apiGroup.GET("/getOthersForAdmin", api.GetOthersForAdmin)

		apiGroup.GET("/CheckAuth", api.CheckAuth)
		apiGroup.GET("/CheckCred", api.CheckCred)
	}

	// 写接口
	writes := apiGroup.Group("")
	if opts.RequireAuthForWrites {
		writes.Use(auth.RequireToken(api.Tokens()))
	}
	{
		writes.POST("/UploadBlog", api.UploadBlog)
		writes.POST("/UploadOthers", api.UploadOthers)
		writes.POST("/UploadScripts", api.UploadScripts)
		writes.POST("/UploadNewCreds", api.UploadNewCreds)

		writes.DELETE("/DeleteBlog", api.DeleteBlog)
		writes.DELETE("/DeleteFolder", api.DeleteFolder)
		writes.DELETE("/DestroyImages", api.DestroyImages)

		writes.POST("/BackupFolder", api.BackupFolder)
		writes.POST("/RevertFolder", api.RevertFolder)
	}

	return r
}
