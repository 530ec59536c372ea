package handler

import (
	"github.com/goatwiki/internal/auth"
	"github.com/goatwiki/internal/cache"
	"github.com/goatwiki/internal/media"
	"github.com/goatwiki/internal/service"
	"golang.org/x/sync/semaphore"
)

// Refresher schedules a sitemap regeneration without blocking the caller.
type Refresher interface {
	Refresh()
}

// Deps groups what the HTTP handlers need.
type Deps struct {
	Posts   *service.PostService
	Others  *service.OthersService
	Scripts *service.ScriptService
	Creds   *service.CredentialService
	Tokens  *auth.TokenService
	Cache   *cache.ResponseCache
	Media   *media.Service
	Sitemap Refresher
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	posts   *service.PostService
	others  *service.OthersService
	scripts *service.ScriptService
	creds   *service.CredentialService
	tokens  *auth.TokenService
	cache   *cache.ResponseCache
	media   *media.Service
	sitemap Refresher

	// 同一时间只处理一篇文章的上传
	uploadSlot *semaphore.Weighted
}

type noopRefresher struct{}

func (noopRefresher) Refresh() {}

// NewAPI constructs a handler set with shared services.
func NewAPI(deps Deps) *API {
	sitemap := deps.Sitemap
	if sitemap == nil {
		sitemap = noopRefresher{}
	}
	return &API{
		posts:      deps.Posts,
		others:     deps.Others,
		scripts:    deps.Scripts,
		creds:      deps.Creds,
		tokens:     deps.Tokens,
		cache:      deps.Cache,
		media:      deps.Media,
		sitemap:    sitemap,
		uploadSlot: semaphore.NewWeighted(1),
	}
}

// Tokens exposes the token service for route guards.
func (a *API) Tokens() *auth.TokenService {
	return a.tokens
}

