package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goatwiki/internal/cache"
	"github.com/goatwiki/internal/content"
	"github.com/goatwiki/internal/media"
	"github.com/sirupsen/logrus"
)

// GetAllPosts 返回全部文章的列表结构。
func (a *API) GetAllPosts(c *gin.Context) {
	a.serveCached(c, cache.Key("getAllPosts"), func(ctx context.Context) (any, error) {
		return a.posts.ListAll(ctx)
	})
}

// GetAllForNavAndAP 返回导航与“全部文章”页所需的精简字段。
func (a *API) GetAllForNavAndAP(c *gin.Context) {
	a.serveCached(c, cache.Key("getAllForNavAndAP"), func(ctx context.Context) (any, error) {
		return a.posts.ListNav(ctx)
	})
}

func (a *API) GetIdOfAll(c *gin.Context) {
	a.serveCached(c, cache.Key("getIdOfAll"), func(ctx context.Context) (any, error) {
		return a.posts.ListIDs(ctx)
	})
}

func (a *API) GetAllForCategories(c *gin.Context) {
	a.serveCached(c, cache.Key("getAllForCategories"), func(ctx context.Context) (any, error) {
		return a.posts.ListCategories(ctx)
	})
}

// GetOneByLink 按 permalink 返回单篇文章的页面结构。
func (a *API) GetOneByLink(c *gin.Context) {
	link := strings.TrimSpace(c.Query("link"))
	if link == "" {
		respondError(c, http.StatusBadRequest, "invalid link")
		return
	}
	a.serveCached(c, cache.Key("GetOneByLink", link), func(ctx context.Context) (any, error) {
		return a.posts.GetByPermalink(ctx, link)
	})
}

// GetOneById 返回编辑器使用的单篇文章结构。
func (a *API) GetOneById(c *gin.Context) {
	id, err := parseInt64Query(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	a.serveCached(c, cache.Key("GetOneById", strconv.FormatInt(id, 10)), func(ctx context.Context) (any, error) {
		return a.posts.GetByID(ctx, id)
	})
}

func (a *API) GetOneForCard(c *gin.Context) {
	id, err := parseInt64Query(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	a.serveCached(c, cache.Key("getOneForCard", strconv.FormatInt(id, 10)), func(ctx context.Context) (any, error) {
		return a.posts.GetCard(ctx, id)
	})
}

// UploadBlog 整体替换一篇文章。并发上传时后到的请求直接被拒绝。
func (a *API) UploadBlog(c *gin.Context) {
	if !a.uploadSlot.TryAcquire(1) {
		c.String(http.StatusBadRequest, msgBusy)
		return
	}
	defer a.uploadSlot.Release(1)

	var upload content.BlogUpload
	if !bindJSON(c, &upload) {
		return
	}

	if err := a.posts.Upload(c.Request.Context(), upload); err != nil {
		entry := logrus.WithError(err).WithField("post_id", int64(upload.ID))
		if errors.Is(err, content.ErrInvalidUpload) {
			entry.Warn("rejected blog upload")
			respondMsg(c, http.StatusBadRequest, false)
			return
		}
		entry.Error("blog upload failed")
		respondMsg(c, http.StatusOK, false)
		return
	}

	a.cache.Flush()
	a.sitemap.Refresh()
	respondMsg(c, http.StatusOK, true)
}

// DeleteBlog 删除文章及其图片目录，之后重新生成 sitemap。
func (a *API) DeleteBlog(c *gin.Context) {
	id, err := parseInt64Query(c, "id")
	if err != nil {
		respondMsg(c, http.StatusBadRequest, false)
		return
	}
	ctx := c.Request.Context()
	log := logrus.WithField("post_id", id)

	if err := a.posts.Delete(ctx, id); err != nil {
		log.WithError(err).Error("delete blog failed")
		respondMsg(c, http.StatusOK, false)
		return
	}
	a.cache.Flush()
	a.sitemap.Refresh()

	folder := media.BlogFolder(id)
	if err := a.media.DeleteFolder(ctx, folder); err != nil {
		log.WithError(err).WithField("folder", folder).Error("delete blog media failed")
		respondMsg(c, http.StatusOK, false)
		return
	}
	respondMsg(c, http.StatusOK, true)
}

