package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goatwiki/internal/cache"
	"github.com/goatwiki/internal/content"
	"github.com/sirupsen/logrus"
)

// adminPageNames 把后台使用的短名映射到页面标题。
var adminPageNames = map[string]string{
	"pp": content.OthersPrivacy,
	"tc": content.OthersTerms,
	"ab": content.OthersAbout,
}

func (a *API) GetPrivacyPolicy(c *gin.Context) {
	a.servePage(c, "getPrivacyPolicy", content.OthersPrivacy)
}

func (a *API) GetTermsAndConditions(c *gin.Context) {
	a.servePage(c, "getTermsAndConditions", content.OthersTerms)
}

func (a *API) GetAbout(c *gin.Context) {
	a.servePage(c, "getAbout", content.OthersAbout)
}

func (a *API) servePage(c *gin.Context, name, title string) {
	a.serveCached(c, cache.Key(name), func(ctx context.Context) (any, error) {
		return a.others.Public(ctx, title)
	})
}

// GetOthersForAdmin 返回编辑器使用的静态页面结构，不经过缓存。
func (a *API) GetOthersForAdmin(c *gin.Context) {
	title, ok := adminPageNames[strings.ToLower(strings.TrimSpace(c.Query("name")))]
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid name")
		return
	}
	doc, err := a.others.Admin(c.Request.Context(), title)
	if err != nil {
		a.readFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// UploadOthers 整体替换一个静态页面。
func (a *API) UploadOthers(c *gin.Context) {
	var upload content.OthersUpload
	if !bindJSON(c, &upload) {
		return
	}
	if err := a.others.Replace(c.Request.Context(), upload); err != nil {
		entry := logrus.WithError(err).WithField("title", upload.Title)
		if errors.Is(err, content.ErrInvalidUpload) {
			entry.Warn("rejected page upload")
			respondMsg(c, http.StatusBadRequest, false)
			return
		}
		entry.Error("page upload failed")
		respondMsg(c, http.StatusOK, false)
		return
	}
	a.cache.Flush()
	respondMsg(c, http.StatusOK, true)
}
