package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goatwiki/internal/cache"
	"github.com/goatwiki/internal/content"
	"github.com/sirupsen/logrus"
)

// GetScripts 按分类返回站点注入的脚本。
func (a *API) GetScripts(c *gin.Context) {
	a.serveCached(c, cache.Key("getScripts"), func(ctx context.Context) (any, error) {
		return a.scripts.List(ctx)
	})
}

func (a *API) UploadScripts(c *gin.Context) {
	var upload content.ScriptUpload
	if !bindJSON(c, &upload) {
		return
	}
	if err := a.scripts.Replace(c.Request.Context(), upload); err != nil {
		entry := logrus.WithError(err).WithField("category", upload.ScriptCategory)
		if errors.Is(err, content.ErrInvalidUpload) {
			entry.Warn("rejected script upload")
			respondMsg(c, http.StatusBadRequest, false)
			return
		}
		entry.Error("script upload failed")
		respondMsg(c, http.StatusOK, false)
		return
	}
	a.cache.Flush()
	respondMsg(c, http.StatusOK, true)
}
