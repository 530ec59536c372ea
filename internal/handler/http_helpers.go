package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goatwiki/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	msgSuccessful   = "SUCCESSFUL"
	msgUnsuccessful = "UNSUCCESSFUL"
	msgBroke        = "Something broke!"
	msgBusy         = "Already processing"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondMsg 写操作统一返回 {msg: SUCCESSFUL|UNSUCCESSFUL}。
func respondMsg(c *gin.Context, status int, ok bool) {
	msg := msgUnsuccessful
	if ok {
		msg = msgSuccessful
	}
	c.JSON(status, gin.H{"msg": msg})
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		logrus.WithError(err).WithField("path", c.FullPath()).Warn("invalid request body")
		respondMsg(c, http.StatusBadRequest, false)
		return false
	}
	return true
}

func parseInt64Query(c *gin.Context, key string) (int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return id, nil
}

// serveCached answers from the response cache, filling it with load on a miss.
func (a *API) serveCached(c *gin.Context, key string, load func(ctx context.Context) (any, error)) {
	ctx := c.Request.Context()
	body, err := a.cache.Remember(ctx, key, load)
	if err != nil {
		if ctx.Err() != nil {
			// 客户端已断开，查询仍在后台完成并写入缓存
			logrus.WithError(err).WithField("path", c.FullPath()).Debug("request cancelled while waiting for read")
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		a.readFailed(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (a *API) readFailed(c *gin.Context, err error) {
	if errors.Is(err, service.ErrPostNotFound) || errors.Is(err, service.ErrOthersNotFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	logrus.WithError(err).WithField("path", c.FullPath()).Error("read failed")
	respondError(c, http.StatusInternalServerError, msgBroke)
}
