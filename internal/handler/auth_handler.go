package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goatwiki/internal/auth"
	"github.com/goatwiki/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	msgAuthOK       = "Authentication Successful!"
	msgAuthFailed   = "Authentication Failed!"
	msgInvalidCreds = "invalid credentials"
)

// CheckAuth 校验后台登录后拿到的 token。
func (a *API) CheckAuth(c *gin.Context) {
	claims, err := a.tokens.Verify(auth.TokenFromRequest(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": msgAuthFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": msgAuthOK, "Username": claims.Username})
}

// CheckCred 校验用户名密码，成功时签发 token。
func (a *API) CheckCred(c *gin.Context) {
	username := c.Query("Username")
	err := a.creds.Verify(c.Request.Context(), username, c.Query("Password"))
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusOK, gin.H{"msg": msgInvalidCreds})
		return
	case err != nil:
		logrus.WithError(err).Error("credential lookup failed")
		respondError(c, http.StatusInternalServerError, msgBroke)
		return
	}

	token, err := a.tokens.Issue(username)
	if err != nil {
		logrus.WithError(err).Error("sign token failed")
		respondError(c, http.StatusInternalServerError, msgBroke)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": msgAuthOK, "token": token})
}

type credsRequest struct {
	NewUsername string `json:"NewUsername"`
	NewPassword string `json:"NewPassword"`
}

// UploadNewCreds 替换唯一的一条后台凭据。
func (a *API) UploadNewCreds(c *gin.Context) {
	var req credsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := a.creds.Replace(c.Request.Context(), req.NewUsername, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrEmptyCredentials) {
			respondMsg(c, http.StatusBadRequest, false)
			return
		}
		logrus.WithError(err).Error("replace credentials failed")
		respondMsg(c, http.StatusOK, false)
		return
	}
	a.cache.Flush()
	respondMsg(c, http.StatusOK, true)
}
