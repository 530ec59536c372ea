package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DeleteFolder 删除图床上的一个目录及其中全部图片。
func (a *API) DeleteFolder(c *gin.Context) {
	folder := strings.TrimSpace(c.Query("folderName"))
	if folder == "" {
		respondMsg(c, http.StatusBadRequest, false)
		return
	}
	if err := a.media.DeleteFolder(c.Request.Context(), folder); err != nil {
		logrus.WithError(err).WithField("folder", folder).Error("delete folder failed")
		respondMsg(c, http.StatusBadRequest, false)
		return
	}
	respondMsg(c, http.StatusOK, true)
}

type destroyRequest struct {
	PublicID string `json:"public_id"`
}

// DestroyImages 删除单张图片，response 表示图床是否接受了删除。
func (a *API) DestroyImages(c *gin.Context) {
	var req destroyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body"})
		return
	}
	result, err := a.media.Destroy(c.Request.Context(), req.PublicID)
	c.JSON(http.StatusOK, gin.H{"success": true, "response": err == nil, "result": result})
}

type folderCopyRequest struct {
	FolderName string `json:"folderName"`
	BackupName string `json:"backupName"`
}

// BackupFolder 把目录复制到备份目录，返回备份目录名。
func (a *API) BackupFolder(c *gin.Context) {
	var req folderCopyRequest
	if !bindJSON(c, &req) {
		return
	}
	backup, err := a.media.BackupFolder(c.Request.Context(), req.FolderName, req.BackupName)
	if err != nil {
		logrus.WithError(err).WithField("folder", req.FolderName).Error("backup folder failed")
		respondMsg(c, http.StatusOK, false)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": msgSuccessful, "backupName": backup})
}

// RevertFolder 用备份目录恢复原目录。
func (a *API) RevertFolder(c *gin.Context) {
	var req folderCopyRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := a.media.RevertFolder(c.Request.Context(), req.BackupName, req.FolderName); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"folder": req.FolderName, "backup": req.BackupName}).Error("revert folder failed")
		respondMsg(c, http.StatusOK, false)
		return
	}
	respondMsg(c, http.StatusOK, true)
}
