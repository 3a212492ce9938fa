/*
 * @Description: 版本信息处理器
 * @Author: 安知鱼
 * @Date: 2026-09-26 09:52:32
 * @LastEditTime: 2026-10-15 11:05:10
 * @LastEditors: 安知鱼
 */
package version

import (
	"github.com/gin-gonic/gin"

	"github.com/ghibli-db/ghibli-app/internal/pkg/version"
	"github.com/ghibli-db/ghibli-app/pkg/response"
)

// ServiceInfo 版本接口的返回结构
type ServiceInfo struct {
	version.BuildInfo
	Database       string `json:"database"`
	HistoryBackend string `json:"historyBackend"`
}

type Handler struct {
	database       string
	historyBackend string
}

// NewHandler database 为资料库方言，historyBackend 为历史存储使用的缓存类型
func NewHandler(database, historyBackend string) *Handler {
	return &Handler{database: database, historyBackend: historyBackend}
}

// GetVersion 获取版本信息
// @Summary      获取版本信息
// @Description  构建版本以及当前使用的存储后端
// @Tags         辅助工具
// @Produce      json
// @Success      200  {object}  response.Response  "版本信息"
// @Router       /public/version [get]
func (h *Handler) GetVersion(c *gin.Context) {
	response.Success(c, ServiceInfo{
		BuildInfo:      version.GetBuildInfo(),
		Database:       h.database,
		HistoryBackend: h.historyBackend,
	}, "获取版本信息成功")
}
