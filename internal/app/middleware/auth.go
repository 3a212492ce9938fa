/*
 * @Description: 管理员 JWT 认证中间件
 * @Author: 安知鱼
 * @Date: 2026-09-06 19:02:11
 * @LastEditTime: 2026-10-09 18:45:30
 * @LastEditors: 安知鱼
 */
package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/ghibli-db/ghibli-app/internal/pkg/auth"
	"github.com/ghibli-db/ghibli-app/pkg/response"

	"github.com/gin-gonic/gin"
)

type Middleware struct {
	jwtSecret []byte
}

func NewMiddleware(jwtSecret string) *Middleware {
	return &Middleware{jwtSecret: []byte(jwtSecret)}
}

// AdminAuth 要求请求携带有效的管理员 Bearer Token
func (m *Middleware) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(m.jwtSecret) == 0 {
			log.Printf("[AdminAuth] 未配置 Auth.JWTSecret，拒绝访问 %s", c.Request.URL.Path)
			response.Abort(c, http.StatusForbidden, "管理接口未启用")
			return
		}

		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "请求未携带Token，无权限访问")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			response.Abort(c, http.StatusUnauthorized, "Token格式不正确")
			return
		}

		claims, err := auth.ParseToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Printf("[AdminAuth] Token 校验失败: %v", err)
			response.Abort(c, http.StatusUnauthorized, "无效或过期的Token")
			return
		}

		c.Set(auth.ClaimsKey, claims)
		c.Next()
	}
}
