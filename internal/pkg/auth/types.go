/*
 * @Description: 管理员 Token 的 Claims 定义
 * @Author: 安知鱼
 * @Date: 2026-09-06 18:38:27
 * @LastEditTime: 2026-09-06 18:38:34
 * @LastEditors: 安知鱼
 */
package auth

import "github.com/golang-jwt/jwt/v5"

// ClaimsKey 是在 gin.Context 中存储管理员 Claims 的键。
const ClaimsKey = "admin_claims"

// RoleAdmin 管理员角色，缓存管理接口只接受该角色
const RoleAdmin = "admin"

// AdminClaims 定义了管理员 JWT 的 Claims
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
