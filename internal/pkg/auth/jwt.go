/*
 * @Description: 管理员 JWT 的签发与校验
 * @Author: 安知鱼
 * @Date: 2026-09-06 00:21:55
 * @LastEditTime: 2026-10-09 18:39:11
 * @LastEditors: 安知鱼
 */
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "ghibli-app"

// DefaultTokenTTL 通过命令行签发的管理员 Token 有效期
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrEmptySecret 未配置 Auth.JWTSecret
	ErrEmptySecret = errors.New("JWT Secret 不能为空")
	// ErrInvalidToken Token 无效、过期或不是管理员
	ErrInvalidToken = errors.New("无效或过期的Token")
)

// GenerateToken 为 subject 签发一个管理员 Token
func GenerateToken(subject string, ttl time.Duration, secretKey []byte) (string, error) {
	if len(secretKey) == 0 {
		return "", ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := AdminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ParseToken 解析并校验管理员 Token
func ParseToken(tokenStr string, secretKey []byte) (*AdminClaims, error) {
	if len(secretKey) == 0 {
		return nil, ErrEmptySecret
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Role != RoleAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
