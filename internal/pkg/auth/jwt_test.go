package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("totoro-secret")

	token, err := GenerateToken("ops", time.Hour, secret)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseToken(token, secret)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "ops" || claims.Role != RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejects(t *testing.T) {
	secret := []byte("totoro-secret")
	valid, _ := GenerateToken("ops", time.Hour, secret)

	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString(secret)

	notAdmin, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Role:             "guest",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
	}).SignedString(secret)

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{name: "密钥不匹配", token: valid, secret: []byte("other")},
		{name: "已过期", token: expired, secret: secret},
		{name: "非管理员", token: notAdmin, secret: secret},
		{name: "格式错误", token: "not-a-token", secret: secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.token, tt.secret); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestEmptySecret(t *testing.T) {
	if _, err := GenerateToken("ops", time.Hour, nil); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("err = %v", err)
	}
	if _, err := ParseToken("x", nil); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("err = %v", err)
	}
}
