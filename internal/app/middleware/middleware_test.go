package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ghibli-db/ghibli-app/internal/pkg/auth"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSearchRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/api/public/search", SearchRateLimit(60, 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/public/search", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("1.1.1.1"); code != http.StatusOK {
			t.Fatalf("突发内第 %d 次请求 code = %d", i+1, code)
		}
	}
	if code := do("1.1.1.1"); code != http.StatusTooManyRequests {
		t.Errorf("超出突发后 code = %d, want 429", code)
	}
	if code := do("2.2.2.2"); code != http.StatusOK {
		t.Errorf("其他 IP 不应受影响, code = %d", code)
	}
}

func TestSearchRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.GET("/x", SearchRateLimit(0, 0), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("code = %d", w.Code)
		}
	}
}

func TestRemoveIdleLimiters(t *testing.T) {
	l := newIPRateLimiter(10, 1)
	l.getLimiter("a")
	l.getLimiter("b")
	if n := l.removeIdle(time.Now().Add(11 * time.Minute)); n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}
}

func TestAdminAuth(t *testing.T) {
	secret := "kiki-delivery"
	token, err := auth.GenerateToken("ops", time.Hour, []byte(secret))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{name: "有效Token", secret: secret, header: "Bearer " + token, want: http.StatusOK},
		{name: "缺少Token", secret: secret, header: "", want: http.StatusUnauthorized},
		{name: "格式错误", secret: secret, header: token, want: http.StatusUnauthorized},
		{name: "密钥不符", secret: "other", header: "Bearer " + token, want: http.StatusUnauthorized},
		{name: "未配置密钥", secret: "", header: "Bearer " + token, want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/api/search/cache/stats", NewMiddleware(tt.secret).AdminAuth(), func(c *gin.Context) {
				if _, ok := c.Get(auth.ClaimsKey); !ok {
					t.Error("Claims 未写入上下文")
				}
				c.Status(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/api/search/cache/stats", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("code = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestCorsPreflight(t *testing.T) {
	r := gin.New()
	r.Use(Cors())
	r.GET("/api/public/search", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/public/search", nil)
	req.Header.Set("Origin", "https://ghibli.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("code = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://ghibli.example" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
