package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应不是合法 JSON: %v", err)
	}
	return resp
}

func TestSuccessAndFail(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Success(c, map[string]int{"total": 3}, "搜索成功")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode(t, w)
	if resp.Code != http.StatusOK || resp.Message != "搜索成功" {
		t.Errorf("resp = %+v", resp)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Fail(c, http.StatusBadRequest, "缺少要删除的查询词")
	if w.Code != http.StatusBadRequest || decode(t, w).Data != nil {
		t.Errorf("Fail 响应错误: %d %s", w.Code, w.Body.String())
	}
}

func TestAbortStopsChain(t *testing.T) {
	r := gin.New()
	reached := false
	r.GET("/", func(c *gin.Context) {
		Abort(c, http.StatusTooManyRequests, "搜索过于频繁，请稍后再试")
	}, func(c *gin.Context) {
		reached = true
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if reached {
		t.Error("Abort 后不应继续执行后续处理器")
	}
	if w.Code != http.StatusTooManyRequests || decode(t, w).Code != http.StatusTooManyRequests {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}
