package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })
	return r
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := AuthConfig{Enabled: true, APIKeys: []string{"sk_test_12345678"}}
	r := newEngine(APIKeyAuth(cfg, zap.NewNop()))

	tests := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{"缺少key", nil, http.StatusUnauthorized},
		{"无效key", map[string]string{"X-API-Key": "bad"}, http.StatusForbidden},
		{"X-API-Key", map[string]string{"X-API-Key": "sk_test_12345678"}, http.StatusOK},
		{"Bearer", map[string]string{"Authorization": "Bearer sk_test_12345678"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	r := newEngine(APIKeyAuth(AuthConfig{Enabled: false}, zap.NewNop()))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk_t****5678", maskAPIKey("sk_test_12345678"))
}

func TestRateLimit(t *testing.T) {
	r := newEngine(RateLimit(RateLimitConfig{Enabled: true, RequestsPerMin: 1, BurstSize: 2}))
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newEngine(RateLimit(RateLimitConfig{}))
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestRequestTracing(t *testing.T) {
	r := newEngine(RequestTracing())

	t.Run("沿用请求头", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Request-ID", "abc")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, "abc", rr.Header().Get("X-Request-ID"))
		assert.Equal(t, "abc", rr.Body.String())
	})
	t.Run("自动生成", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Len(t, rr.Header().Get("X-Request-ID"), 36)
	})
}

func TestCORS_Preflight(t *testing.T) {
	r := newEngine(CORS())
	r.OPTIONS("/x", func(c *gin.Context) {})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
