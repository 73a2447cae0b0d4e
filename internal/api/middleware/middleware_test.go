package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── RequestID ──

func TestRequestID_Generated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/", func(c *gin.Context) { seen = GetRequestID(c) })

	w := serve(r, httptest.NewRequest("GET", "/", nil))
	rid := w.Header().Get(requestIDHeader)
	if rid == "" || rid != seen {
		t.Errorf("期望生成并回写 Request-ID，header=%q context=%q", rid, seen)
	}
}

func TestRequestID_Propagated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	if got := serve(r, req).Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("期望沿用 abc-123，实际: %q", got)
	}
}

func TestRequestID_RejectsOversized(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", requestIDMaxLen+1))
	if got := serve(r, req).Header().Get(requestIDHeader); len(got) > requestIDMaxLen {
		t.Errorf("过长的 Request-ID 应被替换，实际长度: %d", len(got))
	}
}

// ── Logger ──

func TestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(r, httptest.NewRequest("GET", "/ok", nil))
	serve(r, httptest.NewRequest("GET", "/missing", nil))
	serve(r, httptest.NewRequest("GET", "/boom", nil))

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("期望 3 条日志，实际: %d", len(entries))
	}
	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Errorf("第 %d 条日志级别期望 %s，实际 %s", i, want[i], e.Level)
		}
		if rid, _ := e.ContextMap()["request_id"].(string); rid == "" {
			t.Errorf("第 %d 条日志缺少 request_id", i)
		}
	}
}

// ── CORS ──

func TestCORS_AllowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://site.example/"}))
	r.GET("/", func(c *gin.Context) {})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://site.example")
	w := serve(r, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "https://site.example" {
		t.Errorf("期望放行该来源，实际: %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORS_UnknownOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://site.example"}))
	r.GET("/", func(c *gin.Context) {})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	if got := serve(r, req).Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("未知来源不应放行，实际: %q", got)
	}
}

func TestCORS_Wildcard(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"*"}))
	r.GET("/", func(c *gin.Context) {})

	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "https://any.example")
	w := serve(r, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("预检请求期望 204，实际: %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("期望 *，实际: %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Error("通配来源不应携带凭据头")
	}
}

// ── SecurityHeaders ──

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) {})

	w := serve(r, httptest.NewRequest("GET", "/", nil))
	for _, h := range []string{"X-Frame-Options", "X-Content-Type-Options", "Content-Security-Policy"} {
		if w.Header().Get(h) == "" {
			t.Errorf("缺少响应头 %s", h)
		}
	}
}

// ── BodyLimit ──

func TestBodyLimit_DeclaredLength(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	called := false
	r.POST("/", func(c *gin.Context) { called = true })

	w := serve(r, httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("a", 64))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("期望 413，实际: %d", w.Code)
	}
	if called {
		t.Error("超限请求不应进入 handler")
	}
}

func TestBodyLimit_StreamedBody(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	var bindErr error
	r.POST("/", func(c *gin.Context) {
		var v map[string]string
		bindErr = c.ShouldBindJSON(&v)
	})

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"k":"`+strings.Repeat("a", 64)+`"}`))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")
	serve(r, req)

	var tooLarge *http.MaxBytesError
	if bindErr == nil || !errors.As(bindErr, &tooLarge) {
		t.Errorf("期望 *http.MaxBytesError，实际: %v", bindErr)
	}
}

func TestBodyLimit_WithinLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(1 << 10))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := serve(r, httptest.NewRequest("POST", "/", strings.NewReader("{}"))); w.Code != http.StatusOK {
		t.Errorf("期望 200，实际: %d", w.Code)
	}
}
