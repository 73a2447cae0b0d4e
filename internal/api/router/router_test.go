package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitecms/config"
	"sitecms/internal/api/handler"
	"sitecms/internal/service"
	"sitecms/internal/storage"
)

func setupRouter(t *testing.T, maxBody int64) http.Handler {
	t.Helper()
	cfg := &config.Config{Server: config.ServerConfig{
		Port:         8080,
		MaxBodyBytes: maxBody,
		CORS:         config.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}},
	}}
	store := storage.NewMemory()
	h := handler.NewHandler(service.NewService(store, zap.NewNop()))
	return Setup(cfg, h, zap.NewNop())
}

func TestRouter_Health(t *testing.T) {
	r := setupRouter(t, 1<<20)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("响应缺少 X-Request-ID")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("响应缺少安全头")
	}
}

func TestRouter_ProjectLifecycle(t *testing.T) {
	r := setupRouter(t, 1<<20)

	body := `{"name":"Harbour Bridge","start_date":"2025-01-06","end_date":"2025-11-28"}`
	req := httptest.NewRequest("POST", "/api/v1/projects", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Data struct {
			ProjectID uuid.UUID `json:"project_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/projects/"+created.Data.ProjectID.String()+"/progress", nil))
	if w.Code != http.StatusOK {
		t.Errorf("progress expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRouter_MetricsReportNotShadowedByID(t *testing.T) {
	r := setupRouter(t, 1<<20)

	w := httptest.NewRecorder()
	url := "/api/v1/metrics/report?crew_id=" + uuid.NewString() + "&start_date=2025-06-01&end_date=2025-06-30"
	r.ServeHTTP(w, httptest.NewRequest("GET", url, nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRouter_BodyTooLarge(t *testing.T) {
	r := setupRouter(t, 32)

	body := `{"username":"` + strings.Repeat("x", 64) + `","role":"Foreman"}`
	req := httptest.NewRequest("POST", "/api/v1/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}
