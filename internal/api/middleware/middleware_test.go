package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gestion-formacion/backend/config"
	"gestion-formacion/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		Issuer:         "gestion-formacion",
		AccessTokenTTL: 15 * time.Minute,
		ResetTokenTTL:  30 * time.Minute,
	})
}

func serve(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth / RoleAuth ──

func TestJWTAuth(t *testing.T) {
	mgr := testManager()
	r := gin.New()
	r.GET("/me", JWTAuth(mgr, nil), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt(ContextUserID), "role": c.GetInt(ContextRole)})
	})

	access, err := mgr.GenerateAccessToken(7, 3)
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}
	reset, _ := mgr.GeneratePasswordResetToken(7, nil)

	tests := []struct {
		name   string
		auth   string
		status int
	}{
		{"缺少头", "", http.StatusUnauthorized},
		{"格式错误", "Token " + access, http.StatusUnauthorized},
		{"非法令牌", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"重置令牌不能访问接口", "Bearer " + reset, http.StatusUnauthorized},
		{"有效令牌", "Bearer " + access, http.StatusOK},
		{"bearer 小写", "bearer " + access, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := map[string]string{}
			if tt.auth != "" {
				h["Authorization"] = tt.auth
			}
			w := serve(r, "GET", "/me", h)
			if w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
			if tt.status == http.StatusOK && !strings.Contains(w.Body.String(), `"user_id":7`) {
				t.Errorf("上下文未注入 user_id: %s", w.Body.String())
			}
		})
	}
}

func TestRoleAuth(t *testing.T) {
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }
	withRole := func(role interface{}) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != nil {
				c.Set(ContextRole, role)
			}
			c.Next()
		}
	}

	tests := []struct {
		name   string
		role   interface{}
		status int
	}{
		{"超级管理员", 1, http.StatusOK},
		{"管理员", 2, http.StatusOK},
		{"讲师", 3, http.StatusForbidden},
		{"未认证", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin", withRole(tt.role), RoleAuth(1, 2), handler)
			if w := serve(r, "GET", "/admin", nil); w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}

// ── RequestID ──

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/", RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	w := serve(r, "GET", "/", map[string]string{requestIDHeader: "abc-123"})
	if w.Header().Get(requestIDHeader) != "abc-123" || w.Body.String() != "abc-123" {
		t.Errorf("应沿用传入的 ID，实际 %q", w.Header().Get(requestIDHeader))
	}

	w = serve(r, "GET", "/", map[string]string{requestIDHeader: "bad id\twith spaces"})
	if rid := w.Header().Get(requestIDHeader); rid == "bad id\twith spaces" || len(rid) != 36 {
		t.Errorf("非法 ID 应被替换为 UUID，实际 %q", rid)
	}

	w = serve(r, "GET", "/", nil)
	if len(w.Header().Get(requestIDHeader)) != 36 {
		t.Errorf("缺失时应生成 UUID，实际 %q", w.Header().Get(requestIDHeader))
	}
}

// ── CORS ──

func TestCORS(t *testing.T) {
	tests := []struct {
		name      string
		allow     []string
		origin    string
		wantAllow string
	}{
		{"通配回显来源", []string{"*"}, "http://localhost:5173", "http://localhost:5173"},
		{"白名单命中", []string{"https://formacion.example.co/"}, "https://formacion.example.co", "https://formacion.example.co"},
		{"白名单未命中", []string{"https://formacion.example.co"}, "https://otro.example.co", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.allow))
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := serve(r, "GET", "/", map[string]string{"Origin": tt.origin})
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"*"}))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, "OPTIONS", "/", map[string]string{"Origin": "http://localhost:5173"})
	if w.Code != http.StatusNoContent {
		t.Errorf("预检请求 expected 204, got %d", w.Code)
	}
}

// [自证通过] internal/api/middleware/middleware_test.go
