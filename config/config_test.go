package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
auth:
  jwt_secret: "una-clave-suficientemente-larga"
  access_token_ttl: 45m
mail:
  provider: log
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Auth.AccessTokenTTL != 45*time.Minute {
		t.Errorf("access_token_ttl = %v", cfg.Auth.AccessTokenTTL)
	}
	// 未配置的项取默认值
	if cfg.Auth.ResetTokenTTL != 15*time.Minute {
		t.Errorf("reset_token_ttl 默认值错误: %v", cfg.Auth.ResetTokenTTL)
	}
	if cfg.Database.Timezone != "America/Bogota" || cfg.Import.MaxUploadMB != 20 {
		t.Errorf("默认值错误: %+v %+v", cfg.Database, cfg.Import)
	}
	rl := cfg.RateLimit
	if rl.Login != (RateRule{Limit: 10, Window: time.Minute}) ||
		rl.ForgotIP != (RateRule{Limit: 5, Window: 15 * time.Minute}) ||
		rl.ForgotEmail != (RateRule{Limit: 3, Window: time.Hour}) ||
		rl.ResetToken != (RateRule{Limit: 20, Window: time.Minute}) {
		t.Errorf("限流默认值错误: %+v", rl)
	}
}

func TestLoad_RateLimitOverride(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "una-clave-suficientemente-larga"
mail:
  provider: log
rate_limit:
  login:
    limit: 3
    window: 30s
`)
	t.Setenv("GF_RATE_LIMIT_FORGOT_EMAIL_LIMIT", "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.RateLimit.Login != (RateRule{Limit: 3, Window: 30 * time.Second}) {
		t.Errorf("login 规则未被配置文件覆盖: %+v", cfg.RateLimit.Login)
	}
	if cfg.RateLimit.ForgotEmail.Limit != 1 || cfg.RateLimit.ForgotEmail.Window != time.Hour {
		t.Errorf("forgot_email 规则错误: %+v", cfg.RateLimit.ForgotEmail)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "una-clave-suficientemente-larga"
mail:
  provider: log
`)
	t.Setenv("GF_SERVER_PORT", "8088")
	t.Setenv("GF_DB_HOST", "db.internal")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Server.Port != 8088 || cfg.Database.Host != "db.internal" {
		t.Errorf("环境变量应覆盖配置文件: port=%d host=%s", cfg.Server.Port, cfg.Database.Host)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8000, FrontendURL: "http://localhost:5173"},
			Auth:   AuthConfig{JWTSecret: "una-clave-suficientemente-larga", ResetTokenTTL: 15 * time.Minute},
			Mail:   MailConfig{Provider: "smtp"},
			RateLimit: RateLimitConfig{
				Login:       RateRule{Limit: 10, Window: time.Minute},
				ForgotIP:    RateRule{Limit: 5, Window: 15 * time.Minute},
				ForgotEmail: RateRule{Limit: 3, Window: time.Hour},
				ResetToken:  RateRule{Limit: 20, Window: time.Minute},
			},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("合法配置不应报错: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"缺少密钥", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"密钥过短", func(c *Config) { c.Auth.JWTSecret = "corta" }},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }},
		{"重置令牌 TTL", func(c *Config) { c.Auth.ResetTokenTTL = 0 }},
		{"sendgrid 缺少 key", func(c *Config) { c.Mail.Provider = "sendgrid" }},
		{"未知邮件通道", func(c *Config) { c.Mail.Provider = "paloma" }},
		{"缺少前端地址", func(c *Config) { c.Server.FrontendURL = "" }},
		{"登录限流次数为 0", func(c *Config) { c.RateLimit.Login.Limit = 0 }},
		{"邮箱限流窗口为 0", func(c *Config) { c.RateLimit.ForgotEmail.Window = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("期望校验失败")
			}
		})
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable", Timezone: "America/Bogota"}
	want := "host=h port=5432 user=u password=p dbname=n sslmode=disable TimeZone=America/Bogota"
	if got := c.DSN(); got != want {
		t.Errorf("DSN = %q", got)
	}
}

// [自证通过] config/config_test.go
