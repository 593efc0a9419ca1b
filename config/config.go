package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
// 进程启动时构造一次，显式注入到需要的组件中
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Mail      MailConfig      `mapstructure:"mail"`
	Log       LogConfig       `mapstructure:"log"`
	Import    ImportConfig    `mapstructure:"import"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port        int        `mapstructure:"port"`
	FrontendURL string     `mapstructure:"frontend_url"` // 用于拼接密码重置链接
	CORS        CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 分钟
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 分钟
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置（限流与令牌吊销）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	Issuer         string        `mapstructure:"issuer"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	ResetTokenTTL  time.Duration `mapstructure:"reset_token_ttl"`
}

// MailConfig 邮件配置
// Provider: smtp | sendgrid | log（仅记录日志，不发送）
type MailConfig struct {
	Provider       string `mapstructure:"provider"`
	SendgridAPIKey string `mapstructure:"sendgrid_api_key"`
	SMTPHost       string `mapstructure:"smtp_host"`
	SMTPPort       int    `mapstructure:"smtp_port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	From           string `mapstructure:"from"`
	FromName       string `mapstructure:"from_name"`
	StartTLS       bool   `mapstructure:"starttls"`
	SSLTLS         bool   `mapstructure:"ssl_tls"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ImportConfig 表格导入配置
type ImportConfig struct {
	MaxUploadMB int64 `mapstructure:"max_upload_mb"`
}

// RateRule 单条限流规则：Window 内最多 Limit 次
type RateRule struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

// RateLimitConfig /access 公开接口的限流规则
type RateLimitConfig struct {
	Login       RateRule `mapstructure:"login"`        // 按 IP
	ForgotIP    RateRule `mapstructure:"forgot_ip"`    // 找回密码，按 IP
	ForgotEmail RateRule `mapstructure:"forgot_email"` // 找回密码，按目标邮箱
	ResetToken  RateRule `mapstructure:"reset_token"`  // 校验与使用重置令牌，按 IP
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 仅用于本地开发，文件不存在时忽略
	_ = godotenv.Load()

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.frontend_url", "http://localhost:5173")
	v.SetDefault("server.cors.allow_origins", []string{"*"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "gestion_formacion")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "America/Bogota")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.issuer", "gestion-formacion")
	v.SetDefault("auth.access_token_ttl", "30m")
	v.SetDefault("auth.reset_token_ttl", "15m")

	v.SetDefault("mail.provider", "smtp")
	v.SetDefault("mail.smtp_host", "smtp.gmail.com")
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("mail.from_name", "Gestión Formación")
	v.SetDefault("mail.starttls", true)
	v.SetDefault("mail.ssl_tls", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("import.max_upload_mb", 20)

	v.SetDefault("rate_limit.login.limit", 10)
	v.SetDefault("rate_limit.login.window", "1m")
	v.SetDefault("rate_limit.forgot_ip.limit", 5)
	v.SetDefault("rate_limit.forgot_ip.window", "15m")
	v.SetDefault("rate_limit.forgot_email.limit", 3)
	v.SetDefault("rate_limit.forgot_email.window", "1h")
	v.SetDefault("rate_limit.reset_token.limit", 20)
	v.SetDefault("rate_limit.reset_token.window", "1m")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("GF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Auth.ResetTokenTTL <= 0 {
		return fmt.Errorf("配置校验失败: auth.reset_token_ttl 必须大于 0")
	}
	switch c.Mail.Provider {
	case "smtp", "log":
	case "sendgrid":
		if c.Mail.SendgridAPIKey == "" {
			return fmt.Errorf("配置校验失败: mail.sendgrid_api_key 不能为空")
		}
	default:
		return fmt.Errorf("配置校验失败: 不支持的 mail.provider %q", c.Mail.Provider)
	}
	if c.Server.FrontendURL == "" {
		return fmt.Errorf("配置校验失败: server.frontend_url 不能为空")
	}
	rules := []struct {
		name string
		rule RateRule
	}{
		{"login", c.RateLimit.Login},
		{"forgot_ip", c.RateLimit.ForgotIP},
		{"forgot_email", c.RateLimit.ForgotEmail},
		{"reset_token", c.RateLimit.ResetToken},
	}
	for _, r := range rules {
		if r.rule.Limit <= 0 || r.rule.Window <= 0 {
			return fmt.Errorf("配置校验失败: rate_limit.%s 的 limit 与 window 必须大于 0", r.name)
		}
	}
	return nil
}
