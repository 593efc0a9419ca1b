package jwt

import (
	"errors"
	"strconv"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"gestion-formacion/backend/config"
)

var (
	ErrTokenExpired = errors.New("token expirado")
	ErrTokenInvalid = errors.New("token inválido")
)

// Token 类型
const (
	TokenTypeAccess        = "access"
	TokenTypePasswordReset = "password_reset"
)

// Claims 自定义 JWT 声明
// sub 为用户 ID；重置令牌额外携带 password_changed_at 快照
type Claims struct {
	Role              int     `json:"rol,omitempty"`
	TokenType         string  `json:"type"`
	PasswordChangedAt *string `json:"password_changed_at,omitempty"`
	jwtv5.RegisteredClaims
}

// UserID 从 sub 中解析用户 ID
func (c *Claims) UserID() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil || id <= 0 {
		return 0, ErrTokenInvalid
	}
	return id, nil
}

// Manager JWT 管理器
type Manager struct {
	secret         []byte
	issuer         string
	accessTokenTTL time.Duration
	resetTokenTTL  time.Duration
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:         []byte(cfg.JWTSecret),
		issuer:         cfg.Issuer,
		accessTokenTTL: cfg.AccessTokenTTL,
		resetTokenTTL:  cfg.ResetTokenTTL,
	}
}

// AccessTokenTTL 返回访问令牌有效期
func (m *Manager) AccessTokenTTL() time.Duration { return m.accessTokenTTL }

// GenerateAccessToken 生成访问令牌
func (m *Manager) GenerateAccessToken(userID, role int) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      role,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.accessTokenTTL)),
			Issuer:    m.issuer,
		},
	}
	return m.sign(claims)
}

// GeneratePasswordResetToken 生成密码重置令牌
// passwordChangedAt 为 nil 表示用户从未修改过密码，快照字段省略
func (m *Manager) GeneratePasswordResetToken(userID int, passwordChangedAt *time.Time) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType:         TokenTypePasswordReset,
		PasswordChangedAt: Watermark(passwordChangedAt),
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.resetTokenTTL)),
			Issuer:    m.issuer,
		},
	}
	return m.sign(claims)
}

// ParseToken 解析并验证 Token（签名、过期、算法）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// ParsePasswordResetToken 解析重置令牌，类型不符视为无效
func (m *Manager) ParsePasswordResetToken(tokenString string) (*Claims, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypePasswordReset {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Watermark 将 password_changed_at 格式化为令牌中保存的快照字符串
// 签发与校验必须使用同一格式，比较时按字符串相等判断。
// PostgreSQL TIMESTAMPTZ 精度为微秒，先截断再格式化
func Watermark(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.UTC().Truncate(time.Microsecond).Format(time.RFC3339Nano)
	return &s
}

// WatermarkMatches 比较令牌快照与当前值：
// 两者都缺失或两者相等时有效，其余组合一律无效
func WatermarkMatches(snapshot *string, current *time.Time) bool {
	cur := Watermark(current)
	switch {
	case snapshot == nil && cur == nil:
		return true
	case snapshot != nil && cur != nil:
		return *snapshot == *cur
	default:
		return false
	}
}

func (m *Manager) sign(claims Claims) (string, error) {
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}
