package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout 日期列的统一格式
const DateLayout = "2006-01-02"

// ── PostgreSQL DATE 自定义类型 ──

// Date 对应 PostgreSQL DATE 列，JSON 序列化为 YYYY-MM-DD。
// 零值写入数据库时为 NULL。
type Date struct {
	time.Time
}

// NewDate 截取到日期部分
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("fecha inválida %q: %w", s, err)
	}
	return Date{t}, nil
}

// String 返回 YYYY-MM-DD，零值返回空串
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Scan 兼容驱动返回的 time.Time 与文本两种形式。
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("Date.Scan: unsupported type %T", src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) >= len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value 序列化为 YYYY-MM-DD 文本
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(DateLayout), nil
}

// MarshalJSON 零值输出 null
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON 接受 YYYY-MM-DD 或 null
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ── PostgreSQL TIME 自定义类型 ──

// Clock 对应 PostgreSQL TIME 列，统一保存为 HH:MM:SS。
// 定长格式下字符串比较与时间先后一致。
type Clock string

// ParseClock 接受 HH:MM 或 HH:MM:SS（驱动可能附带小数秒）
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock(t.Format("15:04:05")), nil
		}
	}
	return "", fmt.Errorf("hora inválida %q", s)
}

// Short 返回 HH:MM，用于提示信息
func (c Clock) Short() string {
	if len(c) >= 5 {
		return string(c[:5])
	}
	return string(c)
}

// Scan 将驱动返回的 TIME 文本规范化
func (c *Clock) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case nil:
		*c = ""
		return nil
	case []byte:
		s = string(v)
	case string:
		s = v
	case time.Time:
		s = v.Format("15:04:05")
	default:
		return fmt.Errorf("Clock.Scan: unsupported type %T", src)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value 空值写入 NULL
func (c Clock) Value() (driver.Value, error) {
	if c == "" {
		return nil, nil
	}
	return string(c), nil
}

// MarshalJSON 空值输出 null
func (c Clock) MarshalJSON() ([]byte, error) {
	if c == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(c))
}
