package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gestion-formacion/backend/config"
)

// Message 待发送的邮件
type Message struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender 邮件发送接口
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// NewSender 根据 mail.provider 选择发送实现
func NewSender(cfg *config.MailConfig, logger *zap.Logger) (Sender, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPSender(cfg, logger), nil
	case "sendgrid":
		return NewSendgridSender(cfg, logger), nil
	case "log":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("不支持的邮件服务: %s", cfg.Provider)
	}
}

// ────────────────────── 仅日志 ──────────────────────

type logSender struct {
	logger *zap.Logger
}

// NewLogSender 只记录日志不真正发送，用于本地开发
func NewLogSender(logger *zap.Logger) Sender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(_ context.Context, msg *Message) error {
	s.logger.Info("邮件（未发送）",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.TextBody),
	)
	return nil
}
