package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"gestion-formacion/backend/config"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type sendgridSender struct {
	key    string
	from   *sgmail.Email
	logger *zap.Logger
}

// NewSendgridSender 创建 SendGrid 发送器
func NewSendgridSender(cfg *config.MailConfig, logger *zap.Logger) Sender {
	return &sendgridSender{
		key:    cfg.SendgridAPIKey,
		from:   sgmail.NewEmail(cfg.FromName, cfg.From),
		logger: logger,
	}
}

func (s *sendgridSender) Send(ctx context.Context, msg *Message) error {
	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("SendGrid 请求失败: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		s.logger.Error("SendGrid 返回错误",
			zap.Int("status", res.StatusCode),
			zap.String("body", res.Body),
		)
		return fmt.Errorf("SendGrid 返回状态码 %d", res.StatusCode)
	}

	s.logger.Info("邮件已发送", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (s *sendgridSender) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.TextBody))
	if msg.HTMLBody != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLBody))
	}
	return m
}
