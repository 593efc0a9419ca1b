package mailer

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"gestion-formacion/backend/config"
)

func TestNewSender_Providers(t *testing.T) {
	logger := zap.NewNop()
	for _, p := range []string{"smtp", "sendgrid", "log"} {
		s, err := NewSender(&config.MailConfig{Provider: p, SendgridAPIKey: "k"}, logger)
		if err != nil || s == nil {
			t.Fatalf("provider %s 应创建成功: %v", p, err)
		}
	}
	if _, err := NewSender(&config.MailConfig{Provider: "pigeon"}, logger); err == nil {
		t.Fatal("未知 provider 应返回错误")
	}
}

func TestLogSender_Send(t *testing.T) {
	s := NewLogSender(zap.NewNop())
	if err := s.Send(context.Background(), &Message{To: "a@b.co", Subject: "x"}); err != nil {
		t.Fatalf("日志发送不应失败: %v", err)
	}
}

func TestResetLink(t *testing.T) {
	got := ResetLink("http://localhost:5173/", "a.b+c")
	want := "http://localhost:5173/reset-password?token=a.b%2Bc"
	if got != want {
		t.Errorf("ResetLink = %q, want %q", got, want)
	}
}

func TestPasswordResetMessage(t *testing.T) {
	msg, err := PasswordResetMessage("ana@sena.edu.co", "Ana", "http://x/reset-password?token=t", 15*time.Minute)
	if err != nil {
		t.Fatalf("构造邮件失败: %v", err)
	}
	if msg.To != "ana@sena.edu.co" {
		t.Errorf("收件人错误: %s", msg.To)
	}
	if !strings.Contains(msg.TextBody, "15 minutos") {
		t.Errorf("正文应包含有效期: %s", msg.TextBody)
	}
	if !strings.Contains(msg.HTMLBody, `href="http://x/reset-password?token=t"`) {
		t.Errorf("HTML 应包含链接: %s", msg.HTMLBody)
	}
}

func TestBuildMIME(t *testing.T) {
	raw := string(buildMIME("no-reply@sena.edu.co", "Gestión", &Message{
		To: "a@b.co", Subject: "Hola", TextBody: "texto", HTMLBody: "<p>html</p>",
	}))
	for _, want := range []string{"To: a@b.co", "text/plain", "text/html", "<no-reply@sena.edu.co>"} {
		if !strings.Contains(raw, want) {
			t.Errorf("MIME 内容缺少 %q", want)
		}
	}
}
