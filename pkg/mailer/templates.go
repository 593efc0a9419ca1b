package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
)

var resetHTML = template.Must(template.New("reset").Parse(`<p>Hola {{.Nombre}},</p>
<p>Recibimos una solicitud para restablecer tu contraseña.</p>
<p><a href="{{.Link}}">Restablecer contraseña</a></p>
<p>El enlace expira en {{.Minutos}} minutos. Si no solicitaste el cambio, ignora este mensaje.</p>`))

// ResetLink 拼接前端的密码重置链接
func ResetLink(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

// PasswordResetMessage 构造密码重置邮件
func PasswordResetMessage(to, nombre, link string, ttl time.Duration) (*Message, error) {
	minutos := int(ttl.Minutes())
	data := struct {
		Nombre  string
		Link    string
		Minutos int
	}{nombre, link, minutos}

	var html bytes.Buffer
	if err := resetHTML.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("渲染邮件模板失败: %w", err)
	}

	text := fmt.Sprintf(
		"Hola %s,\n\nRecibimos una solicitud para restablecer tu contraseña.\nAbre el siguiente enlace: %s\n\nEl enlace expira en %d minutos.",
		nombre, link, minutos,
	)

	return &Message{
		To:       to,
		ToName:   nombre,
		Subject:  "Recuperación de contraseña",
		TextBody: text,
		HTMLBody: html.String(),
	}, nil
}
