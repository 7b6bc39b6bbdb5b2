package service

import (
	"fmt"

	"ledger/config"

	"gopkg.in/gomail.v2"
)

// EmailService SMTP 邮件发送
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendPasswordResetCode 发送密码重置验证码邮件
func (s *EmailService) SendPasswordResetCode(to, username, code string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "密码重置验证码")
	m.SetBody("text/html", fmt.Sprintf(`
		<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2>密码重置</h2>
			<p>%s，你好：</p>
			<p>你正在重置账号密码，验证码为：</p>
			<p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">%s</p>
			<p>验证码 10 分钟内有效，如非本人操作请忽略本邮件。</p>
		</div>`, username, code))

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
