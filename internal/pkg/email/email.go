package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/NatanaelSou/TCC-Project/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendNewSubscriberNotice 通知创作者有新订阅者
func (s *Service) SendNewSubscriberNotice(to, subscriberName, tierName string) error {
	subject := "新订阅者 - 创作者订阅平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">新订阅者</h2>
        <p>您好，</p>
        <p>用户 <strong>%s</strong> 订阅了您的档位：</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 20px; font-weight: bold; margin: 20px 0;">
            %s
        </div>
        <p>登录平台查看订阅详情和收益统计。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, subscriberName, tierName)

	return s.sendHTML(to, subject, body)
}

// SendSubscriptionCancelledNotice 通知创作者订阅被取消
func (s *Service) SendSubscriptionCancelledNotice(to, subscriberName, tierName string) error {
	subject := "订阅取消 - 创作者订阅平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">订阅取消</h2>
        <p>您好，</p>
        <p>用户 <strong>%s</strong> 取消了档位 <strong>%s</strong> 的订阅。</p>
        <p>被取消的订阅可以随时恢复，您无需进行任何操作。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, subscriberName, tierName)

	return s.sendHTML(to, subject, body)
}

// SendChannelJoinNotice 通知创作者有用户加入频道
func (s *Service) SendChannelJoinNotice(to, memberName, channelName string) error {
	subject := "频道新成员 - 创作者订阅平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">频道新成员</h2>
        <p>您好，</p>
        <p>用户 <strong>%s</strong> 加入了您的频道 <strong>%s</strong>。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, memberName, channelName)

	return s.sendHTML(to, subject, body)
}

func (s *Service) sendHTML(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)

	headers := []string{
		fmt.Sprintf("From: %s", s.cfg.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}
