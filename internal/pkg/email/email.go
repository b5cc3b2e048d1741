package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/greenplate/mealsub_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// 事件对应的邮件标题
var eventSubjects = map[string]string{
	"created":   "订阅确认 - 每日鲜食订阅平台",
	"updated":   "订阅变更确认 - 每日鲜食订阅平台",
	"paused":    "订阅暂停确认 - 每日鲜食订阅平台",
	"resumed":   "订阅恢复确认 - 每日鲜食订阅平台",
	"cancelled": "订阅取消确认 - 每日鲜食订阅平台",
}

// 事件对应的正文说明
var eventBodies = map[string]string{
	"created":   "您的餐食订阅已创建成功，我们将按所选配送日为您送餐。",
	"updated":   "您的餐食订阅内容已更新，新的套餐与配送安排立即生效。",
	"paused":    "您的餐食订阅已暂停，暂停期间不会配送、不会扣费。",
	"resumed":   "您的餐食订阅已恢复，我们将从下一个配送日继续为您送餐。",
	"cancelled": "您的餐食订阅已取消。期待您再次回来。",
}

// EventSubject 返回事件对应的邮件标题，供 worker 复用
func EventSubject(event string) string {
	if subject, ok := eventSubjects[event]; ok {
		return subject
	}
	return "订阅通知 - 每日鲜食订阅平台"
}

// SendSubscriptionEvent 发送订阅生命周期通知邮件
func (s *Service) SendSubscriptionEvent(to, username, event, planName string, totalPrice float64, pausedUntil string) error {
	body := eventBodies[event]
	if body == "" {
		body = "您的餐食订阅状态已变更。"
	}

	detail := fmt.Sprintf("套餐：%s，月度金额：%.0f 元", planName, totalPrice)
	if event == "paused" {
		if pausedUntil != "" {
			detail = fmt.Sprintf("暂停至：%s", pausedUntil)
		} else {
			detail = "暂停期限：无限期（可随时恢复）"
		}
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #16a34a;">%s</h2>
        <p>您好，%s！</p>
        <p>%s</p>
        <div style="background-color: #f3f4f6; padding: 15px; margin: 20px 0;">
            %s
        </div>
        <p>如有疑问可随时联系客服。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, EventSubject(event), username, body, detail)

	return s.sendHTML(to, EventSubject(event), html)
}

// SendWelcome 发送欢迎邮件
func (s *Service) SendWelcome(to, username string) error {
	subject := "欢迎加入 - 每日鲜食订阅平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #16a34a;">欢迎加入！</h2>
        <p>您好，%s！</p>
        <p>感谢您注册每日鲜食订阅平台。</p>
        <p>现在您可以：</p>
        <ul>
            <li>挑选适合自己的餐食套餐</li>
            <li>自由组合餐别与配送日</li>
            <li>随时暂停、恢复或调整订阅</li>
        </ul>
        <p>开始挑选您的第一份套餐吧！</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, username)

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
