package mailer

import (
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/templates"
	"github.com/wneessen/go-mail"
)

var timetableTemplate = template.Must(template.ParseFS(templates.FS, "timetable_email.html"))

// 与 domain.MailMessage 对应，Data 延迟到确定邮件类型之后再解析
type envelope struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// BuildMessage 将消息队列中的消息转换成待发送的邮件，返回错误时该消息不应该被重新投递
func BuildMessage(from string, body []byte) (*mail.Msg, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := msg.To(env.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}

	switch env.Type {
	case domain.MailTypeTimetable:
		var data domain.TimetableMailData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("课表数据反序列化失败: %w", err)
		}
		if err := msg.SetBodyHTMLTemplate(timetableTemplate, data); err != nil {
			return nil, fmt.Errorf("无法设置邮件正文: %w", err)
		}
		msg.Subject("Timetable Generator - 课表")
	default:
		return nil, fmt.Errorf("不支持的邮件类型 %q", env.Type)
	}

	return msg, nil
}
