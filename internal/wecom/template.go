package wecom

import (
	"strings"
	"time"
)

// TimeLayout is the 24-hour display format used in message bodies.
const TimeLayout = "2006/1/2 15:04:05"

const divider = "----------------"

// FormatText renders the message body; the code block only appears when a code was found.
func FormatText(msg Message, at time.Time) string {
	var b strings.Builder

	if msg.Code != "" {
		b.WriteString("🚀 【收到验证码】\n")
		b.WriteString(divider + "\n")
		b.WriteString("验证码：" + msg.Code + "\n")
	} else {
		b.WriteString("📩 【收到新短信】\n")
	}
	b.WriteString(divider + "\n")
	b.WriteString("内容：" + msg.Content + "\n\n")
	b.WriteString("📱 设备：" + msg.Device + "\n")
	b.WriteString("⏰ 时间：" + at.Format(TimeLayout))

	return b.String()
}
