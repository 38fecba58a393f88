package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{name: "完整消息", msg: Message{From: "a@x.tw", To: []string{"b@x.tw"}, Subject: "hi"}},
		{name: "缺少发件人", msg: Message{To: []string{"b@x.tw"}, Subject: "hi"}, wantErr: true},
		{name: "缺少收件人", msg: Message{From: "a@x.tw", Subject: "hi"}, wantErr: true},
		{name: "缺少主题", msg: Message{From: "a@x.tw", To: []string{"b@x.tw"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMessageBytes(t *testing.T) {
	msg := Message{
		From:    "noreply@dadaocheng.tw",
		To:      []string{"a@x.tw", "b@x.tw"},
		Subject: "新投稿",
		Body:    "body",
	}

	raw := string(msg.Bytes())
	assert.True(t, strings.HasPrefix(raw, "From: noreply@dadaocheng.tw\r\nTo: a@x.tw, b@x.tw\r\n"))
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.NotContains(t, raw, "Cc:")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nbody"))
}

func TestNewSubmissionTemplate(t *testing.T) {
	tmpl, err := NewTemplate(NewSubmissionTemplate)
	require.NoError(t, err)

	out, err := tmpl.Render(NewSubmissionData{
		SubmissionID: 12,
		GroupNumber:  5,
		TaskKey:      "task2",
		Title:        "第5組 - TASK2 成果",
		FileCount:    2,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "組別：第5組")
	assert.Contains(t, out, "檔案數量：2")
	assert.Contains(t, out, "投稿編號：12")
}

func TestConfigEnabled(t *testing.T) {
	var nilCfg *Config
	assert.False(t, nilCfg.Enabled())
	assert.False(t, (&Config{}).Enabled())
	assert.True(t, (&Config{Host: "smtp.example.com"}).Enabled())
}
