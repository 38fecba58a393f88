package email

import (
	"bytes"
	"fmt"
	"text/template"
)

// Template 纯文本邮件模板
type Template struct {
	tmpl *template.Template
}

// NewTemplate 从字符串创建模板
func NewTemplate(content string) (*Template, error) {
	tmpl, err := template.New("email").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("解析邮件模板失败: %w", err)
	}
	return &Template{tmpl: tmpl}, nil
}

// Render 渲染模板
func (t *Template) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("渲染邮件模板失败: %w", err)
	}
	return buf.String(), nil
}

// NewSubmissionTemplate 新成果投稿通知
const NewSubmissionTemplate = `大稻埕探索 收到新的成果投稿

組別：第{{.GroupNumber}}組
任務：{{.TaskKey}}
標題：{{.Title}}
檔案數量：{{.FileCount}}
投稿編號：{{.SubmissionID}}

請登入管理後台審核。
`

// NewSubmissionData 新投稿通知模板数据
type NewSubmissionData struct {
	SubmissionID uint
	GroupNumber  int
	TaskKey      string
	Title        string
	FileCount    int
}
