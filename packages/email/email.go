package email

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// Config SMTP 服务配置
type Config struct {
	Host     string `koanf:"host"`     // SMTP 服务器地址，为空时不发送邮件
	Port     int    `koanf:"port"`     // SMTP 端口，通常 587 (STARTTLS)
	Username string `koanf:"username"` // 登录账号
	Password string `koanf:"password"` // 密码或授权码
	UseTLS   bool   `koanf:"tls"`      // 是否使用 STARTTLS
}

// Enabled SMTP 是否已配置
func (c *Config) Enabled() bool {
	return c != nil && c.Host != ""
}

// Message 邮件消息
type Message struct {
	From        string
	To          []string
	Cc          []string
	Subject     string
	Body        string
	ContentType string // 默认 text/plain
}

// Client 邮件客户端
type Client struct {
	config Config
}

// NewClient 创建邮件客户端
func NewClient(config Config) *Client {
	if config.Port == 0 {
		config.Port = 587
	}
	return &Client{config: config}
}

// Validate 校验消息必填字段
func (m *Message) Validate() error {
	if m.From == "" {
		return errors.New("发件人不能为空")
	}
	if len(m.To) == 0 {
		return errors.New("收件人不能为空")
	}
	if m.Subject == "" {
		return errors.New("邮件主题不能为空")
	}
	return nil
}

// Bytes 按 RFC 5322 组装邮件，header 顺序固定
func (m *Message) Bytes() []byte {
	contentType := m.ContentType
	if contentType == "" {
		contentType = "text/plain; charset=UTF-8"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.To, ", "))
	if len(m.Cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(m.Cc, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return []byte(b.String())
}

// Send 发送邮件
func (c *Client) Send(msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	recipients := append(append([]string{}, msg.To...), msg.Cc...)
	auth := smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)
	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)

	if c.config.UseTLS || c.config.Port == 587 {
		return c.sendWithTLS(addr, auth, msg.From, recipients, msg.Bytes())
	}
	return smtp.SendMail(addr, auth, msg.From, recipients, msg.Bytes())
}

// sendWithTLS 使用 STARTTLS 发送邮件
func (c *Client) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("连接 SMTP 服务器失败: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: c.config.Host}); err != nil {
		return fmt.Errorf("启动 TLS 失败: %w", err)
	}
	if c.config.Username != "" {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP 认证失败: %w", err)
		}
	}
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("设置发件人失败: %w", err)
	}
	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("设置收件人 %s 失败: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("准备发送邮件内容失败: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("写入邮件内容失败: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("关闭邮件内容写入失败: %w", err)
	}
	return client.Quit()
}
