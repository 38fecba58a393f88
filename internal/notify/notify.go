// Package notify 新投稿通知
package notify

import (
	"context"
	"fmt"
	"sync"

	"dadaocheng/exploration/config"
	"dadaocheng/exploration/packages/email"

	"go.uber.org/zap"
)

// SubmissionEvent 投稿成功提交后的事件
type SubmissionEvent struct {
	SubmissionID uint
	GroupNumber  int
	TaskKey      string
	Title        string
	FileCount    int
}

// Notifier 投稿通知
type Notifier interface {
	SubmissionCreated(ev SubmissionEvent)
}

// Sender 发送邮件，*email.Client 实现
type Sender interface {
	Send(msg *email.Message) error
}

// Nop 不发送任何通知
type Nop struct{}

func (Nop) SubmissionCreated(SubmissionEvent) {}

// EmailNotifier 异步发送邮件给审核人员，失败只记录日志
type EmailNotifier struct {
	sender     Sender
	from       string
	recipients []string
	tmpl       *email.Template
	log        *zap.Logger
	wg         sync.WaitGroup
}

// New SMTP 或收件人未配置时返回 Nop
func New(smtp email.Config, conf config.NotifyConfig, log *zap.Logger) (Notifier, error) {
	if !smtp.Enabled() || len(conf.Recipients) == 0 {
		return Nop{}, nil
	}
	return NewEmailNotifier(email.NewClient(smtp), conf.From, conf.Recipients, log)
}

func NewEmailNotifier(sender Sender, from string, recipients []string, log *zap.Logger) (*EmailNotifier, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tmpl, err := email.NewTemplate(email.NewSubmissionTemplate)
	if err != nil {
		return nil, err
	}
	return &EmailNotifier{
		sender:     sender,
		from:       from,
		recipients: recipients,
		tmpl:       tmpl,
		log:        log,
	}, nil
}

func (n *EmailNotifier) SubmissionCreated(ev SubmissionEvent) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.send(ev); err != nil {
			n.log.Warn("发送投稿通知失败",
				zap.Uint("submission_id", ev.SubmissionID),
				zap.Error(err),
			)
		}
	}()
}

func (n *EmailNotifier) send(ev SubmissionEvent) error {
	body, err := n.tmpl.Render(email.NewSubmissionData{
		SubmissionID: ev.SubmissionID,
		GroupNumber:  ev.GroupNumber,
		TaskKey:      ev.TaskKey,
		Title:        ev.Title,
		FileCount:    ev.FileCount,
	})
	if err != nil {
		return err
	}
	return n.sender.Send(&email.Message{
		From:    n.from,
		To:      n.recipients,
		Subject: fmt.Sprintf("【大稻埕探索】第%d組 新成果投稿", ev.GroupNumber),
		Body:    body,
	})
}

// Wait 等待已派发的通知发送完成，关闭服务时调用
func (n *EmailNotifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
