// Package notify sends completion email for finished audits.
package notify

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/jonesrussell/goseo/internal/domain"
	"github.com/jonesrussell/goseo/internal/logger"
)

const defaultSMTPPort = 587

// Config holds SMTP settings. Leaving Host empty disables sending.
type Config struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`
	Sender   string `json:"sender"`
}

// Mailer sends the completion summary for one audit, with the PDF report
// attached, to the project's notification address.
type Mailer struct {
	cfg Config
	log logger.Interface
}

// NewMailer creates a mailer. An empty sender falls back to the SMTP username
// and a zero port to 587.
func NewMailer(cfg Config, log logger.Interface) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = defaultSMTPPort
	}
	if cfg.Sender == "" {
		cfg.Sender = cfg.Username
	}
	return &Mailer{cfg: cfg, log: log}
}

// Enabled reports whether enough SMTP configuration is present to send mail.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != "" && m.cfg.Sender != ""
}

// SendAuditReport mails the audit summary to recipient with the rendered PDF
// attached. Disabled mailers return nil without sending.
func (m *Mailer) SendAuditReport(recipient string, audit *domain.AuditResult, pdf []byte) error {
	if !m.Enabled() {
		return nil
	}

	msg := m.buildMessage(recipient, audit, pdf)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send audit email: %w", err)
	}

	m.log.Info("Audit email sent",
		"audit_id", audit.ID,
		"recipient", recipient,
	)

	return nil
}

func (m *Mailer) buildMessage(recipient string, audit *domain.AuditResult, pdf []byte) *gomail.Message {
	score := "-"
	if audit.Score != nil {
		score = strconv.Itoa(*audit.Score)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", fmt.Sprintf("SEO audit completed: %s", audit.URL))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Audit completed for %s\nStatus: %s\nScore: %s\n",
		audit.URL, audit.Status, score,
	))
	msg.Attach(
		fmt.Sprintf("seo-audit-%s.pdf", audit.ID),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
	)

	return msg
}
