package mailer

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"acms/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const (
	SubjectInvitation = "Invitation to Join ACMS"
	SubjectAssignment = "You have been assigned to a new project on ACMS"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type InvitationData struct {
	Link        string
	ExpiryHours int
}

type AssignmentData struct {
	FirstName   string
	ProjectName string
	StartDate   string
	EndDate     string
	Link        string
}

func Invitation(to string, data InvitationData) (Message, error) {
	return render(to, SubjectInvitation, "invitation.html", data)
}

func Assignment(to string, data AssignmentData) (Message, error) {
	return render(to, SubjectAssignment, "assignment.html", data)
}

func render(to, subject, name string, data any) (Message, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Message{To: to, Subject: subject, HTML: buf.String()}, nil
}

// SMTP delivers messages through gomail. A fresh connection is dialed per
// message.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
	name   string
	logger *zap.Logger
}

func NewSMTP(cfg config.SMTPConfig, logger *zap.Logger) *SMTP {
	if logger == nil {
		logger = zap.NewNop()
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
		name:   cfg.FromName,
		logger: logger,
	}
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.name)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Warn("email delivery failed", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}
	s.logger.Debug("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// LogSender only logs outgoing mail. It is used when no SMTP host is set.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	s.logger.Info("email not sent, smtp disabled", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func New(cfg config.SMTPConfig, logger *zap.Logger) Sender {
	if cfg.Enabled() {
		return NewSMTP(cfg, logger)
	}
	return NewLogSender(logger)
}

func validate(msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("email recipient is required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return errors.New("email subject is required")
	}
	return nil
}
