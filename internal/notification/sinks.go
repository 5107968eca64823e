package notification

import (
	"context"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// -----------------------------------------------------------------------
// SMTP
// -----------------------------------------------------------------------

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSink struct {
	sender Sender
	from   string
}

func NewSMTPSink(host string, port int, username, password, from string) *SMTPSink {
	return NewSMTPSinkWithSender(gomail.NewDialer(host, port, username, password), from)
}

func NewSMTPSinkWithSender(sender Sender, from string) *SMTPSink {
	return &SMTPSink{sender: sender, from: from}
}

func (s *SMTPSink) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	return s.sender.DialAndSend(m)
}

// -----------------------------------------------------------------------
// Log
// -----------------------------------------------------------------------

// LogSink writes messages to the log instead of delivering them. Used
// when no SMTP host is configured.
type LogSink struct {
	log logrus.FieldLogger
}

func NewLogSink(log logrus.FieldLogger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Send(_ context.Context, msg Message) error {
	s.log.WithFields(logrus.Fields{
		"kind":           msg.Kind,
		"to":             msg.To,
		"subject":        msg.Subject,
		"appointment_id": msg.AppointmentID,
	}).Info("notification")
	return nil
}
