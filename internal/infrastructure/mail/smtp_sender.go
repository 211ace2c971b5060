// Package mail envía los recibos por SMTP con gomail.
package mail

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/site-logger/internal/application/ports"
	"github.com/jhoicas/site-logger/pkg/config"
)

var _ ports.MailSender = (*SMTPSender)(nil)

// SMTPSender implementa ports.MailSender. Abre una conexión por envío.
type SMTPSender struct {
	from string
	dial func() (gomail.SendCloser, error)
}

// NewSMTPSender construye el emisor desde la configuración SMTP_*.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &SMTPSender{from: cfg.From, dial: d.Dial}
}

// Send arma el mensaje MIME y lo entrega.
func (s *SMTPSender) Send(ctx context.Context, msg ports.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := buildMessage(s.from, msg)

	sc, err := s.dial()
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer sc.Close()

	if err := gomail.Send(sc, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(from string, msg ports.MailMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	for _, a := range msg.Attachments {
		data := a.Data
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return m
}
