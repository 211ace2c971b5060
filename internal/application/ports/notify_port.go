package ports

import (
	"context"

	"github.com/jhoicas/site-logger/internal/domain/entity"
)

// ReceiptRenderer genera el documento adjunto de un recibo (PDF).
type ReceiptRenderer interface {
	Render(n *entity.Notification) ([]byte, error)
}

// Attachment archivo adjunto de un correo.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// MailMessage correo saliente.
type MailMessage struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// MailSender puerto de salida de correo.
type MailSender interface {
	Send(ctx context.Context, msg MailMessage) error
}
