package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/site-logger/internal/application/ports"
)

type captureSender struct {
	from   string
	to     []string
	raw    bytes.Buffer
	closed bool
	err    error
}

func (c *captureSender) Send(from string, to []string, msg io.WriterTo) error {
	if c.err != nil {
		return c.err
	}
	c.from, c.to = from, to
	_, err := msg.WriteTo(&c.raw)
	return err
}

func (c *captureSender) Close() error {
	c.closed = true
	return nil
}

func TestSend_ArmaMensajeConAdjunto(t *testing.T) {
	sc := &captureSender{}
	s := &SMTPSender{from: "no-reply@site.com", dial: func() (gomail.SendCloser, error) { return sc, nil }}

	err := s.Send(context.Background(), ports.MailMessage{
		To:      "a@b.com",
		Subject: "Recibo: 1 entradas de inventario registradas",
		Body:    "Lote b1",
		Attachments: []ports.Attachment{
			{Filename: "recibo-b1.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "no-reply@site.com", sc.from)
	assert.Equal(t, []string{"a@b.com"}, sc.to)
	assert.True(t, sc.closed)
	raw := sc.raw.String()
	assert.Contains(t, raw, "Subject: Recibo: 1 entradas de inventario registradas")
	assert.Contains(t, raw, `filename="recibo-b1.pdf"`)
	assert.Contains(t, raw, "application/pdf")
}

func TestSend_Errores(t *testing.T) {
	s := &SMTPSender{dial: func() (gomail.SendCloser, error) { return nil, errors.New("connection refused") }}
	assert.Error(t, s.Send(context.Background(), ports.MailMessage{To: "a@b.com"}))

	s = &SMTPSender{dial: func() (gomail.SendCloser, error) { return &captureSender{err: errors.New("550")}, nil }}
	assert.Error(t, s.Send(context.Background(), ports.MailMessage{To: "a@b.com"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, ports.MailMessage{To: "a@b.com"}), context.Canceled)
}
