// Package notify despacha los recibos encolados en la bandeja de salida.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/site-logger/internal/application/ports"
	"github.com/jhoicas/site-logger/internal/domain/entity"
	"github.com/jhoicas/site-logger/internal/domain/repository"
)

// Config parámetros del despachador.
type Config struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

func (c *Config) defaults() {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 20
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
}

// Dispatcher lee notificaciones pendientes, adjunta el PDF del recibo y las envía.
// El resultado de un envío nunca afecta al lote que lo originó.
type Dispatcher struct {
	outbox   repository.NotificationOutboxReader
	renderer ports.ReceiptRenderer
	mailer   ports.MailSender
	cfg      Config
	log      zerolog.Logger
}

// NewDispatcher construye el despachador. renderer puede ser nil (correo sin adjunto).
func NewDispatcher(outbox repository.NotificationOutboxReader, renderer ports.ReceiptRenderer, mailer ports.MailSender, cfg Config, log zerolog.Logger) *Dispatcher {
	cfg.defaults()
	return &Dispatcher{outbox: outbox, renderer: renderer, mailer: mailer, cfg: cfg, log: log}
}

// Run despacha cada Interval hasta que ctx se cancele.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()
	for {
		if _, _, err := d.DispatchOnce(ctx); err != nil && ctx.Err() == nil {
			d.log.Error().Err(err).Msg("outbox: error listando pendientes")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// DispatchOnce procesa un bloque de pendientes y devuelve cuántas se enviaron y cuántas fallaron.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (sent, failed int, err error) {
	pending, err := d.outbox.ListPending(ctx, d.cfg.MaxAttempts, d.cfg.BatchSize)
	if err != nil {
		return 0, 0, fmt.Errorf("listar pendientes: %w", err)
	}
	for _, n := range pending {
		if ctx.Err() != nil {
			break
		}
		if err := d.deliver(ctx, n); err != nil {
			failed++
			d.log.Warn().Err(err).
				Str("notification_id", n.ID).
				Str("batch_id", n.BatchID).
				Int("attempt", n.Attempts+1).
				Msg("outbox: envío fallido")
			if mErr := d.outbox.MarkFailed(ctx, n.ID, err.Error()); mErr != nil {
				d.log.Error().Err(mErr).Str("notification_id", n.ID).Msg("outbox: no se pudo marcar fallo")
			}
			continue
		}
		sent++
		if mErr := d.outbox.MarkSent(ctx, n.ID); mErr != nil {
			d.log.Error().Err(mErr).Str("notification_id", n.ID).Msg("outbox: no se pudo marcar enviado")
		}
	}
	if sent+failed > 0 {
		d.log.Info().Int("sent", sent).Int("failed", failed).Msg("outbox: ciclo completado")
	}
	return sent, failed, nil
}

func (d *Dispatcher) deliver(ctx context.Context, n *entity.Notification) error {
	msg := ports.MailMessage{To: n.Recipient, Subject: n.Subject, Body: n.Body}
	if d.renderer != nil {
		pdf, err := d.renderer.Render(n)
		if err != nil {
			return fmt.Errorf("generar PDF: %w", err)
		}
		msg.Attachments = append(msg.Attachments, ports.Attachment{
			Filename:    fmt.Sprintf("recibo-%s.pdf", n.BatchID),
			ContentType: "application/pdf",
			Data:        pdf,
		})
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("enviar correo: %w", err)
	}
	return nil
}
