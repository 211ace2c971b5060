package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/site-logger/internal/application/notify"
	"github.com/jhoicas/site-logger/internal/application/ports"
	"github.com/jhoicas/site-logger/internal/domain/entity"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memOutbox struct {
	pending []*entity.Notification
	sent    []string
	failed  map[string]string
	listErr error
}

func (o *memOutbox) ListPending(_ context.Context, maxAttempts, limit int) ([]*entity.Notification, error) {
	if o.listErr != nil {
		return nil, o.listErr
	}
	var out []*entity.Notification
	for _, n := range o.pending {
		if n.Status != entity.NotificationSent && n.Attempts < maxAttempts && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (o *memOutbox) MarkSent(_ context.Context, id string) error {
	o.sent = append(o.sent, id)
	for _, n := range o.pending {
		if n.ID == id {
			n.Status = entity.NotificationSent
		}
	}
	return nil
}

func (o *memOutbox) MarkFailed(_ context.Context, id, reason string) error {
	if o.failed == nil {
		o.failed = map[string]string{}
	}
	o.failed[id] = reason
	for _, n := range o.pending {
		if n.ID == id {
			n.Status = entity.NotificationFailed
			n.Attempts++
		}
	}
	return nil
}

type fakeRenderer struct{ err error }

func (r fakeRenderer) Render(n *entity.Notification) ([]byte, error) {
	return []byte("%PDF-" + n.BatchID), r.err
}

type fakeMailer struct {
	msgs    []ports.MailMessage
	failFor string
}

func (m *fakeMailer) Send(_ context.Context, msg ports.MailMessage) error {
	if msg.To == m.failFor {
		return errors.New("550 mailbox unavailable")
	}
	m.msgs = append(m.msgs, msg)
	return nil
}

func note(id, to string) *entity.Notification {
	return &entity.Notification{ID: id, BatchID: "b-" + id, Recipient: to, Subject: "Recibo", Status: entity.NotificationPending}
}

func TestDispatchOnce_EnviaYMarca(t *testing.T) {
	outbox := &memOutbox{pending: []*entity.Notification{note("1", "a@b.com"), note("2", "bad@b.com")}}
	mailer := &fakeMailer{failFor: "bad@b.com"}
	d := notify.NewDispatcher(outbox, fakeRenderer{}, mailer, notify.Config{}, zerolog.Nop())

	sent, failed, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, failed)

	assert.Equal(t, []string{"1"}, outbox.sent)
	assert.Contains(t, outbox.failed["2"], "550")

	require.Len(t, mailer.msgs, 1)
	require.Len(t, mailer.msgs[0].Attachments, 1)
	att := mailer.msgs[0].Attachments[0]
	assert.Equal(t, "recibo-b-1.pdf", att.Filename)
	assert.Equal(t, "application/pdf", att.ContentType)
}

func TestDispatchOnce_RespetaMaxIntentos(t *testing.T) {
	outbox := &memOutbox{pending: []*entity.Notification{note("1", "bad@b.com")}}
	d := notify.NewDispatcher(outbox, nil, &fakeMailer{failFor: "bad@b.com"}, notify.Config{MaxAttempts: 2}, zerolog.Nop())

	for i := 0; i < 4; i++ {
		_, _, err := d.DispatchOnce(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, outbox.pending[0].Attempts)
	assert.Equal(t, entity.NotificationFailed, outbox.pending[0].Status)
}

func TestDispatchOnce_FalloDeRender(t *testing.T) {
	outbox := &memOutbox{pending: []*entity.Notification{note("1", "a@b.com")}}
	mailer := &fakeMailer{}
	d := notify.NewDispatcher(outbox, fakeRenderer{err: errors.New("font missing")}, mailer, notify.Config{}, zerolog.Nop())

	_, failed, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	assert.Empty(t, mailer.msgs)
}

func TestDispatchOnce_ErrorDeListado(t *testing.T) {
	outbox := &memOutbox{listErr: errors.New("db down")}
	d := notify.NewDispatcher(outbox, nil, &fakeMailer{}, notify.Config{}, zerolog.Nop())

	_, _, err := d.DispatchOnce(context.Background())
	assert.Error(t, err)
}

func TestRun_TerminaAlCancelar(t *testing.T) {
	outbox := &memOutbox{pending: []*entity.Notification{note("1", "a@b.com")}}
	d := notify.NewDispatcher(outbox, nil, &fakeMailer{}, notify.Config{Interval: time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}
