package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/site-logger/internal/application/inventory"
	"github.com/jhoicas/site-logger/internal/application/submission"
	"github.com/jhoicas/site-logger/internal/application/validation"
	"github.com/jhoicas/site-logger/internal/domain"
	"github.com/jhoicas/site-logger/internal/domain/entity"
	"github.com/jhoicas/site-logger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba: una "BD" en memoria con semántica de Commit/Rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu            sync.Mutex
	inventory     []entity.InventoryRecord
	hours         []entity.SystemHoursRecord
	notifications []entity.Notification

	failInsertAt int   // 1-based; 0 = nunca
	outboxErr    error // error de Enqueue
	beginErr     error
	runs         int
}

type txRepo struct {
	store     *memStore
	inserted  int
	inventory []entity.InventoryRecord
	hours     []entity.SystemHoursRecord
	notes     []entity.Notification
}

func (r *txRepo) InsertInventory(_ context.Context, rec *entity.InventoryRecord) error {
	r.inserted++
	if r.store.failInsertAt == r.inserted {
		return errors.New("constraint violation")
	}
	r.inventory = append(r.inventory, *rec)
	return nil
}

func (r *txRepo) InsertSystemHours(_ context.Context, rec *entity.SystemHoursRecord) error {
	r.inserted++
	if r.store.failInsertAt == r.inserted {
		return errors.New("constraint violation")
	}
	r.hours = append(r.hours, *rec)
	return nil
}

func (r *txRepo) Enqueue(_ context.Context, n *entity.Notification) error {
	if r.store.outboxErr != nil {
		return r.store.outboxErr
	}
	r.notes = append(r.notes, *n)
	return nil
}

func (s *memStore) Run(ctx context.Context, fn func(repository.EntryLogRepository, repository.NotificationOutbox) error) error {
	s.mu.Lock()
	s.runs++
	s.mu.Unlock()
	if s.beginErr != nil {
		return s.beginErr
	}
	tx := &txRepo{store: s}
	if err := fn(tx, tx); err != nil {
		return err // rollback: nada de tx se copia
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory = append(s.inventory, tx.inventory...)
	s.hours = append(s.hours, tx.hours...)
	s.notifications = append(s.notifications, tx.notes...)
	return nil
}

func newUC(store *memStore) *inventory.SaveBatchUseCase {
	return inventory.NewSaveBatchUseCase(store, inventory.NewMemoryGuard(), nil, zerolog.Nop())
}

func threeRows() []validation.InventoryForm {
	return []validation.InventoryForm{
		{Location: "1004", WeekEnding: "2024-06-08", Material: "Wood", Quantity: "12.5", Unit: "TN"},
		{Location: "2015", WeekEnding: "2024-06-08", Material: "Metal", Quantity: "3", Unit: "TN"},
		{Location: "3021", WeekEnding: "2024-06-08", Material: "Mulch", Quantity: "40", Unit: "YD"},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestSaveInventory_EscenarioConcreto(t *testing.T) {
	store := &memStore{}
	uc := newUC(store)

	receipt, err := uc.SaveInventory(context.Background(), inventory.SaveInventoryInput{
		SubmittedBy: "a@b.com",
		Items: []validation.InventoryForm{
			{Location: "1004", WeekEnding: "2024-06-08", Material: "Wood", Quantity: "12.5", Unit: "TN"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, receipt)

	require.Len(t, store.inventory, 1, "el límite recibe exactamente una fila")
	row := store.inventory[0]
	assert.Equal(t, "Wood", row.Material)
	assert.True(t, decimal.RequireFromString("12.5").Equal(row.Quantity))
	assert.Equal(t, "a@b.com", row.CreatedBy)
	assert.Equal(t, entity.SourceApp, row.Source)
	assert.Equal(t, receipt.BatchID, row.BatchID)
	assert.Equal(t, 1, receipt.Count)
}

func TestSaveInventory_Exito_CadaFilaConMarcaDeTiempo(t *testing.T) {
	store := &memStore{}
	uc := newUC(store)

	before := time.Now().UTC().Add(-time.Second)
	receipt, err := uc.SaveInventory(context.Background(), inventory.SaveInventoryInput{
		SubmittedBy: "a@b.com", Items: threeRows(),
	})
	require.NoError(t, err)

	require.Len(t, receipt.Inventory, 3)
	for _, r := range receipt.Inventory {
		assert.False(t, r.CreatedAt.IsZero())
		assert.True(t, r.CreatedAt.After(before))
		assert.Equal(t, receipt.CreatedAt, r.CreatedAt, "una marca de tiempo por lote")
		assert.NotEmpty(t, r.ID)
	}
	assert.Len(t, store.inventory, 3)
}

func TestSaveInventory_FalloEnFila2_NadaRegistrado(t *testing.T) {
	store := &memStore{failInsertAt: 2}
	uc := newUC(store)

	_, err := uc.SaveInventory(context.Background(), inventory.SaveInventoryInput{
		SubmittedBy: "a@b.com", Items: threeRows(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Empty(t, store.inventory, "atomicidad: ninguna fila queda registrada")
}

func TestSaveInventory_FilaInvalida_ValidationErrorConIndice(t *testing.T) {
	store := &memStore{}
	uc := newUC(store)

	rows := threeRows()
	rows[1].Material = ""

	_, err := uc.SaveInventory(context.Background(), inventory.SaveInventoryInput{
		SubmittedBy: "a@b.com", Items: rows,
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	var rowErr *domain.RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 1, rowErr.Row)
	assert.ErrorIs(t, err, domain.ErrInvalidChoice)
	assert.Empty(t, store.inventory, "la fila 0 ya escrita se revierte")
}

func TestSaveInventory_Precondiciones_SinLlamarAlAlmacen(t *testing.T) {
	store := &memStore{}
	uc := newUC(store)

	_, err := uc.SaveInventory(context.Background(), inventory.SaveInventoryInput{SubmittedBy: "a@b.com"})
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)

	_, err = uc.SaveInventory(context.Background(), inventory.SaveInventoryInput{SubmittedBy: "  ", Items: threeRows()})
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)

	assert.Zero(t, store.runs)
}

func TestSaveInventory_ErrorAlIniciarTx_EsTransporte(t *testing.T) {
	store := &memStore{beginErr: errors.New("connection refused")}
	uc := newUC(store)

	_, err := uc.SaveInventory(context.Background(), inventory.SaveInventoryInput{SubmittedBy: "a@b.com", Items: threeRows()})
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestSaveInventory_FalloDelOutboxNoAfectaElLote(t *testing.T) {
	store := &memStore{outboxErr: errors.New("outbox lleno")}
	uc := newUC(store)

	receipt, err := uc.SaveInventory(context.Background(), inventory.SaveInventoryInput{
		SubmittedBy: "a@b.com", Items: threeRows(), Notify: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, receipt.Count)
	assert.Len(t, store.inventory, 3)
	assert.Empty(t, store.notifications)
}

func TestSaveInventory_NotificacionEncoladaEnLaMismaTx(t *testing.T) {
	store := &memStore{}
	uc := newUC(store)

	receipt, err := uc.SaveInventory(context.Background(), inventory.SaveInventoryInput{
		SubmittedBy: "a@b.com", Items: threeRows(), Notify: true,
	})
	require.NoError(t, err)

	require.Len(t, store.notifications, 1)
	n := store.notifications[0]
	assert.Equal(t, "a@b.com", n.Recipient)
	assert.Equal(t, receipt.BatchID, n.BatchID)
	assert.Equal(t, entity.NotificationPending, n.Status)
	assert.Len(t, n.Lines, 3)
	assert.Contains(t, n.Body, "Wood")
}

func TestSaveSystemHours_Exito(t *testing.T) {
	store := &memStore{}
	uc := newUC(store)

	receipt, err := uc.SaveSystemHours(context.Background(), inventory.SaveHoursInput{
		SubmittedBy: "ops@b.com",
		Items: []validation.HoursForm{
			{Location: "1001", Date: "2024-06-03", Metric: "System Runtime", Hours: "7.5"},
			{Location: "1001", Date: "2024-06-03", Metric: "Mechanical Downtime", Hours: "0.5"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.KindSystemHours, receipt.Kind)
	assert.Len(t, store.hours, 2)
	assert.Equal(t, "ops@b.com", store.hours[0].CreatedBy)
}

func TestSaveSystemHours_HorasCero_RowError(t *testing.T) {
	store := &memStore{}
	uc := newUC(store)

	_, err := uc.SaveSystemHours(context.Background(), inventory.SaveHoursInput{
		SubmittedBy: "ops@b.com",
		Items: []validation.HoursForm{
			{Location: "1001", Date: "2024-06-03", Metric: "System Runtime", Hours: "0"},
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrInvalidNumber)
	assert.Empty(t, store.hours)
}

// blockingStore bloquea dentro de la tx para simular un envío lento.
// Solo la primera llamada se bloquea.
type blockingStore struct {
	memStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) Run(ctx context.Context, fn func(repository.EntryLogRepository, repository.NotificationOutbox) error) error {
	first := false
	s.once.Do(func() {
		first = true
		close(s.entered)
	})
	if first {
		<-s.release
	}
	return s.memStore.Run(ctx, fn)
}

func TestSaveInventory_EnvioDuplicadoConcurrente_Rechazado(t *testing.T) {
	store := &blockingStore{entered: make(chan struct{}), release: make(chan struct{})}
	uc := inventory.NewSaveBatchUseCase(store, inventory.NewMemoryGuard(), nil, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := uc.SaveInventory(context.Background(), inventory.SaveInventoryInput{SubmittedBy: "a@b.com", Items: threeRows()})
		done <- err
	}()
	<-store.entered

	_, err := uc.SaveInventory(context.Background(), inventory.SaveInventoryInput{SubmittedBy: "A@B.com", Items: threeRows()})
	assert.ErrorIs(t, err, domain.ErrSubmissionInProgress)

	// Otro tipo de lote del mismo usuario no se bloquea.
	_, err = uc.SaveSystemHours(context.Background(), inventory.SaveHoursInput{
		SubmittedBy: "a@b.com",
		Items:       []validation.HoursForm{{Location: "1001", Date: "2024-06-03", Metric: "System Runtime", Hours: "1"}},
	})
	assert.NoError(t, err)

	close(store.release)
	require.NoError(t, <-done)
	assert.Len(t, store.inventory, 3)
}

func TestInventoryBoundary_ConvierteEntradasTipadas(t *testing.T) {
	store := &memStore{}
	uc := newUC(store)

	boundary := uc.InventoryBoundary()
	entry := entity.InventoryEntry{
		Location:   "1004",
		WeekEnding: time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC),
		Material:   "Wood",
		Quantity:   decimal.RequireFromString("12.5"),
		Unit:       "TN",
	}
	receipt, err := boundary(context.Background(), []entity.InventoryEntry{entry}, "a@b.com", submission.Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.Count)
	assert.Equal(t, entry, store.inventory[0].InventoryEntry)
	assert.Empty(t, store.notifications)
}

func TestHoursBoundary_NotifyEncolaRecibo(t *testing.T) {
	store := &memStore{}
	uc := newUC(store)

	entry := entity.HoursEntry{
		Location: "1042",
		Date:     time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Metric:   "System Runtime",
		Hours:    decimal.RequireFromString("8"),
	}
	receipt, err := uc.HoursBoundary()(context.Background(), []entity.HoursEntry{entry}, "a@b.com", submission.Request{Notify: true})
	require.NoError(t, err)
	require.Len(t, store.notifications, 1)
	assert.Equal(t, receipt.BatchID, store.notifications[0].BatchID)
	assert.Equal(t, "a@b.com", store.notifications[0].Recipient)
}
