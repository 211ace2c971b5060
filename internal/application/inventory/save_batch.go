package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/site-logger/internal/application/submission"
	"github.com/jhoicas/site-logger/internal/application/validation"
	"github.com/jhoicas/site-logger/internal/domain"
	"github.com/jhoicas/site-logger/internal/domain/entity"
	"github.com/jhoicas/site-logger/internal/domain/repository"
)

// guardTTL tiempo máximo que un envío retiene el guard si el proceso muere sin liberarlo.
const guardTTL = 2 * time.Minute

// SaveBatchUseCase guarda lotes de inventario y horas de sistema de forma atómica:
// todas las filas quedan registradas con la misma marca de tiempo del servidor, o ninguna.
type SaveBatchUseCase struct {
	txRunner  TxRunner
	guard     SubmissionGuard
	validator *validation.Validator
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string
}

// NewSaveBatchUseCase construye el caso de uso. guard puede ser nil (sin protección de duplicados).
func NewSaveBatchUseCase(txRunner TxRunner, guard SubmissionGuard, validator *validation.Validator, log zerolog.Logger) *SaveBatchUseCase {
	if validator == nil {
		validator = validation.New(nil)
	}
	return &SaveBatchUseCase{
		txRunner:  txRunner,
		guard:     guard,
		validator: validator,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
}

// SaveInventoryInput lote de inventario con los valores crudos de cada fila.
type SaveInventoryInput struct {
	SubmittedBy string
	Items       []validation.InventoryForm
	Notify      bool
}

// SaveHoursInput lote de horas de sistema.
type SaveHoursInput struct {
	SubmittedBy string
	Items       []validation.HoursForm
	Notify      bool
}

// SaveInventory valida cada fila dentro de la transacción; la primera inválida aborta el lote
// con un *domain.RowError y se revierte todo lo escrito en el intento.
func (uc *SaveBatchUseCase) SaveInventory(ctx context.Context, in SaveInventoryInput) (*entity.BatchReceipt, error) {
	if err := preconditions(in.SubmittedBy, len(in.Items)); err != nil {
		return nil, err
	}
	release, err := uc.acquire(ctx, entity.KindInventory, in.SubmittedBy)
	if err != nil {
		return nil, err
	}
	defer release()

	receipt := uc.newReceipt(entity.KindInventory, in.SubmittedBy)
	records := make([]entity.InventoryRecord, 0, len(in.Items))

	err = uc.txRunner.Run(ctx, func(logRepo repository.EntryLogRepository, outbox repository.NotificationOutbox) error {
		records = records[:0] // el runner puede reintentar fn
		for i, item := range in.Items {
			entry, err := uc.validator.Inventory(item)
			if err != nil {
				return &domain.RowError{Row: i, Reason: err}
			}
			rec := entity.InventoryRecord{
				ID:             uc.newID(),
				BatchID:        receipt.BatchID,
				InventoryEntry: entry,
				CreatedBy:      in.SubmittedBy,
				CreatedAt:      receipt.CreatedAt,
				Source:         entity.SourceApp,
			}
			if err := logRepo.InsertInventory(ctx, &rec); err != nil {
				return domain.Transport(fmt.Sprintf("insertar fila %d", i), err)
			}
			records = append(records, rec)
		}
		if in.Notify {
			uc.enqueue(ctx, outbox, receipt, inventoryLines(records))
		}
		return nil
	})
	if err != nil {
		return nil, uc.fail(receipt, err)
	}

	receipt.Count = len(records)
	receipt.Inventory = records
	uc.log.Info().
		Str("batch_id", receipt.BatchID).
		Str("kind", receipt.Kind).
		Str("submitted_by", receipt.SubmittedBy).
		Int("rows", receipt.Count).
		Msg("lote guardado")
	return receipt, nil
}

// SaveSystemHours equivalente a SaveInventory para lecturas de horas.
func (uc *SaveBatchUseCase) SaveSystemHours(ctx context.Context, in SaveHoursInput) (*entity.BatchReceipt, error) {
	if err := preconditions(in.SubmittedBy, len(in.Items)); err != nil {
		return nil, err
	}
	release, err := uc.acquire(ctx, entity.KindSystemHours, in.SubmittedBy)
	if err != nil {
		return nil, err
	}
	defer release()

	receipt := uc.newReceipt(entity.KindSystemHours, in.SubmittedBy)
	records := make([]entity.SystemHoursRecord, 0, len(in.Items))

	err = uc.txRunner.Run(ctx, func(logRepo repository.EntryLogRepository, outbox repository.NotificationOutbox) error {
		records = records[:0] // el runner puede reintentar fn
		for i, item := range in.Items {
			entry, err := uc.validator.Hours(item)
			if err != nil {
				return &domain.RowError{Row: i, Reason: err}
			}
			rec := entity.SystemHoursRecord{
				ID:         uc.newID(),
				BatchID:    receipt.BatchID,
				HoursEntry: entry,
				CreatedBy:  in.SubmittedBy,
				CreatedAt:  receipt.CreatedAt,
				Source:     entity.SourceApp,
			}
			if err := logRepo.InsertSystemHours(ctx, &rec); err != nil {
				return domain.Transport(fmt.Sprintf("insertar fila %d", i), err)
			}
			records = append(records, rec)
		}
		if in.Notify {
			uc.enqueue(ctx, outbox, receipt, hoursLines(records))
		}
		return nil
	})
	if err != nil {
		return nil, uc.fail(receipt, err)
	}

	receipt.Count = len(records)
	receipt.SystemHours = records
	uc.log.Info().
		Str("batch_id", receipt.BatchID).
		Str("kind", receipt.Kind).
		Str("submitted_by", receipt.SubmittedBy).
		Int("rows", receipt.Count).
		Msg("lote guardado")
	return receipt, nil
}

// InventoryBoundary adapta el caso de uso al límite de persistencia de una sesión de preparación.
func (uc *SaveBatchUseCase) InventoryBoundary() submission.Boundary[entity.InventoryEntry] {
	return func(ctx context.Context, entries []entity.InventoryEntry, submittedBy string, req submission.Request) (*entity.BatchReceipt, error) {
		items := make([]validation.InventoryForm, len(entries))
		for i, e := range entries {
			items[i] = InventoryFormOf(e)
		}
		return uc.SaveInventory(ctx, SaveInventoryInput{SubmittedBy: submittedBy, Items: items, Notify: req.Notify})
	}
}

// HoursBoundary adapta el caso de uso para sesiones de horas de sistema.
func (uc *SaveBatchUseCase) HoursBoundary() submission.Boundary[entity.HoursEntry] {
	return func(ctx context.Context, entries []entity.HoursEntry, submittedBy string, req submission.Request) (*entity.BatchReceipt, error) {
		items := make([]validation.HoursForm, len(entries))
		for i, e := range entries {
			items[i] = HoursFormOf(e)
		}
		return uc.SaveSystemHours(ctx, SaveHoursInput{SubmittedBy: submittedBy, Items: items, Notify: req.Notify})
	}
}

// InventoryFormOf vuelve a la forma cruda de una entrada tipada.
func InventoryFormOf(e entity.InventoryEntry) validation.InventoryForm {
	return validation.InventoryForm{
		Location:   e.Location,
		WeekEnding: dateString(e.WeekEnding),
		Material:   e.Material,
		Quantity:   e.Quantity.String(),
		Unit:       e.Unit,
	}
}

// HoursFormOf vuelve a la forma cruda de una entrada de horas tipada.
func HoursFormOf(e entity.HoursEntry) validation.HoursForm {
	return validation.HoursForm{
		Location: e.Location,
		Date:     dateString(e.Date),
		Metric:   e.Metric,
		Hours:    e.Hours.String(),
	}
}

func preconditions(submittedBy string, n int) error {
	if strings.TrimSpace(submittedBy) == "" {
		return fmt.Errorf("%w: usuario no identificado", domain.ErrPreconditionFailed)
	}
	if n == 0 {
		return fmt.Errorf("%w: el lote no tiene filas", domain.ErrPreconditionFailed)
	}
	return nil
}

func (uc *SaveBatchUseCase) acquire(ctx context.Context, kind, submittedBy string) (func(), error) {
	if uc.guard == nil {
		return func() {}, nil
	}
	release, err := uc.guard.Acquire(ctx, "submit:"+kind+":"+entity.IdentityKey(submittedBy), guardTTL)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionInProgress) {
			return nil, err
		}
		// Sin guard disponible se sigue adelante: la atomicidad la da la transacción.
		uc.log.Warn().Err(err).Str("kind", kind).Msg("guard de envío no disponible")
		return func() {}, nil
	}
	return release, nil
}

func (uc *SaveBatchUseCase) newReceipt(kind, submittedBy string) *entity.BatchReceipt {
	return &entity.BatchReceipt{
		BatchID:     uc.newID(),
		Kind:        kind,
		SubmittedBy: submittedBy,
		CreatedAt:   uc.now(),
	}
}

// fail normaliza el error: validación y transporte pasan tal cual; lo demás (begin/commit) es transporte.
func (uc *SaveBatchUseCase) fail(receipt *entity.BatchReceipt, err error) error {
	ev := uc.log.Warn()
	if !errors.Is(err, domain.ErrValidation) {
		ev = uc.log.Error()
		if !errors.Is(err, domain.ErrTransport) {
			err = domain.Transport("guardar lote", err)
		}
	}
	ev.Err(err).
		Str("batch_id", receipt.BatchID).
		Str("kind", receipt.Kind).
		Str("submitted_by", receipt.SubmittedBy).
		Msg("lote rechazado, nada se guardó")
	return err
}

// enqueue encola el recibo. Un fallo aquí nunca afecta el resultado del lote.
func (uc *SaveBatchUseCase) enqueue(ctx context.Context, outbox repository.NotificationOutbox, receipt *entity.BatchReceipt, lines []entity.ReceiptLine) {
	if outbox == nil {
		return
	}
	n := &entity.Notification{
		ID:        uc.newID(),
		BatchID:   receipt.BatchID,
		Kind:      receipt.Kind,
		Recipient: receipt.SubmittedBy,
		Subject:   receiptSubject(receipt.Kind, len(lines)),
		Body:      receiptBody(receipt, lines),
		Lines:     lines,
		Status:    entity.NotificationPending,
		CreatedAt: receipt.CreatedAt,
	}
	if err := outbox.Enqueue(ctx, n); err != nil {
		uc.log.Warn().Err(err).Str("batch_id", receipt.BatchID).Msg("no se pudo encolar el recibo")
	}
}

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
