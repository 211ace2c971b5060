package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUnauthorized = errors.New("no autorizado")

	// Errores de campo: se resuelven antes de agregar al área de preparación y nunca llegan a la red.
	ErrInvalidChoice = errors.New("valor fuera del catálogo")
	ErrInvalidNumber = errors.New("número inválido o no positivo")
	ErrInvalidDate   = errors.New("fecha ausente o inválida")

	// Errores de lote.
	ErrPreconditionFailed   = errors.New("precondición no cumplida")
	ErrValidation           = errors.New("fila rechazada por validación")
	ErrTransport            = errors.New("almacenamiento no disponible")
	ErrSubmissionInProgress = errors.New("ya hay un envío en curso")
)

// FieldError asocia un error de validación a un campo del formulario.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e FieldError) Unwrap() error { return e.Err }

// FieldErrors agrupa todos los campos inválidos de una entrada. Cada campo se evalúa por separado.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap permite errors.Is(err, ErrInvalidNumber) sobre el conjunto.
func (fe FieldErrors) Unwrap() []error {
	errs := make([]error, 0, len(fe))
	for _, e := range fe {
		errs = append(errs, e)
	}
	return errs
}

// Fields devuelve un mapa campo → mensaje, útil para respuestas HTTP.
func (fe FieldErrors) Fields() map[string]string {
	m := make(map[string]string, len(fe))
	for _, e := range fe {
		m[e.Field] = e.Err.Error()
	}
	return m
}

// RowError indica la fila (base 0) que hizo fallar un lote completo.
type RowError struct {
	Row    int
	Reason error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("fila %d: %v", e.Row, e.Reason)
}

// Is hace que un RowError sea siempre un ErrValidation.
func (e *RowError) Is(target error) bool { return target == ErrValidation }

func (e *RowError) Unwrap() error { return e.Reason }

// Transport envuelve un fallo de infraestructura como ErrTransport conservando la causa.
func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
}
