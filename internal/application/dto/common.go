package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ErrorResponse cuerpo de error HTTP. Ok siempre es false.
type ErrorResponse struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	// Row índice (base 0) de la fila que invalidó el lote.
	Row    *int              `json:"row,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// SaveResponse respuesta 201 de los endpoints de guardado.
type SaveResponse struct {
	Ok        bool      `json:"ok"`
	BatchID   string    `json:"batchId"`
	Inserted  int       `json:"inserted"`
	CreatedAt time.Time `json:"createdAt"`
	Message   string    `json:"message,omitempty"`
}

// FlexString acepta un número, una cadena o null en JSON y conserva el texto tal cual.
// Los formularios web envían cantidades como string; otros clientes como número.
type FlexString string

// UnmarshalJSON implementa json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("se esperaba número o texto: %w", err)
		}
		*f = FlexString(n.String())
		return nil
	}
}

// String devuelve el texto crudo.
func (f FlexString) String() string { return string(f) }

// Códigos de error de la API.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidation       = "VALIDATION_ERROR"
	CodePrecondition     = "PRECONDITION_FAILED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInProgress       = "SUBMISSION_IN_PROGRESS"
	CodeStorage          = "STORAGE_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
)
