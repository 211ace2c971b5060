package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/site-logger/internal/application/dto"
	"github.com/jhoicas/site-logger/internal/domain"
)

// writeError traduce un error de dominio a su respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var rowErr *domain.RowError
	var fieldErrs domain.FieldErrors

	switch {
	case errors.As(err, &rowErr):
		row := rowErr.Row
		resp := dto.ErrorResponse{Error: err.Error(), Code: dto.CodeValidation, Row: &row}
		if errors.As(rowErr.Reason, &fieldErrs) {
			resp.Fields = fieldErrs.Fields()
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	case errors.As(err, &fieldErrs):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: err.Error(), Code: dto.CodeValidation, Fields: fieldErrs.Fields(),
		})
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error(), Code: dto.CodeValidation})
	case errors.Is(err, domain.ErrPreconditionFailed):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error(), Code: dto.CodePrecondition})
	case errors.Is(err, domain.ErrUnauthorized):
		return unauthorized(c)
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error(), Code: dto.CodeNotFound})
	case errors.Is(err, domain.ErrSubmissionInProgress):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error(), Code: dto.CodeInProgress})
	case errors.Is(err, domain.ErrTransport):
		// El detalle de la causa queda en el log del caso de uso.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: domain.ErrTransport.Error(), Code: dto.CodeStorage,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "error interno", Code: dto.CodeInternal})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg, Code: dto.CodeBadRequest})
}

// methodNotAllowed responde 405 a cualquier método no soportado de la ruta.
func methodNotAllowed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(dto.ErrorResponse{
		Error: "método no permitido: " + c.Method(),
		Code:  dto.CodeMethodNotAllowed,
	})
}

// ErrorHandler manejador de errores de Fiber con el mismo cuerpo que el resto de la API.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := dto.CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = dto.CodeNotFound
		case fiber.StatusMethodNotAllowed:
			code = dto.CodeMethodNotAllowed
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
			code = dto.CodeBadRequest
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: fe.Message, Code: code})
	}
	return writeError(c, err)
}
