// Package apiclient cliente HTTP del servicio para la CLI. Hace de límite de persistencia
// remoto para las sesiones de preparación locales.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/site-logger/internal/application/dto"
	"github.com/jhoicas/site-logger/internal/application/inventory"
	"github.com/jhoicas/site-logger/internal/application/submission"
	"github.com/jhoicas/site-logger/internal/domain"
	"github.com/jhoicas/site-logger/internal/domain/catalog"
	"github.com/jhoicas/site-logger/internal/domain/entity"
)

// Client habla con cmd/api.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New construye el cliente. token es un JWT emitido con "stagectl token".
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError error devuelto por el servicio.
type APIError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.Status, e.Body.Code, e.Body.Error)
}

// Unwrap traduce el código de la API al error de dominio equivalente.
func (e *APIError) Unwrap() error {
	switch e.Body.Code {
	case dto.CodeValidation:
		if e.Body.Row != nil {
			return &domain.RowError{Row: *e.Body.Row, Reason: errors.New(e.Body.Error)}
		}
		return domain.ErrValidation
	case dto.CodePrecondition:
		return domain.ErrPreconditionFailed
	case dto.CodeInProgress:
		return domain.ErrSubmissionInProgress
	case dto.CodeUnauthorized:
		return domain.ErrUnauthorized
	}
	if e.Status >= 500 {
		return domain.ErrTransport
	}
	return nil
}

// SaveInventory envía el lote a POST /api/save-inventory.
func (c *Client) SaveInventory(ctx context.Context, entries []entity.InventoryEntry, submittedBy string, notify bool) (*entity.BatchReceipt, error) {
	req := dto.SaveInventoryRequest{UserEmail: submittedBy, Notify: notify}
	for _, e := range entries {
		f := inventory.InventoryFormOf(e)
		req.Items = append(req.Items, dto.InventoryItemJSON{
			Location:   dto.FlexString(f.Location),
			WeekEnding: f.WeekEnding,
			Material:   f.Material,
			Quantity:   dto.FlexString(f.Quantity),
			Unit:       f.Unit,
		})
	}
	return c.save(ctx, "/api/save-inventory", entity.KindInventory, submittedBy, req)
}

// SaveSystemHours envía el lote a POST /api/save-system-hours.
func (c *Client) SaveSystemHours(ctx context.Context, entries []entity.HoursEntry, submittedBy string, notify bool) (*entity.BatchReceipt, error) {
	req := dto.SaveSystemHoursRequest{UserEmail: submittedBy, Notify: notify}
	for _, e := range entries {
		f := inventory.HoursFormOf(e)
		req.Items = append(req.Items, dto.HoursItemJSON{
			Location: dto.FlexString(f.Location),
			Date:     f.Date,
			Metric:   f.Metric,
			Hours:    dto.FlexString(f.Hours),
		})
	}
	return c.save(ctx, "/api/save-system-hours", entity.KindSystemHours, submittedBy, req)
}

// InventoryBoundary adapta el cliente al límite de una sesión local.
func (c *Client) InventoryBoundary() submission.Boundary[entity.InventoryEntry] {
	return func(ctx context.Context, entries []entity.InventoryEntry, submittedBy string, req submission.Request) (*entity.BatchReceipt, error) {
		return c.SaveInventory(ctx, entries, submittedBy, req.Notify)
	}
}

// HoursBoundary adapta el cliente para sesiones de horas.
func (c *Client) HoursBoundary() submission.Boundary[entity.HoursEntry] {
	return func(ctx context.Context, entries []entity.HoursEntry, submittedBy string, req submission.Request) (*entity.BatchReceipt, error) {
		return c.SaveSystemHours(ctx, entries, submittedBy, req.Notify)
	}
}

func (c *Client) save(ctx context.Context, path, kind, submittedBy string, body any) (*entity.BatchReceipt, error) {
	var resp dto.SaveResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return &entity.BatchReceipt{
		BatchID:     resp.BatchID,
		Kind:        kind,
		SubmittedBy: submittedBy,
		Count:       resp.Inserted,
		CreatedAt:   resp.CreatedAt,
	}, nil
}

// Me identidad con la que el servicio reconoce al token.
func (c *Client) Me(ctx context.Context) (*dto.MeResponse, error) {
	var me dto.MeResponse
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// Catalog obtiene el catálogo vigente del servicio.
func (c *Client) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	var cat catalog.Catalog
	if err := c.do(ctx, http.MethodGet, "/api/catalog", nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// SuggestMaterials consulta las sugerencias. Cualquier error se traduce en lista vacía.
func (c *Client) SuggestMaterials(ctx context.Context, partial, industry string) []string {
	var resp dto.SuggestMaterialsResponse
	req := dto.SuggestMaterialsRequest{PartialMaterialName: partial, Industry: industry}
	if err := c.do(ctx, http.MethodPost, "/api/ai/suggest-materials", req, &resp); err != nil {
		return []string{}
	}
	return resp.Suggestions
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Transport(method+" "+path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.Transport("leer respuesta", err)
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, &apiErr.Body); jsonErr != nil || apiErr.Body.Error == "" {
			apiErr.Body.Error = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("deserializar respuesta: %w", err)
	}
	return nil
}
