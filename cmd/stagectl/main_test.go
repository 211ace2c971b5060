package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/site-logger/internal/application/dto"
	"github.com/jhoicas/site-logger/internal/domain/catalog"
	"github.com/jhoicas/site-logger/pkg/jwt"
)

// fakeAPI imita los endpoints del servicio que usa la CLI.
type fakeAPI struct {
	mu        sync.Mutex
	inventory []dto.SaveInventoryRequest
	hours     []dto.SaveSystemHoursRequest
	saveCode  int
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "usuario no identificado", Code: dto.CodeUnauthorized})
			return
		}
		writeJSON(w, http.StatusOK, dto.MeResponse{Email: "a@b.com", Provider: "jwt"})
	})
	mux.HandleFunc("/api/catalog", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Default())
	})
	mux.HandleFunc("/api/save-inventory", func(w http.ResponseWriter, r *http.Request) {
		var req dto.SaveInventoryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.inventory = append(f.inventory, req)
		code := f.saveCode
		f.mu.Unlock()
		f.respond(w, code, len(req.Items))
	})
	mux.HandleFunc("/api/save-system-hours", func(w http.ResponseWriter, r *http.Request) {
		var req dto.SaveSystemHoursRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.hours = append(f.hours, req)
		code := f.saveCode
		f.mu.Unlock()
		f.respond(w, code, len(req.Items))
	})
	mux.HandleFunc("/api/ai/suggest-materials", func(w http.ResponseWriter, r *http.Request) {
		var req dto.SuggestMaterialsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, dto.SuggestMaterialsResponse{Suggestions: []string{req.PartialMaterialName + "en"}})
	})
	return mux
}

func (f *fakeAPI) respond(w http.ResponseWriter, code, n int) {
	if code >= 400 {
		writeJSON(w, code, dto.ErrorResponse{Error: "almacenamiento no disponible", Code: dto.CodeStorage})
		return
	}
	writeJSON(w, http.StatusCreated, dto.SaveResponse{
		Ok: true, BatchID: "batch-1", Inserted: n, CreatedAt: time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestInventory_EnviaSoloFilasValidas(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	path := writeFile(t, "location,weekEnding,material,quantity,unit\n"+
		"1004,2024-06-08,Wood,12.5,TN\n"+
		"1004,2024-06-08,Wood,0,TN\n"+
		"1042,2024-06-08,Concrete,3,YD\n")

	out, errOut, err := run(t, "", "inventory", "--file", path, "--api", srv.URL, "--token", "tok", "--notify")
	require.NoError(t, err, errOut)

	assert.Contains(t, errOut, "línea 3")
	assert.Contains(t, out, "2 filas preparadas, 1 inválidas")
	assert.Contains(t, out, "lote batch-1: 2 filas guardadas")

	require.Len(t, api.inventory, 1, "un único lote")
	sent := api.inventory[0]
	assert.Equal(t, "a@b.com", sent.UserEmail)
	assert.True(t, sent.Notify)
	require.Len(t, sent.Items, 2)
	assert.Equal(t, "Wood", sent.Items[0].Material)
	assert.Equal(t, dto.FlexString("12.5"), sent.Items[0].Quantity)
	assert.Equal(t, "2024-06-08", sent.Items[0].WeekEnding)
	assert.Equal(t, "Concrete", sent.Items[1].Material)
}

func TestInventory_StrictNoEnvia(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	path := writeFile(t, "location,weekEnding,material,quantity,unit\n1004,2024-06-08,Wood,12.5,TN\n9999,2024-06-08,Wood,1,TN\n")

	_, _, err := run(t, "", "inventory", "--file", path, "--api", srv.URL, "--token", "tok", "--strict")
	require.Error(t, err)
	assert.Empty(t, api.inventory)
}

func TestHours_DryRunNoEnvia(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	out, _, err := run(t, "location,date,metric,hours\n1042,2024-06-03,System Runtime,8\n",
		"hours", "--file", "-", "--api", srv.URL, "--token", "tok", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "System Runtime")
	assert.Empty(t, api.hours)
}

func TestHours_FalloDelServicio(t *testing.T) {
	api := &fakeAPI{saveCode: http.StatusInternalServerError}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	_, errOut, err := run(t, "location,date,metric,hours\n1042,2024-06-03,System Runtime,8\n",
		"hours", "--file", "-", "--api", srv.URL, "--token", "tok")
	require.Error(t, err)
	assert.Contains(t, errOut, "nada se guardó; 1 filas siguen preparadas")
}

func TestInventory_SinToken(t *testing.T) {
	srv := httptest.NewServer((&fakeAPI{}).handler())
	defer srv.Close()

	path := writeFile(t, "location,weekEnding,material,quantity,unit\n1004,2024-06-08,Wood,12.5,TN\n")
	_, _, err := run(t, "", "inventory", "--file", path, "--api", srv.URL)
	assert.ErrorContains(t, err, "identidad")
}

func TestSuggest_MuestraUltimaRespuesta(t *testing.T) {
	srv := httptest.NewServer((&fakeAPI{}).handler())
	defer srv.Close()

	out, _, err := run(t, "w\nwo\nwoo\n", "suggest", "--api", srv.URL, "--debounce", "200ms")
	require.NoError(t, err)
	assert.Contains(t, out, "woo -> [wooen]")
	assert.NotContains(t, out, "wo -> [woen]", "el debounce agrupa el tecleo")
}

func TestToken_FirmaConJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("STORE_BACKEND", "log")

	out, _, err := run(t, "", "token", "--email", "svc@b.com", "--name", "Servicio", "--minutes", "5")
	require.NoError(t, err)

	email, name, err := jwt.Parse("cli-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "svc@b.com", email)
	assert.Equal(t, "Servicio", name)
}

func TestCatalog_Offline(t *testing.T) {
	out, _, err := run(t, "", "catalog", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "units:")
	assert.Contains(t, out, "- TN")
}
