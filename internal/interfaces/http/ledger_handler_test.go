package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/felipetalin/Leite---Controle-de-estoque/internal/application/ledger"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/application/sync"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain/entity"
	apphttp "github.com/felipetalin/Leite---Controle-de-estoque/internal/interfaces/http"
	"github.com/felipetalin/Leite---Controle-de-estoque/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes das portas e montagem da aplicação de teste
// ──────────────────────────────────────────────────────────────────────────────

type fakeRemote struct {
	movimentos []entity.Movimento
}

func (r *fakeRemote) InserirMovimento(_ context.Context, m *entity.Movimento) error {
	r.movimentos = append(r.movimentos, *m)
	return nil
}

func (r *fakeRemote) ListarMovimentos(_ context.Context, familiaID string) ([]entity.Movimento, error) {
	var out []entity.Movimento
	for _, m := range r.movimentos {
		if m.FamiliaID == familiaID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeRemote) CriarFamilia(_ context.Context, nome string) (*entity.Familia, error) {
	return &entity.Familia{ID: "fam-1", Nome: nome, Codigo: "ABC123"}, nil
}

func (r *fakeRemote) EntrarFamilia(_ context.Context, _ string) (*entity.Familia, error) {
	return nil, domain.ErrFamiliaNaoEncontrada
}

func (r *fakeRemote) Ping(_ context.Context) error { return nil }

type fakeCache struct {
	ledger    []entity.Movimento
	pendentes []entity.Pendente
	familia   *entity.Familia
}

func (c *fakeCache) CarregarLedger() ([]entity.Movimento, error)   { return c.ledger, nil }
func (c *fakeCache) SalvarLedger(m []entity.Movimento) error       { c.ledger = m; return nil }
func (c *fakeCache) CarregarPendentes() ([]entity.Pendente, error) { return c.pendentes, nil }
func (c *fakeCache) SalvarPendentes(p []entity.Pendente) error     { c.pendentes = p; return nil }
func (c *fakeCache) CarregarFamilia() (*entity.Familia, error)     { return c.familia, nil }
func (c *fakeCache) SalvarFamilia(f *entity.Familia) error         { c.familia = f; return nil }

func buildTestApp(t *testing.T) (*fiber.App, *sync.Engine) {
	t.Helper()
	engine := sync.NewEngine(&fakeRemote{}, &fakeCache{}, logger.Nop())
	engine.SetOnline(true)
	_, err := engine.CriarFamilia(context.Background(), "nossa família")
	require.NoError(t, err)

	svc := appledger.NewService(engine, logger.Nop())
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{LedgerService: svc, Engine: engine})
	return app, engine
}

func doJSON(t *testing.T, app *fiber.App, method, alvo string, corpo string) *http.Response {
	t.Helper()
	var body io.Reader
	if corpo != "" {
		body = bytes.NewBufferString(corpo)
	}
	req := httptest.NewRequest(method, alvo, body)
	if corpo != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodificar(t *testing.T, resp *http.Response, destino any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(destino))
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimentos
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistrarEntrada_Criada(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/movimentos/entrada",
		`{"data":"2024-01-01","volume_ml":200,"quantidade_sacos":2,"validade":"2024-02-01"}`)

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var m entity.Movimento
	decodificar(t, resp, &m)
	assert.Equal(t, entity.TipoEntrada, m.Tipo)
	assert.Equal(t, "freezer", m.Local, "local padrão aplicado")
}

func TestRegistrarEntrada_VolumeInvalido(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/movimentos/entrada",
		`{"data":"2024-01-01","volume_ml":0,"quantidade_sacos":1}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// Saída maior que o saldo: 409 com o déficit no corpo.
func TestRegistrarSaida_SaldoInsuficiente(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/movimentos/entrada",
		`{"data":"2024-01-01","volume_ml":200,"quantidade_sacos":2}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/movimentos/saida",
		`{"data":"2024-01-02","volume_ml":1000,"quantidade_sacos":1}`)

	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	var corpo map[string]any
	decodificar(t, resp, &corpo)
	assert.Equal(t, "SALDO_INSUFICIENTE", corpo["code"])
	assert.Equal(t, "600", corpo["deficit_ml"], "déficit de 1000 - 400 ml")
}

// ──────────────────────────────────────────────────────────────────────────────
// Painel e sincronização
// ──────────────────────────────────────────────────────────────────────────────

func TestResumo_DevolvePainel(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/movimentos/entrada",
		`{"data":"2024-01-01","volume_ml":150,"quantidade_sacos":1,"validade":"2024-01-20"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/ledger/resumo", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var corpo map[string]any
	decodificar(t, resp, &corpo)
	assert.Equal(t, "150", corpo["saldo_total_ml"])
}

func TestStatus_OfflineComPendentes(t *testing.T) {
	app, engine := buildTestApp(t)
	engine.SetOnline(false)
	resp := doJSON(t, app, http.MethodPost, "/api/movimentos/entrada",
		`{"data":"2024-01-01","volume_ml":100,"quantidade_sacos":1}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, "offline a escrita é aceita e enfileirada")

	resp = doJSON(t, app, http.MethodGet, "/api/sync/status", "")

	var corpo map[string]any
	decodificar(t, resp, &corpo)
	assert.Equal(t, sync.EstadoOffline, corpo["estado"])
	assert.Equal(t, float64(1), corpo["pendentes"])
}

func TestFlush_EscoaFila(t *testing.T) {
	app, engine := buildTestApp(t)
	engine.SetOnline(false)
	resp := doJSON(t, app, http.MethodPost, "/api/movimentos/entrada",
		`{"data":"2024-01-01","volume_ml":100,"quantidade_sacos":1}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	engine.SetOnline(true)

	resp = doJSON(t, app, http.MethodPost, "/api/sync/flush", "")

	var corpo map[string]any
	decodificar(t, resp, &corpo)
	assert.Equal(t, float64(1), corpo["confirmados"])
	assert.Equal(t, sync.EstadoSincronizado, corpo["estado"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Backup
// ──────────────────────────────────────────────────────────────────────────────

func TestExportar_DownloadComNomeDoArquivo(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/export", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), apphttp.NomeArquivoBackup)
	defer resp.Body.Close()
	corpo, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(bytes.TrimSpace(corpo)), "ledger vazio exporta um array vazio")
}

func TestImportar_RejeitaObjeto(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/import", `{"tipo":"entrada"}`)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var corpo map[string]any
	decodificar(t, resp, &corpo)
	assert.Equal(t, "IMPORT_FORMAT", corpo["code"])
}
