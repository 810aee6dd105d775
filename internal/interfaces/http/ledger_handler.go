package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/felipetalin/Leite---Controle-de-estoque/internal/application/dto"
	appledger "github.com/felipetalin/Leite---Controle-de-estoque/internal/application/ledger"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain"
)

// NomeArquivoBackup nome do arquivo oferecido no download da exportação.
const NomeArquivoBackup = "leite_estoque_backup.json"

// LedgerHandler trata as rotas de movimentos, painel e backup.
type LedgerHandler struct {
	svc *appledger.Service
}

// NewLedgerHandler constrói o handler.
func NewLedgerHandler(svc *appledger.Service) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

// RegistrarEntrada POST /api/movimentos/entrada.
func (h *LedgerHandler) RegistrarEntrada(c *fiber.Ctx) error {
	var in dto.EntradaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	m, err := h.svc.RegistrarEntrada(c.Context(), in)
	if err != nil {
		return responderErro(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// RegistrarSaida POST /api/movimentos/saida.
func (h *LedgerHandler) RegistrarSaida(c *fiber.Ctx) error {
	var in dto.SaidaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	m, err := h.svc.RegistrarSaida(c.Context(), in)
	if err != nil {
		return responderErro(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// Resumo GET /api/ledger/resumo — o painel da aplicação.
func (h *LedgerHandler) Resumo(c *fiber.Ctx) error {
	limiteFifo := c.QueryInt("fifo", 6)
	limiteHistorico := c.QueryInt("historico", 6)
	return c.JSON(h.svc.Resumo(limiteFifo, limiteHistorico))
}

// Movimentos GET /api/ledger/movimentos — o ledger efetivo completo.
func (h *LedgerHandler) Movimentos(c *fiber.Ctx) error {
	return c.JSON(h.svc.LedgerEfetivo())
}

// Exportar GET /api/export — download do backup JSON.
func (h *LedgerHandler) Exportar(c *fiber.Ctx) error {
	backup, err := h.svc.Exportar()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=`+NomeArquivoBackup)
	return c.Send(backup)
}

// Importar POST /api/import — substitui o ledger local pelo backup enviado.
func (h *LedgerHandler) Importar(c *fiber.Ctx) error {
	if err := h.svc.Importar(c.Body()); err != nil {
		return responderErro(c, err)
	}
	return c.JSON(fiber.Map{"message": "backup importado"})
}

// responderErro mapeia erros de domínio para códigos HTTP.
func responderErro(c *fiber.Ctx, err error) error {
	var insuficiente *domain.SaldoInsuficienteError
	if errors.As(err, &insuficiente) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":          "SALDO_INSUFICIENTE",
			"message":       insuficiente.Error(),
			"solicitado_ml": insuficiente.SolicitadoMl,
			"disponivel_ml": insuficiente.DisponivelMl,
			"deficit_ml":    insuficiente.DeficitMl(),
		})
	}
	switch {
	case errors.Is(err, domain.ErrDadosInvalidos):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrFormatoImportacao):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "IMPORT_FORMAT", Message: err.Error()})
	case errors.Is(err, domain.ErrFamiliaNaoEncontrada):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "FAMILIA_NAO_ENCONTRADA", Message: err.Error()})
	case errors.Is(err, domain.ErrFamiliaNaoDefinida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SEM_FAMILIA", Message: err.Error()})
	case errors.Is(err, domain.ErrRemotoIndisponivel):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "OFFLINE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
