package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/felipetalin/Leite---Controle-de-estoque/internal/application/dto"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/application/sync"
)

// FamilyHandler trata a criação e o ingresso na família da sessão.
type FamilyHandler struct {
	engine *sync.Engine
}

// NewFamilyHandler constrói o handler.
func NewFamilyHandler(engine *sync.Engine) *FamilyHandler {
	return &FamilyHandler{engine: engine}
}

// Criar POST /api/familias — cria a família no backend e fixa na sessão.
func (h *FamilyHandler) Criar(c *fiber.Ctx) error {
	var in dto.FamiliaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nome da família é obrigatório"})
	}
	familia, err := h.engine.CriarFamilia(c.Context(), nome)
	if err != nil {
		return responderErro(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(familia)
}

// Entrar POST /api/familias/entrar — entra numa família pelo código de convite.
func (h *FamilyHandler) Entrar(c *fiber.Ctx) error {
	var in dto.EntrarFamiliaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if strings.TrimSpace(in.Codigo) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "código de convite é obrigatório"})
	}
	familia, err := h.engine.EntrarFamilia(c.Context(), in.Codigo)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(familia)
}

// Atual GET /api/familias/atual — a família da sessão, se houver.
func (h *FamilyHandler) Atual(c *fiber.Ctx) error {
	familia := h.engine.Familia()
	if familia == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SEM_FAMILIA", Message: "nenhuma família definida"})
	}
	return c.JSON(familia)
}
