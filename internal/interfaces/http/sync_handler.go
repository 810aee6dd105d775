package http

import (
	"github.com/gofiber/fiber/v2"

	appledger "github.com/felipetalin/Leite---Controle-de-estoque/internal/application/ledger"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/application/sync"
)

// SyncHandler trata o indicador de sincronização e o flush manual.
type SyncHandler struct {
	svc    *appledger.Service
	engine *sync.Engine
}

// NewSyncHandler constrói o handler.
func NewSyncHandler(svc *appledger.Service, engine *sync.Engine) *SyncHandler {
	return &SyncHandler{svc: svc, engine: engine}
}

// Status GET /api/sync/status — indicador não-bloqueante para a UI.
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.svc.Status())
}

// Flush POST /api/sync/flush — tenta escoar a fila de pendentes agora.
func (h *SyncHandler) Flush(c *fiber.Ctx) error {
	confirmados := h.engine.FlushPendentes(c.Context())
	st := h.svc.Status()
	return c.JSON(fiber.Map{
		"confirmados": confirmados,
		"estado":      st.Estado,
		"pendentes":   st.Pendentes,
	})
}
