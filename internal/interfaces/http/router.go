package http

import (
	"github.com/gofiber/fiber/v2"

	appledger "github.com/felipetalin/Leite---Controle-de-estoque/internal/application/ledger"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/application/sync"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	LedgerService *appledger.Service
	Engine        *sync.Engine
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	ledgerHandler := NewLedgerHandler(deps.LedgerService)
	syncHandler := NewSyncHandler(deps.LedgerService, deps.Engine)
	familyHandler := NewFamilyHandler(deps.Engine)

	// Família
	familias := api.Group("/familias")
	familias.Post("/", familyHandler.Criar)
	familias.Post("/entrar", familyHandler.Entrar)
	familias.Get("/atual", familyHandler.Atual)

	// Movimentos
	movimentos := api.Group("/movimentos")
	movimentos.Post("/entrada", ledgerHandler.RegistrarEntrada)
	movimentos.Post("/saida", ledgerHandler.RegistrarSaida)

	// Painel
	api.Get("/ledger/resumo", ledgerHandler.Resumo)
	api.Get("/ledger/movimentos", ledgerHandler.Movimentos)

	// Sincronização
	api.Get("/sync/status", syncHandler.Status)
	api.Post("/sync/flush", syncHandler.Flush)

	// Backup
	api.Get("/export", ledgerHandler.Exportar)
	api.Post("/import", ledgerHandler.Importar)
}
