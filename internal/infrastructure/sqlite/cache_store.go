// Package sqlite implementa o cache local durável num arquivo SQLite: slots
// independentes de chave fixa guardando sequências serializadas em JSON.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/felipetalin/Leite---Controle-de-estoque/internal/application/sync"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain/entity"
	"github.com/felipetalin/Leite---Controle-de-estoque/pkg/logger"
)

// Chaves dos slots persistidos.
const (
	slotLedger    = "ledger"
	slotPendentes = "pendentes"
	slotFamilia   = "familia"
)

var _ sync.CacheStore = (*CacheStore)(nil)

// CacheStore slots chave-valor sobre SQLite. Cada Salvar* sobrescreve o slot
// por inteiro num único statement; Carregar* trata payload corrompido como
// slot vazio (logado, nunca fatal).
type CacheStore struct {
	db  *sql.DB
	log *logger.Logger
}

// Abrir abre (ou cria) o arquivo do cache e garante o esquema.
func Abrir(caminho string, log *logger.Logger) (*CacheStore, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", caminho)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("abrir cache: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS cache_slots (
			chave         TEXT PRIMARY KEY,
			payload       TEXT NOT NULL,
			atualizado_em TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("criar esquema do cache: %w", err)
	}

	return &CacheStore{db: db, log: log}, nil
}

// Fechar fecha o arquivo do cache.
func (c *CacheStore) Fechar() error {
	return c.db.Close()
}

// CarregarLedger devolve o snapshot confirmado; vazio se ausente ou corrompido.
func (c *CacheStore) CarregarLedger() ([]entity.Movimento, error) {
	var movimentos []entity.Movimento
	if err := c.carregarSlot(slotLedger, &movimentos); err != nil {
		return nil, err
	}
	return movimentos, nil
}

// SalvarLedger sobrescreve o snapshot confirmado.
func (c *CacheStore) SalvarLedger(movimentos []entity.Movimento) error {
	return c.salvarSlot(slotLedger, movimentos)
}

// CarregarPendentes devolve a fila de pendentes; vazia se ausente ou corrompida.
func (c *CacheStore) CarregarPendentes() ([]entity.Pendente, error) {
	var pendentes []entity.Pendente
	if err := c.carregarSlot(slotPendentes, &pendentes); err != nil {
		return nil, err
	}
	return pendentes, nil
}

// SalvarPendentes sobrescreve a fila de pendentes.
func (c *CacheStore) SalvarPendentes(pendentes []entity.Pendente) error {
	return c.salvarSlot(slotPendentes, pendentes)
}

// CarregarFamilia devolve a família cacheada, ou nil se ausente/corrompida.
func (c *CacheStore) CarregarFamilia() (*entity.Familia, error) {
	var familia *entity.Familia
	if err := c.carregarSlot(slotFamilia, &familia); err != nil {
		return nil, err
	}
	return familia, nil
}

// SalvarFamilia sobrescreve a família da sessão.
func (c *CacheStore) SalvarFamilia(f *entity.Familia) error {
	return c.salvarSlot(slotFamilia, f)
}

// carregarSlot lê e desserializa um slot. Slot ausente deixa o destino no
// zero; payload ilegível idem, com warn — corrupção vira "sem dados".
func (c *CacheStore) carregarSlot(chave string, destino any) error {
	var payload string
	err := c.db.QueryRow(`SELECT payload FROM cache_slots WHERE chave = ?`, chave).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ler slot %s: %w", chave, err)
	}
	if err := json.Unmarshal([]byte(payload), destino); err != nil {
		c.log.Warn().Err(err).Str("slot", chave).Msg("cache corrompido, tratando como vazio")
		return nil
	}
	return nil
}

// salvarSlot serializa e sobrescreve o slot num único statement: um load
// subsequente nunca observa escrita parcial.
func (c *CacheStore) salvarSlot(chave string, valor any) error {
	payload, err := json.Marshal(valor)
	if err != nil {
		return fmt.Errorf("serializar slot %s: %w", chave, err)
	}
	_, err = c.db.Exec(`
		INSERT INTO cache_slots (chave, payload, atualizado_em)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(chave) DO UPDATE SET payload = excluded.payload, atualizado_em = excluded.atualizado_em`,
		chave, string(payload),
	)
	if err != nil {
		return fmt.Errorf("gravar slot %s: %w", chave, err)
	}
	return nil
}
