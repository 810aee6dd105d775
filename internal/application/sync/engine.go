// Package sync reconcilia o cache local, a fila de escritas pendentes e o
// backend compartilhado, mantendo o ledger da família eventualmente
// consistente sob conectividade intermitente.
package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"

	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain/entity"
	"github.com/felipetalin/Leite---Controle-de-estoque/pkg/logger"
)

// Engine motor de sincronização de uma sessão de família.
//
// Todas as operações que mutam o ledger ou a fila passam pelo mutex, inclusive
// durante as chamadas remotas: a fila e o snapshot nunca são persistidos a
// partir de um valor capturado antes de uma chamada de rede intercalada.
type Engine struct {
	mu     stdsync.Mutex
	remote RemoteStore
	cache  CacheStore
	log    *logger.Logger

	familia   *entity.Familia
	ledger    []entity.Movimento // snapshot confirmado em memória de trabalho
	pendentes []entity.Pendente
	online    bool
}

// NewEngine constrói o motor. A sessão começa offline até o primeiro sinal de
// conectividade.
func NewEngine(remote RemoteStore, cache CacheStore, log *logger.Logger) *Engine {
	return &Engine{
		remote: remote,
		cache:  cache,
		log:    log,
	}
}

// CarregarSessao restaura a sessão do cache local (visão imediata) e, se o
// backend estiver alcançável e houver família, busca a sequência autoritativa.
func (e *Engine) CarregarSessao(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if familia, err := e.cache.CarregarFamilia(); err == nil {
		e.familia = familia
	} else {
		e.log.Warn().Err(err).Msg("cache: família ilegível, sessão sem família")
	}
	if movimentos, err := e.cache.CarregarLedger(); err == nil {
		e.ledger = movimentos
	} else {
		e.log.Warn().Err(err).Msg("cache: ledger ilegível, começando vazio")
	}
	if pendentes, err := e.cache.CarregarPendentes(); err == nil {
		e.pendentes = pendentes
	} else {
		e.log.Warn().Err(err).Msg("cache: pendentes ilegíveis, fila vazia")
	}

	e.log.Info().
		Int("movimentos", len(e.ledger)).
		Int("pendentes", len(e.pendentes)).
		Bool("tem_familia", e.familia != nil).
		Msg("sessão restaurada do cache")

	if e.online && e.familia != nil {
		e.recarregarLocked(ctx)
	}
}

// Familia devolve a família da sessão (nil se ainda não definida).
func (e *Engine) Familia() *entity.Familia {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.familia
}

// CriarFamilia cria a família no backend e a fixa na sessão. Exige
// conectividade: o backend é quem emite o identificador e o código de convite.
func (e *Engine) CriarFamilia(ctx context.Context, nome string) (*entity.Familia, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.online {
		return nil, domain.ErrRemotoIndisponivel
	}
	familia, err := e.remote.CriarFamilia(ctx, nome)
	if err != nil {
		e.online = false
		return nil, fmt.Errorf("%w: %v", domain.ErrRemotoIndisponivel, err)
	}
	e.definirFamiliaLocked(ctx, familia)
	return familia, nil
}

// EntrarFamilia entra numa família existente pelo código de convite.
func (e *Engine) EntrarFamilia(ctx context.Context, codigo string) (*entity.Familia, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.online {
		return nil, domain.ErrRemotoIndisponivel
	}
	familia, err := e.remote.EntrarFamilia(ctx, codigo)
	if err != nil {
		if errors.Is(err, domain.ErrFamiliaNaoEncontrada) {
			return nil, err
		}
		e.online = false
		return nil, fmt.Errorf("%w: %v", domain.ErrRemotoIndisponivel, err)
	}
	e.definirFamiliaLocked(ctx, familia)
	return familia, nil
}

func (e *Engine) definirFamiliaLocked(ctx context.Context, familia *entity.Familia) {
	e.familia = familia
	if err := e.cache.SalvarFamilia(familia); err != nil {
		e.log.Warn().Err(err).Msg("cache: falha ao salvar família")
	}
	e.recarregarLocked(ctx)
}

// Inserir envia o movimento ao backend; sem conectividade, ou se o envio
// falhar, enfileira como pendente. A escrita nunca se perde, só atrasa.
func (e *Engine) Inserir(ctx context.Context, m entity.Movimento) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.online || e.familia == nil {
		e.enfileirarLocked(m)
		return nil
	}

	e.carimbarFamiliaLocked(&m)
	if err := e.remote.InserirMovimento(ctx, &m); err != nil {
		// Falha de transporte == indisponível: vira pendente, sem retry aqui.
		e.log.Warn().Err(err).Msg("insert remoto falhou, movimento enfileirado")
		e.online = false
		e.enfileirarLocked(m)
		return nil
	}

	e.ledger = append(e.ledger, m)
	if err := e.cache.SalvarLedger(e.ledger); err != nil {
		e.log.Warn().Err(err).Msg("cache: falha ao salvar ledger")
	}
	return nil
}

func (e *Engine) enfileirarLocked(m entity.Movimento) {
	pendente := entity.NovoPendente(m)
	e.pendentes = append(e.pendentes, pendente)
	if err := e.cache.SalvarPendentes(e.pendentes); err != nil {
		e.log.Warn().Err(err).Msg("cache: falha ao salvar pendentes")
	}
	e.log.Info().Str("pendente_id", pendente.ID).Msg("movimento enfileirado para flush")
}

func (e *Engine) carimbarFamiliaLocked(m *entity.Movimento) {
	if m.FamiliaID == "" && e.familia != nil {
		m.FamiliaID = e.familia.ID
	}
}

// FlushPendentes tenta persistir cada pendente no backend, na ordem de
// enfileiramento. Cada entrada é tentada de forma independente: uma falha não
// bloqueia as seguintes, e as que falharam permanecem na fila na ordem
// relativa original. Devolve quantas foram confirmadas.
func (e *Engine) FlushPendentes(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flushPendentesLocked(ctx)
}

func (e *Engine) flushPendentesLocked(ctx context.Context) int {
	if !e.online || e.familia == nil || len(e.pendentes) == 0 {
		return 0
	}

	var retidos []entity.Pendente
	confirmados := 0
	for _, pendente := range e.pendentes {
		m := pendente.Movimento
		e.carimbarFamiliaLocked(&m)
		if err := e.remote.InserirMovimento(ctx, &m); err != nil {
			e.log.Warn().Err(err).Str("pendente_id", pendente.ID).Msg("flush: insert falhou, pendente retido")
			retidos = append(retidos, pendente)
			continue
		}
		e.ledger = append(e.ledger, m)
		confirmados++
	}
	e.pendentes = retidos

	if err := e.cache.SalvarLedger(e.ledger); err != nil {
		e.log.Warn().Err(err).Msg("cache: falha ao salvar ledger pós-flush")
	}
	if err := e.cache.SalvarPendentes(e.pendentes); err != nil {
		e.log.Warn().Err(err).Msg("cache: falha ao salvar pendentes pós-flush")
	}
	if confirmados > 0 {
		e.log.Info().Int("confirmados", confirmados).Int("retidos", len(retidos)).Msg("flush concluído")
	}
	return confirmados
}

// Recarregar busca a sequência autoritativa do backend e substitui o snapshot
// em memória e no cache. A fila de pendentes nunca é tocada por um fetch.
func (e *Engine) Recarregar(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recarregarLocked(ctx)
}

func (e *Engine) recarregarLocked(ctx context.Context) error {
	if e.familia == nil {
		return domain.ErrFamiliaNaoDefinida
	}
	if !e.online {
		return domain.ErrRemotoIndisponivel
	}
	movimentos, err := e.remote.ListarMovimentos(ctx, e.familia.ID)
	if err != nil {
		e.online = false
		e.log.Warn().Err(err).Msg("fetch remoto falhou, mantendo snapshot local")
		return fmt.Errorf("%w: %v", domain.ErrRemotoIndisponivel, err)
	}
	e.ledger = movimentos
	if err := e.cache.SalvarLedger(e.ledger); err != nil {
		e.log.Warn().Err(err).Msg("cache: falha ao salvar ledger pós-fetch")
	}
	return nil
}

// AoReconectar trata a transição para online: primeiro o flush (para as
// escritas locais não serem sombreadas por um fetch que substitui o snapshot),
// depois o fetch autoritativo.
func (e *Engine) AoReconectar(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.online = true
	e.log.Info().Msg("conectividade restabelecida")
	e.flushPendentesLocked(ctx)
	if e.familia != nil {
		_ = e.recarregarLocked(ctx)
	}
}

// SetOnline registra o sinal booleano de alcançabilidade vindo do ambiente.
func (e *Engine) SetOnline(online bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.online = online
}

// Online devolve o último estado conhecido de alcançabilidade.
func (e *Engine) Online() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

// Status devolve a situação derivada da sincronização.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{Online: e.online, Pendentes: len(e.pendentes)}
}

// LedgerEfetivo snapshot confirmado seguido dos movimentos pendentes, nesta
// ordem. Toda visão derivada (saldo, FIFO, histórico) é calculada sobre ele:
// escritas pendentes são sempre visíveis antes da confirmação remota.
func (e *Engine) LedgerEfetivo() []entity.Movimento {
	e.mu.Lock()
	defer e.mu.Unlock()

	efetivo := make([]entity.Movimento, 0, len(e.ledger)+len(e.pendentes))
	efetivo = append(efetivo, e.ledger...)
	for _, p := range e.pendentes {
		efetivo = append(efetivo, p.Movimento)
	}
	return efetivo
}

// SubstituirLedger troca o snapshot em memória e o cache por inteiro
// (importação de backup). Sobrescrita local destrutiva: não empurra ao
// backend e não toca a fila de pendentes.
func (e *Engine) SubstituirLedger(movimentos []entity.Movimento) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ledger = movimentos
	if err := e.cache.SalvarLedger(e.ledger); err != nil {
		e.log.Warn().Err(err).Msg("cache: falha ao salvar ledger importado")
		return err
	}
	return nil
}
