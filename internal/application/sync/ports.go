package sync

import (
	"context"

	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain/entity"
)

// RemoteStore acesso ao estoque compartilhado no backend (Supabase/PostgreSQL).
// Qualquer erro devolvido é tratado pelo motor de sincronização uniformemente
// como "indisponível": a escrita cai na fila de pendentes, nunca se perde.
type RemoteStore interface {
	InserirMovimento(ctx context.Context, m *entity.Movimento) error
	ListarMovimentos(ctx context.Context, familiaID string) ([]entity.Movimento, error)
	CriarFamilia(ctx context.Context, nome string) (*entity.Familia, error)
	EntrarFamilia(ctx context.Context, codigo string) (*entity.Familia, error)
	Ping(ctx context.Context) error
}

// CacheStore armazenamento local durável em slots independentes: o snapshot
// do ledger confirmado, a fila de pendentes e a família da sessão.
// Carregar* devolve vazio (não erro) quando o slot está ausente ou corrompido.
type CacheStore interface {
	CarregarLedger() ([]entity.Movimento, error)
	SalvarLedger(movimentos []entity.Movimento) error
	CarregarPendentes() ([]entity.Pendente, error)
	SalvarPendentes(pendentes []entity.Pendente) error
	CarregarFamilia() (*entity.Familia, error)
	SalvarFamilia(f *entity.Familia) error
}

// Estados derivados da sincronização.
const (
	EstadoOffline       = "offline"
	EstadoSincronizando = "sincronizando"
	EstadoSincronizado  = "sincronizado"
)

// Status situação atual da sincronização; derivado, nunca armazenado.
type Status struct {
	Online    bool `json:"online"`
	Pendentes int  `json:"pendentes"`
}

// Estado devolve o rótulo do estado para exibição.
func (s Status) Estado() string {
	if !s.Online {
		return EstadoOffline
	}
	if s.Pendentes > 0 {
		return EstadoSincronizando
	}
	return EstadoSincronizado
}
