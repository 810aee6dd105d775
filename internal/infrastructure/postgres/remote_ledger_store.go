package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felipetalin/Leite---Controle-de-estoque/internal/application/sync"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain/entity"
)

var _ sync.RemoteStore = (*RemoteLedgerStore)(nil)

// RemoteLedgerStore adaptador do estoque compartilhado sobre o PostgreSQL do
// backend. O motor de sincronização trata qualquer erro daqui como
// "indisponível"; este adaptador não faz retry.
//
// Esquema esperado:
//
//	familias(id uuid pk, nome text, codigo text unique, created_at timestamptz)
//	movimentos(id uuid pk, familia_id uuid fk, usuario_id text, tipo text,
//	           data text, volume_ml numeric, quantidade_sacos int, local text,
//	           data_ordenha text, validade text, observacao text,
//	           created_at timestamptz)
type RemoteLedgerStore struct {
	pool *pgxpool.Pool
}

// NewRemoteLedgerStore constrói o adaptador.
func NewRemoteLedgerStore(pool *pgxpool.Pool) *RemoteLedgerStore {
	return &RemoteLedgerStore{pool: pool}
}

// InserirMovimento persiste um movimento no ledger da família.
func (r *RemoteLedgerStore) InserirMovimento(ctx context.Context, m *entity.Movimento) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO movimentos (id, familia_id, usuario_id, tipo, data, volume_ml, quantidade_sacos, local, data_ordenha, validade, observacao, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.pool.Exec(ctx, query,
		m.ID, m.FamiliaID, textoOuNil(m.UsuarioID), m.Tipo, m.Data,
		m.VolumeMl, m.QuantidadeSacos, m.Local, m.DataOrdenha, m.Validade,
		m.Observacao, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserir movimento: %w", err)
	}
	return nil
}

// ListarMovimentos devolve a sequência autoritativa da família, na ordem de
// criação remota ascendente.
func (r *RemoteLedgerStore) ListarMovimentos(ctx context.Context, familiaID string) ([]entity.Movimento, error) {
	query := `
		SELECT id, familia_id, COALESCE(usuario_id, ''), tipo, data, volume_ml, quantidade_sacos, local, data_ordenha, validade, observacao, created_at
		FROM movimentos
		WHERE familia_id = $1
		ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, familiaID)
	if err != nil {
		return nil, fmt.Errorf("listar movimentos: %w", err)
	}
	defer rows.Close()

	var movimentos []entity.Movimento
	for rows.Next() {
		var m entity.Movimento
		if err := rows.Scan(
			&m.ID, &m.FamiliaID, &m.UsuarioID, &m.Tipo, &m.Data,
			&m.VolumeMl, &m.QuantidadeSacos, &m.Local, &m.DataOrdenha,
			&m.Validade, &m.Observacao, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ler movimento: %w", err)
		}
		movimentos = append(movimentos, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listar movimentos: %w", err)
	}
	return movimentos, nil
}

// CriarFamilia cria a família e devolve o identificador e o código de convite.
func (r *RemoteLedgerStore) CriarFamilia(ctx context.Context, nome string) (*entity.Familia, error) {
	familia := &entity.Familia{
		ID:     uuid.New().String(),
		Nome:   nome,
		Codigo: novoCodigoConvite(),
	}
	query := `INSERT INTO familias (id, nome, codigo, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.pool.Exec(ctx, query, familia.ID, familia.Nome, familia.Codigo, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("criar família: %w", err)
	}
	return familia, nil
}

// EntrarFamilia procura a família pelo código de convite.
func (r *RemoteLedgerStore) EntrarFamilia(ctx context.Context, codigo string) (*entity.Familia, error) {
	var familia entity.Familia
	query := `SELECT id, nome, codigo FROM familias WHERE codigo = $1`
	err := r.pool.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(codigo))).
		Scan(&familia.ID, &familia.Nome, &familia.Codigo)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFamiliaNaoEncontrada
	}
	if err != nil {
		return nil, fmt.Errorf("buscar família: %w", err)
	}
	return &familia, nil
}

// Ping verifica a alcançabilidade do backend.
func (r *RemoteLedgerStore) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// novoCodigoConvite código curto legível para convidar membros da família.
func novoCodigoConvite() string {
	bruto := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return bruto[:6]
}

func textoOuNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
