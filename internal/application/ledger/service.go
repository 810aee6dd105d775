// Package ledger expõe as operações do estoque para a aplicação: registro de
// entradas e saídas, visões derivadas e importação/exportação de backup.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felipetalin/Leite---Controle-de-estoque/internal/application/dto"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/application/sync"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain/entity"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain/ledger"
	"github.com/felipetalin/Leite---Controle-de-estoque/pkg/logger"
)

// LocalPadrao destino padrão de uma entrada quando o campo vem vazio.
const LocalPadrao = "freezer"

// Service raiz de composição do estoque: valida movimentos contra o saldo
// efetivo (cache + pendentes) antes de qualquer escrita e delega a
// persistência ao motor de sincronização.
type Service struct {
	engine *sync.Engine
	log    *logger.Logger
	agora  func() time.Time
}

// NewService constrói o serviço.
func NewService(engine *sync.Engine, log *logger.Logger) *Service {
	return &Service{engine: engine, log: log, agora: time.Now}
}

// RegistrarEntrada valida e registra um depósito de leite.
// Data vazia vira a data de hoje; quantidade vazia vira 1; local vazio vira freezer.
func (s *Service) RegistrarEntrada(ctx context.Context, in dto.EntradaRequest) (*entity.Movimento, error) {
	m := entity.Movimento{
		Tipo:            entity.TipoEntrada,
		Data:            in.Data,
		VolumeMl:        in.VolumeMl,
		QuantidadeSacos: in.QuantidadeSacos,
		Local:           in.Local,
		DataOrdenha:     in.DataOrdenha,
		Validade:        in.Validade,
		Observacao:      in.Observacao,
	}
	s.aplicarPadroes(&m)
	if m.Local == "" {
		m.Local = LocalPadrao
	}
	if err := m.Validar(); err != nil {
		return nil, err
	}

	if err := s.engine.Inserir(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info().Str("total_ml", m.TotalMl().String()).Msg("entrada registrada")
	return &m, nil
}

// RegistrarSaida valida e registra uma retirada. Além das invariantes do
// movimento, a saída precisa caber no saldo do ledger efetivo no momento da
// submissão; caso contrário é rejeitada antes de qualquer escrita.
func (s *Service) RegistrarSaida(ctx context.Context, in dto.SaidaRequest) (*entity.Movimento, error) {
	m := entity.Movimento{
		Tipo:            entity.TipoSaida,
		Data:            in.Data,
		VolumeMl:        in.VolumeMl,
		QuantidadeSacos: in.QuantidadeSacos,
		Observacao:      in.Observacao,
	}
	s.aplicarPadroes(&m)
	if err := m.Validar(); err != nil {
		return nil, err
	}

	saldo := ledger.SaldoTotal(s.engine.LedgerEfetivo())
	if m.TotalMl().GreaterThan(saldo) {
		return nil, &domain.SaldoInsuficienteError{
			SolicitadoMl: m.TotalMl(),
			DisponivelMl: saldo,
		}
	}

	if err := s.engine.Inserir(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info().Str("total_ml", m.TotalMl().String()).Msg("saída registrada")
	return &m, nil
}

func (s *Service) aplicarPadroes(m *entity.Movimento) {
	if m.Data == "" {
		m.Data = s.agora().Format(entity.FormatoData)
	}
	if m.QuantidadeSacos == 0 {
		m.QuantidadeSacos = 1
	}
}

// LedgerEfetivo sequência confirmada + pendentes, base de todas as visões.
func (s *Service) LedgerEfetivo() []entity.Movimento {
	return s.engine.LedgerEfetivo()
}

// Resumo monta o painel: saldo total, saldo por volume de saco, sugestão FIFO
// (até limiteFifo itens) e movimentações recentes (até limiteHistorico).
func (s *Service) Resumo(limiteFifo, limiteHistorico int) dto.ResumoResponse {
	efetivo := s.engine.LedgerEfetivo()

	fifo := ledger.SugestaoFIFO(efetivo)
	if limiteFifo > 0 && len(fifo) > limiteFifo {
		fifo = fifo[:limiteFifo]
	}

	return dto.ResumoResponse{
		SaldoTotalMl:   ledger.SaldoTotal(efetivo),
		SaldoPorVolume: ledger.SaldoPorVolume(efetivo),
		SugestaoFifo:   fifo,
		Historico:      s.historico(efetivo, limiteHistorico),
	}
}

// historico últimos n movimentos, mais recente primeiro.
func (s *Service) historico(efetivo []entity.Movimento, n int) []entity.Movimento {
	if n <= 0 || n > len(efetivo) {
		n = len(efetivo)
	}
	recentes := make([]entity.Movimento, 0, n)
	for i := len(efetivo) - 1; i >= len(efetivo)-n; i-- {
		recentes = append(recentes, efetivo[i])
	}
	return recentes
}

// Exportar serializa o ledger efetivo como array JSON indentado com 2
// espaços, o formato do arquivo leite_estoque_backup.json.
func (s *Service) Exportar() ([]byte, error) {
	return json.MarshalIndent(s.engine.LedgerEfetivo(), "", "  ")
}

// Importar substitui o ledger de trabalho pelo conteúdo de um backup.
// O valor de topo precisa ser um array JSON de movimentos; qualquer outra
// forma é rejeitada e o ledger permanece intacto. A fila de pendentes não é
// tocada e nada é empurrado ao backend.
func (s *Service) Importar(data []byte) error {
	recorte := bytes.TrimSpace(data)
	if len(recorte) == 0 || recorte[0] != '[' {
		return domain.ErrFormatoImportacao
	}
	var movimentos []entity.Movimento
	if err := json.Unmarshal(recorte, &movimentos); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFormatoImportacao, err)
	}
	for i, m := range movimentos {
		if err := m.Validar(); err != nil {
			return fmt.Errorf("%w: registro %d: %v", domain.ErrFormatoImportacao, i, err)
		}
	}
	if err := s.engine.SubstituirLedger(movimentos); err != nil {
		return err
	}
	s.log.Info().Int("movimentos", len(movimentos)).Msg("backup importado")
	return nil
}

// Status situação da sincronização para exibição.
func (s *Service) Status() dto.StatusResponse {
	st := s.engine.Status()
	return dto.StatusResponse{
		Estado:    st.Estado(),
		Online:    st.Online,
		Pendentes: st.Pendentes,
	}
}
