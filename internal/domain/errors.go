package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Erros de domínio (sem dependências de infraestrutura).
var (
	ErrDadosInvalidos       = errors.New("dados do movimento inválidos")
	ErrSaldoInsuficiente    = errors.New("saldo insuficiente")
	ErrRemotoIndisponivel   = errors.New("backend remoto indisponível")
	ErrFormatoImportacao    = errors.New("arquivo de importação inválido: esperado um array JSON de movimentos")
	ErrFamiliaNaoDefinida   = errors.New("nenhuma família definida para a sessão")
	ErrFamiliaNaoEncontrada = errors.New("família não encontrada")
)

// SaldoInsuficienteError carrega o déficit calculado para exibição.
// errors.Is(err, ErrSaldoInsuficiente) continua funcionando via Is.
type SaldoInsuficienteError struct {
	SolicitadoMl decimal.Decimal
	DisponivelMl decimal.Decimal
}

func (e *SaldoInsuficienteError) Error() string {
	return fmt.Sprintf("saída inválida: %s ml excede o saldo disponível (%s ml)",
		e.SolicitadoMl.String(), e.DisponivelMl.String())
}

func (e *SaldoInsuficienteError) Is(target error) bool {
	return target == ErrSaldoInsuficiente
}

// DeficitMl devolve quanto falta para cobrir a saída solicitada.
func (e *SaldoInsuficienteError) DeficitMl() decimal.Decimal {
	return e.SolicitadoMl.Sub(e.DisponivelMl)
}
