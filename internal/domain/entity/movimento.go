package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain"
)

// Tipos de movimento do estoque de leite.
const (
	TipoEntrada = "entrada" // depósito de leite no estoque
	TipoSaida   = "saida"   // retirada para consumo
)

// FormatoData formato ISO 8601 de datas de calendário (comparável lexicograficamente).
const FormatoData = "2006-01-02"

// Movimento representa um evento imutável do estoque: uma entrada ou uma saída.
// Datas são strings ISO 8601 (AAAA-MM-DD), como no backup e no banco.
type Movimento struct {
	ID              string          `json:"id,omitempty"`
	FamiliaID       string          `json:"familia_id,omitempty"`
	UsuarioID       string          `json:"usuario_id,omitempty"`
	Tipo            string          `json:"tipo"`
	Data            string          `json:"data"`
	VolumeMl        decimal.Decimal `json:"volume_ml"`
	QuantidadeSacos int             `json:"quantidade_sacos"`
	Local           string          `json:"local,omitempty"`        // só significativo em entradas
	DataOrdenha     string          `json:"data_ordenha,omitempty"` // opcional; só em entradas
	Validade        string          `json:"validade,omitempty"`     // opcional; chave primária do FIFO
	Observacao      string          `json:"observacao,omitempty"`
	CreatedAt       time.Time       `json:"created_at,omitzero"` // atribuído pelo backend
}

// TotalMl volume total do movimento (volume por saco * quantidade de sacos).
func (m Movimento) TotalMl() decimal.Decimal {
	return m.VolumeMl.Mul(decimal.NewFromInt(int64(m.QuantidadeSacos)))
}

// Validar verifica as invariantes numéricas e de formato do movimento.
// VolumeMl > 0, QuantidadeSacos > 0, datas ISO 8601 válidas.
func (m Movimento) Validar() error {
	if m.Tipo != TipoEntrada && m.Tipo != TipoSaida {
		return fmt.Errorf("%w: tipo %q desconhecido", domain.ErrDadosInvalidos, m.Tipo)
	}
	if !m.VolumeMl.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: volume_ml deve ser positivo", domain.ErrDadosInvalidos)
	}
	if m.QuantidadeSacos <= 0 {
		return fmt.Errorf("%w: quantidade_sacos deve ser positiva", domain.ErrDadosInvalidos)
	}
	if err := validarData(m.Data, false); err != nil {
		return fmt.Errorf("%w: data: %v", domain.ErrDadosInvalidos, err)
	}
	if err := validarData(m.DataOrdenha, true); err != nil {
		return fmt.Errorf("%w: data_ordenha: %v", domain.ErrDadosInvalidos, err)
	}
	if err := validarData(m.Validade, true); err != nil {
		return fmt.Errorf("%w: validade: %v", domain.ErrDadosInvalidos, err)
	}
	return nil
}

func validarData(valor string, opcional bool) error {
	if valor == "" {
		if opcional {
			return nil
		}
		return fmt.Errorf("obrigatória")
	}
	if _, err := time.Parse(FormatoData, valor); err != nil {
		return fmt.Errorf("%q não está no formato AAAA-MM-DD", valor)
	}
	return nil
}
