package dto

import (
	"github.com/shopspring/decimal"

	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain/entity"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain/ledger"
)

// EntradaRequest body para POST /api/movimentos/entrada.
type EntradaRequest struct {
	Data            string          `json:"data"`
	VolumeMl        decimal.Decimal `json:"volume_ml"`
	QuantidadeSacos int             `json:"quantidade_sacos"`
	Local           string          `json:"local"`
	DataOrdenha     string          `json:"data_ordenha"`
	Validade        string          `json:"validade"`
	Observacao      string          `json:"observacao"`
}

// SaidaRequest body para POST /api/movimentos/saida.
type SaidaRequest struct {
	Data            string          `json:"data"`
	VolumeMl        decimal.Decimal `json:"volume_ml"`
	QuantidadeSacos int             `json:"quantidade_sacos"`
	Observacao      string          `json:"observacao"`
}

// ResumoResponse o painel da aplicação: saldo, saldo por volume, sugestão
// FIFO e movimentações recentes.
type ResumoResponse struct {
	SaldoTotalMl   decimal.Decimal          `json:"saldo_total_ml"`
	SaldoPorVolume []ledger.SaldoVolume     `json:"saldo_por_volume"`
	SugestaoFifo   []ledger.EntradaRestante `json:"sugestao_fifo"`
	Historico      []entity.Movimento       `json:"historico"`
}

// StatusResponse situação da sincronização para o indicador da UI.
type StatusResponse struct {
	Estado    string `json:"estado"` // offline | sincronizando | sincronizado
	Online    bool   `json:"online"`
	Pendentes int    `json:"pendentes"`
}

// FamiliaRequest body para criar família.
type FamiliaRequest struct {
	Nome string `json:"nome"`
}

// EntrarFamiliaRequest body para entrar numa família pelo código de convite.
type EntrarFamiliaRequest struct {
	Codigo string `json:"codigo"`
}

// ErrorResponse corpo de erro HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
