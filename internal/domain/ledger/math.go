// Package ledger contém as funções puras de cálculo sobre a sequência de
// movimentos: saldo total, saldo por volume de saco e a alocação FIFO de
// estoque restante. Sem estado, sem I/O.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain/entity"
)

// SaldoTotal soma com sinal dos volumes: +TotalMl para entradas, -TotalMl
// para saídas. Independente da ordem dos movimentos. Pode ser negativo se as
// invariantes de submissão tiverem sido violadas; este redutor não protege
// contra isso.
func SaldoTotal(movimentos []entity.Movimento) decimal.Decimal {
	saldo := decimal.Zero
	for _, m := range movimentos {
		if m.Tipo == entity.TipoEntrada {
			saldo = saldo.Add(m.TotalMl())
		} else {
			saldo = saldo.Sub(m.TotalMl())
		}
	}
	return saldo
}

// SaldoVolume saldo com sinal para um tamanho de saco.
type SaldoVolume struct {
	VolumeMl decimal.Decimal `json:"volume_ml"`
	SaldoMl  decimal.Decimal `json:"saldo_ml"`
}

// SaldoPorVolume agrupa os movimentos por volume de saco e devolve o saldo de
// cada grupo, ordenado por volume crescente.
func SaldoPorVolume(movimentos []entity.Movimento) []SaldoVolume {
	porVolume := make(map[string]decimal.Decimal)
	for _, m := range movimentos {
		chave := m.VolumeMl.String()
		if m.Tipo == entity.TipoEntrada {
			porVolume[chave] = porVolume[chave].Add(m.TotalMl())
		} else {
			porVolume[chave] = porVolume[chave].Sub(m.TotalMl())
		}
	}

	saldos := make([]SaldoVolume, 0, len(porVolume))
	for chave, saldo := range porVolume {
		volume, _ := decimal.NewFromString(chave)
		saldos = append(saldos, SaldoVolume{VolumeMl: volume, SaldoMl: saldo})
	}
	sort.Slice(saldos, func(i, j int) bool {
		return saldos[i].VolumeMl.LessThan(saldos[j].VolumeMl)
	})
	return saldos
}

// EntradaRestante uma entrada com o volume ainda não consumido pelo FIFO.
type EntradaRestante struct {
	Movimento  entity.Movimento `json:"movimento"`
	RestanteMl decimal.Decimal  `json:"restante_ml"`
}

// SugestaoFIFO calcula quais entradas ainda têm saldo, consumindo primeiro as
// de vencimento mais próximo:
//
//  1. ordena as entradas por validade, caindo para data de ordenha e depois
//     para a data do movimento (comparação lexicográfica, datas ISO 8601);
//  2. soma todas as saídas num único pool de consumo;
//  3. abate o pool entrada a entrada na ordem de vencimento;
//  4. devolve as entradas com restante > 0, na mesma ordem.
//
// Empates preservam a ordem relativa da sequência original (sort estável).
func SugestaoFIFO(movimentos []entity.Movimento) []EntradaRestante {
	var restantes []EntradaRestante
	poolSaida := decimal.Zero
	for _, m := range movimentos {
		if m.Tipo == entity.TipoEntrada {
			restantes = append(restantes, EntradaRestante{Movimento: m, RestanteMl: m.TotalMl()})
		} else {
			poolSaida = poolSaida.Add(m.TotalMl())
		}
	}

	sort.SliceStable(restantes, func(i, j int) bool {
		return chaveFIFO(restantes[i].Movimento) < chaveFIFO(restantes[j].Movimento)
	})

	for i := range restantes {
		if !poolSaida.GreaterThan(decimal.Zero) {
			break
		}
		consumo := decimal.Min(restantes[i].RestanteMl, poolSaida)
		restantes[i].RestanteMl = restantes[i].RestanteMl.Sub(consumo)
		poolSaida = poolSaida.Sub(consumo)
	}

	comSaldo := restantes[:0]
	for _, e := range restantes {
		if e.RestanteMl.GreaterThan(decimal.Zero) {
			comSaldo = append(comSaldo, e)
		}
	}
	return comSaldo
}

// chaveFIFO prioridade de consumo: validade > data de ordenha > data do movimento.
func chaveFIFO(m entity.Movimento) string {
	if m.Validade != "" {
		return m.Validade
	}
	if m.DataOrdenha != "" {
		return m.DataOrdenha
	}
	return m.Data
}
