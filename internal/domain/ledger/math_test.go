package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain/entity"
	"github.com/felipetalin/Leite---Controle-de-estoque/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func entrada(data string, volumeMl int64, sacos int, validade string) entity.Movimento {
	return entity.Movimento{
		Tipo:            entity.TipoEntrada,
		Data:            data,
		VolumeMl:        decimal.NewFromInt(volumeMl),
		QuantidadeSacos: sacos,
		Local:           "freezer",
		Validade:        validade,
	}
}

func saida(data string, volumeMl int64, sacos int) entity.Movimento {
	return entity.Movimento{
		Tipo:            entity.TipoSaida,
		Data:            data,
		VolumeMl:        decimal.NewFromInt(volumeMl),
		QuantidadeSacos: sacos,
	}
}

func ml(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ──────────────────────────────────────────────────────────────────────────────
// SaldoTotal
// ──────────────────────────────────────────────────────────────────────────────

// Cenário A: duas entradas, sem saídas.
func TestSaldoTotal_SomenteEntradas(t *testing.T) {
	movimentos := []entity.Movimento{
		entrada("2024-01-01", 200, 2, "2024-02-01"),
		entrada("2024-01-05", 150, 1, "2024-01-20"),
	}

	assert.True(t, ledger.SaldoTotal(movimentos).Equal(ml(550)),
		"saldo deve ser 400 + 150 = 550 ml")
}

// Cenário B: entradas mais uma saída de 150 ml.
func TestSaldoTotal_ComSaida(t *testing.T) {
	movimentos := []entity.Movimento{
		entrada("2024-01-01", 200, 2, "2024-02-01"),
		entrada("2024-01-05", 150, 1, "2024-01-20"),
		saida("2024-01-10", 150, 1),
	}

	assert.True(t, ledger.SaldoTotal(movimentos).Equal(ml(400)),
		"saldo deve ser 550 - 150 = 400 ml")
}

// O saldo é um redutor puro: a ordem da sequência não altera o resultado.
func TestSaldoTotal_IndependeDaOrdem(t *testing.T) {
	a := []entity.Movimento{
		entrada("2024-01-01", 200, 2, "2024-02-01"),
		saida("2024-01-10", 150, 1),
		entrada("2024-01-05", 150, 1, "2024-01-20"),
	}
	b := []entity.Movimento{a[2], a[0], a[1]}

	assert.True(t, ledger.SaldoTotal(a).Equal(ledger.SaldoTotal(b)),
		"permutações da mesma sequência devem ter o mesmo saldo")
}

func TestSaldoTotal_Vazio(t *testing.T) {
	assert.True(t, ledger.SaldoTotal(nil).IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// SaldoPorVolume
// ──────────────────────────────────────────────────────────────────────────────

func TestSaldoPorVolume_AgrupaEOrdena(t *testing.T) {
	movimentos := []entity.Movimento{
		entrada("2024-01-01", 200, 2, ""),
		entrada("2024-01-02", 150, 1, ""),
		entrada("2024-01-03", 200, 1, ""),
		saida("2024-01-04", 150, 1),
	}

	saldos := ledger.SaldoPorVolume(movimentos)
	require.Len(t, saldos, 2)

	// ordenado por volume crescente
	assert.True(t, saldos[0].VolumeMl.Equal(ml(150)))
	assert.True(t, saldos[0].SaldoMl.IsZero(), "150 ml: entrada e saída se anulam")
	assert.True(t, saldos[1].VolumeMl.Equal(ml(200)))
	assert.True(t, saldos[1].SaldoMl.Equal(ml(600)), "200 ml: 400 + 200")
}

// ──────────────────────────────────────────────────────────────────────────────
// SugestaoFIFO
// ──────────────────────────────────────────────────────────────────────────────

// Cenário A: a entrada que vence primeiro aparece primeiro, mesmo tendo sido
// registrada depois.
func TestSugestaoFIFO_OrdenaPorValidade(t *testing.T) {
	movimentos := []entity.Movimento{
		entrada("2024-01-01", 200, 2, "2024-02-01"),
		entrada("2024-01-05", 150, 1, "2024-01-20"),
	}

	fifo := ledger.SugestaoFIFO(movimentos)
	require.Len(t, fifo, 2)
	assert.True(t, fifo[0].Movimento.VolumeMl.Equal(ml(150)), "vence 2024-01-20, usar primeiro")
	assert.True(t, fifo[0].RestanteMl.Equal(ml(150)))
	assert.True(t, fifo[1].Movimento.VolumeMl.Equal(ml(200)))
	assert.True(t, fifo[1].RestanteMl.Equal(ml(400)))
}

// Cenário B: a saída de 150 ml esgota o lote que vence primeiro.
func TestSugestaoFIFO_ConsomeVencimentoMaisProximo(t *testing.T) {
	movimentos := []entity.Movimento{
		entrada("2024-01-01", 200, 2, "2024-02-01"),
		entrada("2024-01-05", 150, 1, "2024-01-20"),
		saida("2024-01-10", 150, 1),
	}

	fifo := ledger.SugestaoFIFO(movimentos)
	require.Len(t, fifo, 1, "o lote de 150 ml deve estar totalmente consumido")
	assert.True(t, fifo[0].Movimento.VolumeMl.Equal(ml(200)))
	assert.True(t, fifo[0].RestanteMl.Equal(ml(400)))
}

// Consumo parcial: a saída atravessa o primeiro lote e morde o segundo.
func TestSugestaoFIFO_ConsumoParcial(t *testing.T) {
	movimentos := []entity.Movimento{
		entrada("2024-01-01", 200, 2, "2024-02-01"),
		entrada("2024-01-05", 150, 1, "2024-01-20"),
		saida("2024-01-10", 100, 2), // 200 ml
	}

	fifo := ledger.SugestaoFIFO(movimentos)
	require.Len(t, fifo, 1)
	assert.True(t, fifo[0].Movimento.VolumeMl.Equal(ml(200)))
	assert.True(t, fifo[0].RestanteMl.Equal(ml(350)), "400 - (200 - 150) = 350")
}

// Sem validade, cai para data de ordenha; sem ordenha, para a data do movimento.
func TestSugestaoFIFO_ChaveDeFallback(t *testing.T) {
	semValidade := entity.Movimento{
		Tipo:            entity.TipoEntrada,
		Data:            "2024-03-01",
		VolumeMl:        ml(100),
		QuantidadeSacos: 1,
		DataOrdenha:     "2024-01-02",
	}
	movimentos := []entity.Movimento{
		entrada("2024-01-01", 200, 1, "2024-01-10"),
		semValidade,
	}

	fifo := ledger.SugestaoFIFO(movimentos)
	require.Len(t, fifo, 2)
	assert.Equal(t, "2024-01-02", fifo[0].Movimento.DataOrdenha,
		"ordenha 2024-01-02 vem antes da validade 2024-01-10")
}

// Chaves iguais preservam a ordem original (sort estável).
func TestSugestaoFIFO_EmpateEstavel(t *testing.T) {
	primeiro := entrada("2024-01-01", 100, 1, "2024-02-01")
	primeiro.Observacao = "primeiro"
	segundo := entrada("2024-01-01", 120, 1, "2024-02-01")
	segundo.Observacao = "segundo"

	fifo := ledger.SugestaoFIFO([]entity.Movimento{primeiro, segundo})
	require.Len(t, fifo, 2)
	assert.Equal(t, "primeiro", fifo[0].Movimento.Observacao)
	assert.Equal(t, "segundo", fifo[1].Movimento.Observacao)
}

// Propriedades: nenhum restante negativo e a soma dos restantes bate com o
// saldo quando o saldo é não-negativo.
func TestSugestaoFIFO_Propriedades(t *testing.T) {
	movimentos := []entity.Movimento{
		entrada("2024-01-01", 200, 2, "2024-02-01"),
		entrada("2024-01-05", 150, 1, "2024-01-20"),
		entrada("2024-01-08", 80, 3, ""),
		saida("2024-01-10", 150, 1),
		saida("2024-01-12", 90, 2),
	}

	fifo := ledger.SugestaoFIFO(movimentos)
	soma := decimal.Zero
	for _, e := range fifo {
		assert.True(t, e.RestanteMl.GreaterThan(decimal.Zero),
			"nenhuma entrada devolvida pode ter restante <= 0")
		soma = soma.Add(e.RestanteMl)
	}
	assert.True(t, soma.Equal(ledger.SaldoTotal(movimentos)),
		"a soma dos restantes deve igualar o saldo total")
}

func TestSugestaoFIFO_SemEntradas(t *testing.T) {
	assert.Empty(t, ledger.SugestaoFIFO([]entity.Movimento{saida("2024-01-01", 100, 1)}))
}
