package entity

import (
	"time"

	"github.com/google/uuid"
)

// Pendente embrulha um movimento aceito localmente mas ainda não confirmado
// pelo backend. Criado quando a escrita remota não é possível; removido quando
// um flush posterior o persiste; nunca mutado.
type Pendente struct {
	ID        string    `json:"id"`
	Movimento Movimento `json:"movimento"`
	CriadoEm  time.Time `json:"criado_em"`
}

// NovoPendente cria a entrada pendente com token local único.
func NovoPendente(m Movimento) Pendente {
	return Pendente{
		ID:        uuid.New().String(),
		Movimento: m,
		CriadoEm:  time.Now(),
	}
}
