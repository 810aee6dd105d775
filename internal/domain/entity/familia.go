package entity

// Familia agrupa os usuários que compartilham o mesmo estoque.
// O código curto é o convite legível para outros membros entrarem.
// Imutável durante a sessão: trocar de família exige novo login.
type Familia struct {
	ID     string `json:"id"`
	Nome   string `json:"nome"`
	Codigo string `json:"codigo"`
}
