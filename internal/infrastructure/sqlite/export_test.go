package sqlite

// Corromper grava um payload ilegível no slot, para os testes de corrupção.
func (c *CacheStore) Corromper(chave string) error {
	_, err := c.db.Exec(`UPDATE cache_slots SET payload = '{{{nao-e-json' WHERE chave = ?`, chave)
	return err
}
