package estatistica

// PontoMensal representa a contagem de discípulos cadastrados em um mês.
type PontoMensal struct {
	Mes        string `json:"mes"`
	Quantidade int    `json:"quantidade"`
}

// Resumo agrega a série mensal e o total acumulado.
type Resumo struct {
	Serie []PontoMensal `json:"serie"`
	Total int           `json:"total"`
}
