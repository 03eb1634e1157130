package estatistica

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EstatisticaRepository expõe as consultas agregadas sobre discípulos.
type EstatisticaRepository interface {
	ContagemMensal(ctx context.Context, celulaID *uuid.UUID) ([]PontoMensal, error)
	TotalDiscipulos(ctx context.Context, celulaID *uuid.UUID) (int, error)
}

type Service struct {
	repo  EstatisticaRepository
	agora func() time.Time
}

func NewService(repo EstatisticaRepository) *Service {
	return &Service{repo: repo, agora: time.Now}
}

// Resumir monta a série dos últimos doze meses preenchendo com zero os meses
// sem cadastro, para o gráfico não ter buracos.
func (s *Service) Resumir(ctx context.Context, celulaID *uuid.UUID) (Resumo, error) {
	pontos, err := s.repo.ContagemMensal(ctx, celulaID)
	if err != nil {
		return Resumo{}, fmt.Errorf("contagem mensal: %w", err)
	}

	total, err := s.repo.TotalDiscipulos(ctx, celulaID)
	if err != nil {
		return Resumo{}, fmt.Errorf("total de discípulos: %w", err)
	}

	porMes := make(map[string]int, len(pontos))
	for _, p := range pontos {
		porMes[p.Mes] = p.Quantidade
	}

	agora := s.agora()
	// ancora no primeiro dia do mês para AddDate não pular meses curtos
	inicio := time.Date(agora.Year(), agora.Month(), 1, 0, 0, 0, 0, agora.Location()).AddDate(0, -11, 0)
	serie := make([]PontoMensal, 0, 12)
	for i := 0; i < 12; i++ {
		mes := inicio.AddDate(0, i, 0).Format("2006-01")
		serie = append(serie, PontoMensal{Mes: mes, Quantidade: porMes[mes]})
	}

	return Resumo{Serie: serie, Total: total}, nil
}
