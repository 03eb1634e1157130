package estatistica

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubEstatisticaRepo struct {
	pontos []PontoMensal
	total  int
}

func (s *stubEstatisticaRepo) ContagemMensal(ctx context.Context, celulaID *uuid.UUID) ([]PontoMensal, error) {
	return s.pontos, nil
}

func (s *stubEstatisticaRepo) TotalDiscipulos(ctx context.Context, celulaID *uuid.UUID) (int, error) {
	return s.total, nil
}

func TestResumirPreencheMesesVazios(t *testing.T) {
	agora := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	repoStub := &stubEstatisticaRepo{
		pontos: []PontoMensal{
			{Mes: "2026-08", Quantidade: 3},
			{Mes: "2026-05", Quantidade: 1},
		},
		total: 4,
	}

	svc := NewService(repoStub)
	svc.agora = func() time.Time { return agora }

	resumo, err := svc.Resumir(context.Background(), nil)
	if err != nil {
		t.Fatalf("resumir: %v", err)
	}

	if len(resumo.Serie) != 12 {
		t.Fatalf("esperava 12 meses, veio %d", len(resumo.Serie))
	}
	if resumo.Serie[0].Mes != "2025-09" || resumo.Serie[11].Mes != "2026-08" {
		t.Fatalf("janela errada: %s .. %s", resumo.Serie[0].Mes, resumo.Serie[11].Mes)
	}
	if resumo.Serie[11].Quantidade != 3 {
		t.Fatalf("agosto deveria ter 3, veio %d", resumo.Serie[11].Quantidade)
	}

	var soma int
	for _, p := range resumo.Serie {
		soma += p.Quantidade
		if p.Mes != "2026-08" && p.Mes != "2026-05" && p.Quantidade != 0 {
			t.Fatalf("mês sem cadastro deveria ser zero: %+v", p)
		}
	}
	if soma != 4 {
		t.Fatalf("soma da série %d, esperava 4", soma)
	}
	if resumo.Total != 4 {
		t.Fatalf("total %d, esperava 4", resumo.Total)
	}
}
