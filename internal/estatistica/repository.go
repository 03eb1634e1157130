package estatistica

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 3 * time.Second

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ContagemMensal retorna os discípulos agrupados por mês de cadastro nos
// últimos doze meses. Com celulaID nulo a contagem é global.
func (r *Repository) ContagemMensal(ctx context.Context, celulaID *uuid.UUID) ([]PontoMensal, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	query := `
		SELECT to_char(date_trunc('month', criado_em), 'YYYY-MM') AS mes, COUNT(*)
		FROM discipulos
		WHERE criado_em >= date_trunc('month', now()) - INTERVAL '11 months'
	`
	args := []any{}
	if celulaID != nil {
		query += ` AND celula_id = $1`
		args = append(args, *celulaID)
	}
	query += `
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pontos []PontoMensal
	for rows.Next() {
		var p PontoMensal
		if err := rows.Scan(&p.Mes, &p.Quantidade); err != nil {
			return nil, err
		}
		pontos = append(pontos, p)
	}
	return pontos, rows.Err()
}

// TotalDiscipulos conta todos os discípulos, opcionalmente de uma célula.
func (r *Repository) TotalDiscipulos(ctx context.Context, celulaID *uuid.UUID) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	query := `SELECT COUNT(*) FROM discipulos`
	args := []any{}
	if celulaID != nil {
		query += ` WHERE celula_id = $1`
		args = append(args, *celulaID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
