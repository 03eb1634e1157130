package pagamento

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 3 * time.Second

// Repository fornece acesso à tabela de pagamentos.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert grava um comprovante já armazenado.
func (r *Repository) Insert(ctx context.Context, p Pagamento) (Pagamento, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO pagamentos (responsavel_id, storage_path)
		VALUES ($1, $2)
		RETURNING id, criado_em
	`, p.ResponsavelID, p.StoragePath)

	if err := row.Scan(&p.ID, &p.CriadoEm); err != nil {
		return Pagamento{}, err
	}
	return p, nil
}

// List devolve todos os comprovantes do ciclo corrente.
func (r *Repository) List(ctx context.Context) ([]Pagamento, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT id, responsavel_id, storage_path, criado_em
		FROM pagamentos
		ORDER BY criado_em
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pagamentos []Pagamento
	for rows.Next() {
		var p Pagamento
		if err := rows.Scan(&p.ID, &p.ResponsavelID, &p.StoragePath, &p.CriadoEm); err != nil {
			return nil, err
		}
		pagamentos = append(pagamentos, p)
	}
	return pagamentos, rows.Err()
}

// CountDistinctResponsaveis conta quantas pessoas distintas já pagaram.
func (r *Repository) CountDistinctResponsaveis(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT responsavel_id) FROM pagamentos
	`).Scan(&count)
	return count, err
}

// DeleteAll remove todas as linhas. A tabela não guarda identificador de
// ciclo, então a purga é sempre total.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM pagamentos`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
