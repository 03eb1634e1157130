package relatorio

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 3 * time.Second

// Repository fornece acesso à tabela de relatórios.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert grava os metadados do relatório recém-armazenado.
func (r *Repository) Insert(ctx context.Context, rel Relatorio) (Relatorio, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO relatorios (responsavel_id, tipo, grupo_id, storage_path, url_assinada, expira_em)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, criado_em
	`, rel.ResponsavelID, rel.Tipo, rel.GrupoID, rel.StoragePath, rel.URLAssinada, rel.ExpiraEmSeg)

	if err := row.Scan(&rel.ID, &rel.CriadoEm); err != nil {
		return Relatorio{}, err
	}
	return rel, nil
}

// ListOlderThan devolve os relatórios criados antes do corte.
func (r *Repository) ListOlderThan(ctx context.Context, cutoff time.Time) ([]Relatorio, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT id, responsavel_id, tipo, grupo_id, storage_path, url_assinada, expira_em, criado_em
		FROM relatorios
		WHERE criado_em < $1
		ORDER BY criado_em
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relatorios []Relatorio
	for rows.Next() {
		var rel Relatorio
		if err := rows.Scan(&rel.ID, &rel.ResponsavelID, &rel.Tipo, &rel.GrupoID, &rel.StoragePath, &rel.URLAssinada, &rel.ExpiraEmSeg, &rel.CriadoEm); err != nil {
			return nil, err
		}
		relatorios = append(relatorios, rel)
	}
	return relatorios, rows.Err()
}

// Delete remove a linha de metadados. Linha já removida não é erro, o que
// deixa a varredura segura de rodar em paralelo consigo mesma.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `DELETE FROM relatorios WHERE id = $1`, id)
	return err
}
