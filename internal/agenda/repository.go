package agenda

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
)

const dbTimeout = 3 * time.Second

// Repository fornece acesso à tabela de reuniões.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const reuniaoJoin = `
	SELECT r.id, r.tipo, r.data, r.horario, r.criado_por, r.discipulado_id, r.criado_em,
	       u.nome, u.cargo
	FROM reunioes r
	LEFT JOIN usuarios u ON u.id = r.discipulado_id
`

func scanReuniaoView(row pgx.Row) (ReuniaoView, error) {
	var v ReuniaoView
	err := row.Scan(&v.ID, &v.Tipo, &v.Data, &v.Horario, &v.CriadoPor, &v.DiscipuladoID, &v.CriadoEm,
		&v.DiscipuladoNome, &v.DiscipuladoCargo)
	if errors.Is(err, pgx.ErrNoRows) {
		return ReuniaoView{}, repo.ErrNotFound
	}
	return v, err
}

// Create insere e devolve a linha já com o discipulado resolvido, evitando
// uma segunda ida ao banco por quem chamou.
func (r *Repository) Create(ctx context.Context, re Reuniao) (ReuniaoView, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO reunioes (tipo, data, horario, criado_por, discipulado_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, re.Tipo, re.Data, re.Horario, re.CriadoPor, re.DiscipuladoID).Scan(&id)
	if err != nil {
		return ReuniaoView{}, err
	}

	row := r.pool.QueryRow(ctx, reuniaoJoin+` WHERE r.id = $1`, id)
	return scanReuniaoView(row)
}

// List devolve todas as reuniões ordenadas por data.
func (r *Repository) List(ctx context.Context) ([]ReuniaoView, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, reuniaoJoin+` ORDER BY r.data, r.horario`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reunioes []ReuniaoView
	for rows.Next() {
		v, err := scanReuniaoView(rows)
		if err != nil {
			return nil, err
		}
		reunioes = append(reunioes, v)
	}
	return reunioes, rows.Err()
}

// Delete remove a reunião pelo id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM reunioes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// UltimaOcorrenciaPassada devolve a data da reunião mais recente do tipo que
// já ficou para trás. Usada pelo ciclo de pagamentos.
func (r *Repository) UltimaOcorrenciaPassada(ctx context.Context, tipo string, agora time.Time) (time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var data *time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT MAX(data) FROM reunioes WHERE tipo = $1 AND data <= $2
	`, tipo, agora).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, repo.ErrNotFound
		}
		return time.Time{}, err
	}
	if data == nil {
		return time.Time{}, repo.ErrNotFound
	}
	return *data, nil
}
