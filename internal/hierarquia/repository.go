package hierarquia

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rafaelk26/Incell-System-sub000/internal/db"
	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
)

const dbTimeout = 3 * time.Second

// Repository fornece acesso às tabelas da hierarquia organizacional.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateCelula insere a célula. O índice único em responsavel_id garante no
// máximo uma célula ativa por responsável.
func (r *Repository) CreateCelula(ctx context.Context, c Celula) (Celula, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO celulas (nome, responsavel_id, genero, dia_semana, horario, endereco, bairro, cidade, faixa_etaria)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, criado_em
	`, c.Nome, c.ResponsavelID, c.Genero, c.DiaSemana, c.Horario, c.Endereco, c.Bairro, c.Cidade, c.FaixaEtaria)

	if err := row.Scan(&c.ID, &c.CriadoEm); err != nil {
		return Celula{}, err
	}
	return c, nil
}

// GetCelulaByResponsavel devolve a célula liderada pelo usuário. Sem ordenação
// secundária: havendo dados malformados, vale a primeira linha do banco.
func (r *Repository) GetCelulaByResponsavel(ctx context.Context, responsavelID uuid.UUID) (Celula, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		SELECT id, nome, responsavel_id, genero, dia_semana, horario, endereco, bairro, cidade, faixa_etaria, criado_em
		FROM celulas
		WHERE responsavel_id = $1
		LIMIT 1
	`, responsavelID)

	var c Celula
	err := row.Scan(&c.ID, &c.Nome, &c.ResponsavelID, &c.Genero, &c.DiaSemana, &c.Horario, &c.Endereco, &c.Bairro, &c.Cidade, &c.FaixaEtaria, &c.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Celula{}, repo.ErrNotFound
	}
	return c, err
}

// ListCelulas devolve todas as células com ordenação alfabética básica.
func (r *Repository) ListCelulas(ctx context.Context) ([]Celula, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT id, nome, responsavel_id, genero, dia_semana, horario, endereco, bairro, cidade, faixa_etaria, criado_em
		FROM celulas
		ORDER BY nome
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var celulas []Celula
	for rows.Next() {
		var c Celula
		if err := rows.Scan(&c.ID, &c.Nome, &c.ResponsavelID, &c.Genero, &c.DiaSemana, &c.Horario, &c.Endereco, &c.Bairro, &c.Cidade, &c.FaixaEtaria, &c.CriadoEm); err != nil {
			return nil, err
		}
		celulas = append(celulas, c)
	}
	return celulas, rows.Err()
}

// CreateSupervisao cria a supervisão e os vínculos iniciais com líderes em uma
// única transação: ou tudo existe, ou nada existe.
func (r *Repository) CreateSupervisao(ctx context.Context, s Supervisao, lideres []uuid.UUID) (Supervisao, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	err := db.WithTx(ctx, r.pool, func(txCtx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(txCtx, `
			INSERT INTO supervisoes (nome, supervisor_id, genero)
			VALUES ($1, $2, $3)
			RETURNING id, criado_em
		`, s.Nome, s.SupervisorID, s.Genero)
		if err := row.Scan(&s.ID, &s.CriadoEm); err != nil {
			return err
		}

		for _, liderID := range lideres {
			if _, err := tx.Exec(txCtx, `
				INSERT INTO supervisoes_lideres (supervisao_id, lider_id)
				VALUES ($1, $2)
			`, s.ID, liderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Supervisao{}, err
	}
	return s, nil
}

// GetSupervisaoBySupervisor devolve a supervisão do supervisor.
func (r *Repository) GetSupervisaoBySupervisor(ctx context.Context, supervisorID uuid.UUID) (Supervisao, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		SELECT id, nome, supervisor_id, genero, criado_em
		FROM supervisoes
		WHERE supervisor_id = $1
		LIMIT 1
	`, supervisorID)

	var s Supervisao
	err := row.Scan(&s.ID, &s.Nome, &s.SupervisorID, &s.Genero, &s.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supervisao{}, repo.ErrNotFound
	}
	return s, err
}

// LiderTemSupervisao informa se o líder já consta em alguma supervisão.
func (r *Repository) LiderTemSupervisao(ctx context.Context, liderID uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var existe bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM supervisoes_lideres WHERE lider_id = $1)
	`, liderID).Scan(&existe)
	return existe, err
}

// ListLideres devolve os líderes vinculados à supervisão.
func (r *Repository) ListLideres(ctx context.Context, supervisaoID uuid.UUID) ([]Membro, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.nome, u.cargo, u.telefone, u.foto_url
		FROM supervisoes_lideres sl
		JOIN usuarios u ON u.id = sl.lider_id
		WHERE sl.supervisao_id = $1
	`, supervisaoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMembros(rows)
}

// CreateCoordenacao cria a coordenação e os vínculos com supervisões em uma
// única transação.
func (r *Repository) CreateCoordenacao(ctx context.Context, c Coordenacao, supervisoes []uuid.UUID) (Coordenacao, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	err := db.WithTx(ctx, r.pool, func(txCtx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(txCtx, `
			INSERT INTO coordenacoes (nome, coordenador_id, genero, faixa_etaria)
			VALUES ($1, $2, $3, $4)
			RETURNING id, criado_em
		`, c.Nome, c.CoordenadorID, c.Genero, c.FaixaEtaria)
		if err := row.Scan(&c.ID, &c.CriadoEm); err != nil {
			return err
		}

		for _, supervisaoID := range supervisoes {
			if _, err := tx.Exec(txCtx, `
				INSERT INTO coordenacoes_supervisoes (coordenacao_id, supervisao_id)
				VALUES ($1, $2)
			`, c.ID, supervisaoID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Coordenacao{}, err
	}
	return c, nil
}

// GetCoordenacaoByCoordenador devolve a coordenação do coordenador.
func (r *Repository) GetCoordenacaoByCoordenador(ctx context.Context, coordenadorID uuid.UUID) (Coordenacao, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		SELECT id, nome, coordenador_id, genero, faixa_etaria, criado_em
		FROM coordenacoes
		WHERE coordenador_id = $1
		LIMIT 1
	`, coordenadorID)

	var c Coordenacao
	err := row.Scan(&c.ID, &c.Nome, &c.CoordenadorID, &c.Genero, &c.FaixaEtaria, &c.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Coordenacao{}, repo.ErrNotFound
	}
	return c, err
}

// ListSupervisores devolve o supervisor de cada supervisão da coordenação.
func (r *Repository) ListSupervisores(ctx context.Context, coordenacaoID uuid.UUID) ([]Membro, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.nome, u.cargo, u.telefone, u.foto_url
		FROM coordenacoes_supervisoes cs
		JOIN supervisoes s ON s.id = cs.supervisao_id
		JOIN usuarios u ON u.id = s.supervisor_id
		WHERE cs.coordenacao_id = $1
	`, coordenacaoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMembros(rows)
}

// AttachLider vincula um líder à supervisão.
func (r *Repository) AttachLider(ctx context.Context, supervisaoID, liderID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO supervisoes_lideres (supervisao_id, lider_id)
		VALUES ($1, $2)
	`, supervisaoID, liderID)
	return err
}

// DetachLider remove o vínculo. Remover um par já removido não é erro.
func (r *Repository) DetachLider(ctx context.Context, supervisaoID, liderID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		DELETE FROM supervisoes_lideres
		WHERE supervisao_id = $1 AND lider_id = $2
	`, supervisaoID, liderID)
	return err
}

// AttachSupervisao vincula uma supervisão à coordenação.
func (r *Repository) AttachSupervisao(ctx context.Context, coordenacaoID, supervisaoID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO coordenacoes_supervisoes (coordenacao_id, supervisao_id)
		VALUES ($1, $2)
	`, coordenacaoID, supervisaoID)
	return err
}

// DetachSupervisao remove o vínculo coordenação-supervisão.
func (r *Repository) DetachSupervisao(ctx context.Context, coordenacaoID, supervisaoID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		DELETE FROM coordenacoes_supervisoes
		WHERE coordenacao_id = $1 AND supervisao_id = $2
	`, coordenacaoID, supervisaoID)
	return err
}

// CreateVinculo insere um pareamento entre células.
func (r *Repository) CreateVinculo(ctx context.Context, v Vinculo) (Vinculo, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO vinculos (celula_principal_id, celula_vinculada_id)
		VALUES ($1, $2)
		RETURNING id, criado_em
	`, v.CelulaPrincipalID, v.CelulaVinculadaID)

	if err := row.Scan(&v.ID, &v.CriadoEm); err != nil {
		return Vinculo{}, err
	}
	return v, nil
}

// ListVinculos devolve pareamentos onde a célula aparece em qualquer ponta.
func (r *Repository) ListVinculos(ctx context.Context, celulaID uuid.UUID) ([]Vinculo, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT id, celula_principal_id, celula_vinculada_id, criado_em
		FROM vinculos
		WHERE celula_principal_id = $1 OR celula_vinculada_id = $1
		ORDER BY criado_em
	`, celulaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vinculos []Vinculo
	for rows.Next() {
		var v Vinculo
		if err := rows.Scan(&v.ID, &v.CelulaPrincipalID, &v.CelulaVinculadaID, &v.CriadoEm); err != nil {
			return nil, err
		}
		vinculos = append(vinculos, v)
	}
	return vinculos, rows.Err()
}

// CreateDiscipulo registra um discípulo sob a célula.
func (r *Repository) CreateDiscipulo(ctx context.Context, d Discipulo) (Discipulo, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO discipulos (celula_id, nome, funcao, contato, nascimento)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, criado_em
	`, d.CelulaID, d.Nome, d.Funcao, d.Contato, d.Nascimento)

	if err := row.Scan(&d.ID, &d.CriadoEm); err != nil {
		return Discipulo{}, err
	}
	return d, nil
}

// ListDiscipulos devolve os discípulos da célula.
func (r *Repository) ListDiscipulos(ctx context.Context, celulaID uuid.UUID) ([]Discipulo, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT id, celula_id, nome, funcao, contato, nascimento, criado_em
		FROM discipulos
		WHERE celula_id = $1
	`, celulaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var discipulos []Discipulo
	for rows.Next() {
		var d Discipulo
		if err := rows.Scan(&d.ID, &d.CelulaID, &d.Nome, &d.Funcao, &d.Contato, &d.Nascimento, &d.CriadoEm); err != nil {
			return nil, err
		}
		discipulos = append(discipulos, d)
	}
	return discipulos, rows.Err()
}

func scanMembros(rows pgx.Rows) ([]Membro, error) {
	var membros []Membro
	for rows.Next() {
		var m Membro
		if err := rows.Scan(&m.ID, &m.Nome, &m.Cargo, &m.Contato, &m.FotoURL); err != nil {
			return nil, err
		}
		membros = append(membros, m)
	}
	return membros, rows.Err()
}
