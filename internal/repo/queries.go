package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 3 * time.Second

// Queries concentra o acesso às tabelas compartilhadas (usuários e tokens).
type Queries struct {
	pool *pgxpool.Pool
}

// New cria o repositório compartilhado.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

const usuarioColumns = `id, nome, email, senha_hash, cargo, telefone, nascimento, foto_url, criado_em`

func scanUsuario(row pgx.Row) (Usuario, error) {
	var u Usuario
	err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &u.Cargo, &u.Telefone, &u.Nascimento, &u.FotoURL, &u.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Usuario{}, ErrNotFound
	}
	return u, err
}

// GetUsuarioByLogin busca por e-mail ou nome, sem diferenciar maiúsculas.
func (q *Queries) GetUsuarioByLogin(ctx context.Context, login string) (Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.pool.QueryRow(ctx, `
		SELECT `+usuarioColumns+`
		FROM usuarios
		WHERE lower(email) = lower($1) OR lower(nome) = lower($1)
		LIMIT 1
	`, login)
	return scanUsuario(row)
}

// GetUsuarioByEmail busca usuário por e-mail exato (case-insensitive).
func (q *Queries) GetUsuarioByEmail(ctx context.Context, email string) (Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.pool.QueryRow(ctx, `
		SELECT `+usuarioColumns+`
		FROM usuarios
		WHERE lower(email) = lower($1)
		LIMIT 1
	`, email)
	return scanUsuario(row)
}

// GetUsuarioByID carrega usuário pelo identificador.
func (q *Queries) GetUsuarioByID(ctx context.Context, id uuid.UUID) (Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.pool.QueryRow(ctx, `
		SELECT `+usuarioColumns+`
		FROM usuarios
		WHERE id = $1
	`, id)
	return scanUsuario(row)
}

// InsertUsuario cria o registro e devolve a linha completa.
func (q *Queries) InsertUsuario(ctx context.Context, arg InsertUsuarioParams) (Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.pool.QueryRow(ctx, `
		INSERT INTO usuarios (id, nome, email, senha_hash, cargo, telefone, nascimento, foto_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+usuarioColumns+`
	`, arg.ID, arg.Nome, arg.Email, arg.SenhaHash, arg.Cargo, arg.Telefone, arg.Nascimento, arg.FotoURL)
	return scanUsuario(row)
}

// ListUsuarios devolve usuários, opcionalmente filtrados por cargo.
func (q *Queries) ListUsuarios(ctx context.Context, cargo string) ([]Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	query := `SELECT ` + usuarioColumns + ` FROM usuarios`
	args := []any{}
	if cargo != "" {
		query += ` WHERE cargo = $1`
		args = append(args, cargo)
	}
	query += ` ORDER BY nome`

	rows, err := q.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}
	return usuarios, rows.Err()
}

// UpdateUsuarioCargo sobrescreve o cargo; chamadas repetidas são idempotentes.
func (q *Queries) UpdateUsuarioCargo(ctx context.Context, id uuid.UUID, cargo string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := q.pool.Exec(ctx, `UPDATE usuarios SET cargo = $2 WHERE id = $1`, id, cargo)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSenha troca o hash de senha do usuário.
func (q *Queries) UpdateSenha(ctx context.Context, id uuid.UUID, senhaHash string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := q.pool.Exec(ctx, `UPDATE usuarios SET senha_hash = $2 WHERE id = $1`, id, senhaHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertRefreshToken persiste o hash de um refresh token.
func (q *Queries) InsertRefreshToken(ctx context.Context, arg InsertRefreshTokenParams) (TokenRefresh, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.pool.QueryRow(ctx, `
		INSERT INTO tokens_refresh (usuario_id, token_hash, expiracao)
		VALUES ($1, $2, $3)
		RETURNING id, usuario_id, token_hash, expiracao, criado_em, revogado
	`, arg.UsuarioID, arg.TokenHash, arg.Expiracao)

	var t TokenRefresh
	err := row.Scan(&t.ID, &t.UsuarioID, &t.TokenHash, &t.Expiracao, &t.CriadoEm, &t.Revogado)
	return t, err
}

// GetRefreshTokenByHash localiza refresh token válido pelo hash.
func (q *Queries) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (TokenRefresh, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.pool.QueryRow(ctx, `
		SELECT id, usuario_id, token_hash, expiracao, criado_em, revogado
		FROM tokens_refresh
		WHERE token_hash = $1
	`, tokenHash)

	var t TokenRefresh
	err := row.Scan(&t.ID, &t.UsuarioID, &t.TokenHash, &t.Expiracao, &t.CriadoEm, &t.Revogado)
	if errors.Is(err, pgx.ErrNoRows) {
		return TokenRefresh{}, ErrNotFound
	}
	return t, err
}

// RevokeRefreshToken marca o token como revogado.
func (q *Queries) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := q.pool.Exec(ctx, `UPDATE tokens_refresh SET revogado = TRUE WHERE token_hash = $1`, tokenHash)
	return err
}

// InvalidateOtherRefreshTokens revoga todos os tokens do usuário exceto o atual.
func (q *Queries) InvalidateOtherRefreshTokens(ctx context.Context, usuarioID uuid.UUID, keepHash string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := q.pool.Exec(ctx, `
		UPDATE tokens_refresh SET revogado = TRUE
		WHERE usuario_id = $1 AND token_hash <> $2
	`, usuarioID, keepHash)
	return err
}

// InsertPasswordReset guarda o hash de um token de redefinição.
func (q *Queries) InsertPasswordReset(ctx context.Context, usuarioID uuid.UUID, tokenHash string, expiracao time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := q.pool.Exec(ctx, `
		INSERT INTO password_resets (usuario_id, token_hash, expiracao)
		VALUES ($1, $2, $3)
	`, usuarioID, tokenHash, expiracao)
	return err
}

// GetPasswordResetByHash localiza um token de redefinição pelo hash.
func (q *Queries) GetPasswordResetByHash(ctx context.Context, tokenHash string) (PasswordReset, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.pool.QueryRow(ctx, `
		SELECT id, usuario_id, token_hash, expiracao, criado_em
		FROM password_resets
		WHERE token_hash = $1
	`, tokenHash)

	var pr PasswordReset
	err := row.Scan(&pr.ID, &pr.UsuarioID, &pr.TokenHash, &pr.Expiracao, &pr.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return PasswordReset{}, ErrNotFound
	}
	return pr, err
}

// DeletePasswordReset remove um token (consumo de uso único).
func (q *Queries) DeletePasswordReset(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := q.pool.Exec(ctx, `DELETE FROM password_resets WHERE id = $1`, id)
	return err
}

// DeletePasswordResetsByUsuario descarta tokens antigos antes de emitir um novo.
func (q *Queries) DeletePasswordResetsByUsuario(ctx context.Context, usuarioID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := q.pool.Exec(ctx, `DELETE FROM password_resets WHERE usuario_id = $1`, usuarioID)
	return err
}
