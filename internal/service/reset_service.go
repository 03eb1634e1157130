package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Rafaelk26/Incell-System-sub000/internal/auth"
	"github.com/Rafaelk26/Incell-System-sub000/internal/mailer"
	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
)

// ResetQueries reúne as consultas do fluxo de redefinição de senha.
type ResetQueries interface {
	GetUsuarioByEmail(ctx context.Context, email string) (repo.Usuario, error)
	InsertPasswordReset(ctx context.Context, usuarioID uuid.UUID, tokenHash string, expiracao time.Time) error
	GetPasswordResetByHash(ctx context.Context, tokenHash string) (repo.PasswordReset, error)
	DeletePasswordReset(ctx context.Context, id uuid.UUID) error
	DeletePasswordResetsByUsuario(ctx context.Context, usuarioID uuid.UUID) error
	UpdateSenha(ctx context.Context, id uuid.UUID, senhaHash string) error
}

// ResetService cuida do ciclo esqueci-a-senha: emissão do token por e-mail e
// consumo de uso único.
type ResetService struct {
	queries ResetQueries
	mailer  mailer.Mailer
	appURL  string
	logger  zerolog.Logger
}

func NewResetService(queries ResetQueries, m mailer.Mailer, appURL string, logger zerolog.Logger) *ResetService {
	return &ResetService{queries: queries, mailer: m, appURL: appURL, logger: logger}
}

// SolicitarReset gera token de redefinição e envia por e-mail. A resposta é
// sempre a mesma, exista o e-mail ou não, para não vazar cadastro.
func (s *ResetService) SolicitarReset(ctx context.Context, email string) error {
	usuario, err := s.queries.GetUsuarioByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("buscar usuário: %w", err)
	}

	// Um pedido novo invalida os anteriores do mesmo usuário.
	if err := s.queries.DeletePasswordResetsByUsuario(ctx, usuario.ID); err != nil {
		return fmt.Errorf("limpar tokens anteriores: %w", err)
	}

	raw, hash, err := auth.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("gerar token: %w", err)
	}

	expiracao := time.Now().Add(auth.ResetTokenTTL)
	if err := s.queries.InsertPasswordReset(ctx, usuario.ID, hash, expiracao); err != nil {
		return fmt.Errorf("persistir token: %w", err)
	}

	link := fmt.Sprintf("%s/redefinir-senha?token=%s", s.appURL, raw)
	msg := mailer.Message{
		To:      usuario.Email,
		ToName:  usuario.Nome,
		Subject: "Redefinição de senha",
		Text: fmt.Sprintf(
			"Olá, %s!\n\nRecebemos um pedido para redefinir sua senha. Acesse o link abaixo em até 30 minutos:\n\n%s\n\nSe você não fez esse pedido, ignore este e-mail.",
			usuario.Nome, link,
		),
		HTML: fmt.Sprintf(
			`<p>Olá, %s!</p><p>Recebemos um pedido para redefinir sua senha. Acesse o link abaixo em até 30 minutos:</p><p><a href="%s">Redefinir senha</a></p><p>Se você não fez esse pedido, ignore este e-mail.</p>`,
			usuario.Nome, link,
		),
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		// O token já está no banco; o usuário pode pedir de novo.
		s.logger.Error().Err(err).Str("email", usuario.Email).Msg("reset: falha ao enviar e-mail")
		return fmt.Errorf("enviar e-mail: %w", err)
	}

	return nil
}

// RedefinirSenha consome o token e grava o novo hash. O token é apagado antes
// da troca, garantindo uso único mesmo sob requisições concorrentes.
func (s *ResetService) RedefinirSenha(ctx context.Context, rawToken, novaSenha string) error {
	hash := auth.HashResetToken(rawToken)

	reset, err := s.queries.GetPasswordResetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return auth.ErrResetInvalido
		}
		return fmt.Errorf("buscar token: %w", err)
	}

	if time.Now().After(reset.Expiracao) {
		_ = s.queries.DeletePasswordReset(ctx, reset.ID)
		return auth.ErrResetInvalido
	}

	if err := s.queries.DeletePasswordReset(ctx, reset.ID); err != nil {
		return fmt.Errorf("consumir token: %w", err)
	}

	senhaHash, err := auth.HashSenha(novaSenha)
	if err != nil {
		return fmt.Errorf("gerar hash: %w", err)
	}

	if err := s.queries.UpdateSenha(ctx, reset.UsuarioID, senhaHash); err != nil {
		return fmt.Errorf("atualizar senha: %w", err)
	}

	s.logger.Info().Str("usuario_id", reset.UsuarioID.String()).Msg("reset: senha redefinida")
	return nil
}
