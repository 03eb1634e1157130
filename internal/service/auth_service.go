package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Rafaelk26/Incell-System-sub000/internal/auth"
	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
)

var (
	// ErrUsuarioNaoEncontrado indica que nenhum usuário casa com o login.
	ErrUsuarioNaoEncontrado = errors.New("Usuário não encontrado!")
	// ErrSenhaIncorreta indica senha divergente do hash armazenado.
	ErrSenhaIncorreta = errors.New("Senha incorreta!")
)

// AuthQueries reúne as consultas que o fluxo de autenticação precisa.
type AuthQueries interface {
	GetUsuarioByLogin(ctx context.Context, login string) (repo.Usuario, error)
	GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error)
	InsertRefreshToken(ctx context.Context, arg repo.InsertRefreshTokenParams) (repo.TokenRefresh, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.TokenRefresh, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	InvalidateOtherRefreshTokens(ctx context.Context, usuarioID uuid.UUID, keepHash string) error
}

// TokenPair é o resultado de um login ou refresh bem-sucedido.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService concentra login, refresh e logout.
type AuthService struct {
	queries    AuthQueries
	jwt        *auth.JWTManager
	rdb        *redis.Client
	refreshTTL time.Duration
}

func NewAuthService(queries AuthQueries, jwtManager *auth.JWTManager, rdb *redis.Client, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		queries:    queries,
		jwt:        jwtManager,
		rdb:        rdb,
		refreshTTL: refreshTTL,
	}
}

// JWT expõe o gerenciador para o middleware de autenticação.
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// Login autentica por e-mail ou nome e emite o par de tokens. Os sentinelas
// distinguem usuário inexistente de senha errada, e as mensagens chegam
// intactas ao cliente.
func (s *AuthService) Login(ctx context.Context, login, senha string) (repo.Usuario, TokenPair, error) {
	usuario, err := s.queries.GetUsuarioByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return repo.Usuario{}, TokenPair{}, ErrUsuarioNaoEncontrado
		}
		return repo.Usuario{}, TokenPair{}, fmt.Errorf("buscar usuário: %w", err)
	}

	ok, err := auth.VerificarSenha(senha, usuario.SenhaHash)
	if err != nil {
		return repo.Usuario{}, TokenPair{}, fmt.Errorf("verificar senha: %w", err)
	}
	if !ok {
		return repo.Usuario{}, TokenPair{}, ErrSenhaIncorreta
	}

	pair, err := s.emitirTokens(ctx, usuario)
	if err != nil {
		return repo.Usuario{}, TokenPair{}, err
	}
	return usuario, pair, nil
}

// Refresh troca um refresh token válido por um novo par, revogando o antigo.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (repo.Usuario, TokenPair, error) {
	hash := auth.HashRefreshToken(rawRefresh)

	token, err := s.queries.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return repo.Usuario{}, TokenPair{}, auth.ErrInvalidRefresh
		}
		return repo.Usuario{}, TokenPair{}, fmt.Errorf("buscar refresh: %w", err)
	}
	if token.Revogado || time.Now().After(token.Expiracao) {
		return repo.Usuario{}, TokenPair{}, auth.ErrInvalidRefresh
	}

	usuario, err := s.queries.GetUsuarioByID(ctx, token.UsuarioID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return repo.Usuario{}, TokenPair{}, auth.ErrInvalidRefresh
		}
		return repo.Usuario{}, TokenPair{}, fmt.Errorf("buscar usuário: %w", err)
	}

	if err := s.queries.RevokeRefreshToken(ctx, hash); err != nil {
		return repo.Usuario{}, TokenPair{}, fmt.Errorf("revogar refresh: %w", err)
	}
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, auth.RefreshRedisKey(hash)).Err()
	}

	pair, err := s.emitirTokens(ctx, usuario)
	if err != nil {
		return repo.Usuario{}, TokenPair{}, err
	}

	// Rotação derruba as demais sessões do usuário; só o par recém-emitido vive.
	if err := s.queries.InvalidateOtherRefreshTokens(ctx, usuario.ID, auth.HashRefreshToken(pair.RefreshToken)); err != nil {
		return repo.Usuario{}, TokenPair{}, fmt.Errorf("invalidar sessões antigas: %w", err)
	}

	return usuario, pair, nil
}

// Logout revoga o refresh token informado. Token desconhecido não é erro.
func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	hash := auth.HashRefreshToken(rawRefresh)

	if err := s.queries.RevokeRefreshToken(ctx, hash); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("revogar refresh: %w", err)
	}
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, auth.RefreshRedisKey(hash)).Err()
	}
	return nil
}

func (s *AuthService) emitirTokens(ctx context.Context, usuario repo.Usuario) (TokenPair, error) {
	access, _, err := s.jwt.GenerateAccessToken(usuario.ID.String(), usuario.Cargo)
	if err != nil {
		return TokenPair{}, fmt.Errorf("gerar access token: %w", err)
	}

	rawRefresh, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return TokenPair{}, fmt.Errorf("gerar refresh token: %w", err)
	}

	expiracao := time.Now().Add(s.refreshTTL)
	if _, err := s.queries.InsertRefreshToken(ctx, repo.InsertRefreshTokenParams{
		UsuarioID: usuario.ID,
		TokenHash: hash,
		Expiracao: expiracao,
	}); err != nil {
		return TokenPair{}, fmt.Errorf("persistir refresh token: %w", err)
	}

	if s.rdb != nil {
		// Redis é apenas acelerador de lookup; o Postgres é a fonte de verdade.
		_ = s.rdb.Set(ctx, auth.RefreshRedisKey(hash), usuario.ID.String(), s.refreshTTL).Err()
	}

	return TokenPair{AccessToken: access, RefreshToken: rawRefresh}, nil
}
