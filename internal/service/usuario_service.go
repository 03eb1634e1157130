package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Rafaelk26/Incell-System-sub000/internal/auth"
	"github.com/Rafaelk26/Incell-System-sub000/internal/db"
	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
	"github.com/Rafaelk26/Incell-System-sub000/internal/storage"
	"github.com/Rafaelk26/Incell-System-sub000/internal/util"
)

var (
	// ErrEmailEmUso indica colisão com e-mail já cadastrado.
	ErrEmailEmUso = errors.New("e-mail já cadastrado")
	// ErrCargoInvalido indica cargo fora do conjunto reconhecido.
	ErrCargoInvalido = errors.New("cargo inválido")
)

// UsuarioQueries reúne as consultas de gestão de usuários.
type UsuarioQueries interface {
	GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error)
	InsertUsuario(ctx context.Context, arg repo.InsertUsuarioParams) (repo.Usuario, error)
	ListUsuarios(ctx context.Context, cargo string) ([]repo.Usuario, error)
	UpdateUsuarioCargo(ctx context.Context, id uuid.UUID, cargo string) error
}

// NovoUsuario agrupa a entrada da criação de usuário.
type NovoUsuario struct {
	Nome       string
	Email      string
	Senha      string
	Cargo      string
	Telefone   *string
	Nascimento *time.Time

	// Foto opcional enviada junto no multipart.
	Foto            []byte
	FotoContentType string
	FotoExt         string
}

// UsuarioService cobre cadastro, listagem e troca de cargo.
type UsuarioService struct {
	queries UsuarioQueries
	storage storage.ObjectStorage
	logger  zerolog.Logger
}

func NewUsuarioService(queries UsuarioQueries, st storage.ObjectStorage, logger zerolog.Logger) *UsuarioService {
	return &UsuarioService{queries: queries, storage: st, logger: logger}
}

// Criar cadastra o usuário com senha em argon2id e, havendo foto, sobe o
// arquivo antes do insert para gravar a URL definitiva.
func (s *UsuarioService) Criar(ctx context.Context, input NovoUsuario) (repo.Usuario, error) {
	if !repo.CargoValido(input.Cargo) {
		return repo.Usuario{}, ErrCargoInvalido
	}
	if err := util.ValidateEmail(input.Email); err != nil {
		return repo.Usuario{}, err
	}
	if err := util.ValidatePassword(input.Senha); err != nil {
		return repo.Usuario{}, err
	}

	senhaHash, err := auth.HashSenha(input.Senha)
	if err != nil {
		return repo.Usuario{}, fmt.Errorf("gerar hash: %w", err)
	}

	// O id nasce aqui para a foto ficar sob a pasta do próprio usuário.
	usuarioID := uuid.New()

	var fotoURL *string
	if len(input.Foto) > 0 && s.storage != nil {
		key := fmt.Sprintf("usuarios/%s/foto-%d%s", usuarioID, time.Now().Unix(), input.FotoExt)
		res, err := s.storage.Upload(ctx, storage.UploadInput{
			Key:         key,
			Body:        input.Foto,
			ContentType: input.FotoContentType,
		})
		if err != nil {
			return repo.Usuario{}, fmt.Errorf("upload da foto: %w", err)
		}
		fotoURL = &res.URL
	}

	usuario, err := s.queries.InsertUsuario(ctx, repo.InsertUsuarioParams{
		ID:         usuarioID,
		Nome:       input.Nome,
		Email:      input.Email,
		SenhaHash:  senhaHash,
		Cargo:      input.Cargo,
		Telefone:   input.Telefone,
		Nascimento: input.Nascimento,
		FotoURL:    fotoURL,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return repo.Usuario{}, ErrEmailEmUso
		}
		return repo.Usuario{}, fmt.Errorf("inserir usuário: %w", err)
	}

	s.logger.Info().
		Str("usuario_id", usuario.ID.String()).
		Str("cargo", usuario.Cargo).
		Msg("usuário criado")

	return usuario, nil
}

// Listar devolve usuários por cargo (vazio lista todos), em ordem alfabética
// sem distinguir acento.
func (s *UsuarioService) Listar(ctx context.Context, cargo string) ([]repo.Usuario, error) {
	if cargo != "" && !repo.CargoValido(cargo) {
		return nil, ErrCargoInvalido
	}

	usuarios, err := s.queries.ListUsuarios(ctx, cargo)
	if err != nil {
		return nil, fmt.Errorf("listar usuários: %w", err)
	}

	util.OrdenarPorTexto(usuarios, func(u repo.Usuario) string { return u.Nome })
	return usuarios, nil
}

// Buscar devolve o usuário pelo id.
func (s *UsuarioService) Buscar(ctx context.Context, id uuid.UUID) (repo.Usuario, error) {
	return s.queries.GetUsuarioByID(ctx, id)
}

// AtualizarCargo troca o cargo do usuário. Repetir o mesmo cargo é no-op.
func (s *UsuarioService) AtualizarCargo(ctx context.Context, id uuid.UUID, cargo string) error {
	if !repo.CargoValido(cargo) {
		return ErrCargoInvalido
	}

	usuario, err := s.queries.GetUsuarioByID(ctx, id)
	if err != nil {
		return err
	}
	if usuario.Cargo == cargo {
		return nil
	}

	return s.queries.UpdateUsuarioCargo(ctx, id, cargo)
}
