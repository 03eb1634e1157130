package relatorio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Rafaelk26/Incell-System-sub000/internal/storage"
)

var (
	// ErrTipoInvalido cobre tipos de relatório fora do conjunto reconhecido.
	ErrTipoInvalido = errors.New("tipo de relatório inválido")
	// ErrPDFVazio rejeita criação sem conteúdo.
	ErrPDFVazio = errors.New("conteúdo do PDF obrigatório")
)

// RelatorioRepository declara o acesso a dados usado pelo serviço.
type RelatorioRepository interface {
	Insert(context.Context, Relatorio) (Relatorio, error)
	ListOlderThan(context.Context, time.Time) ([]Relatorio, error)
	Delete(context.Context, uuid.UUID) error
}

// Service implementa o ciclo de vida do relatório efêmero: upload, URL
// assinada, metadados e purga durável. Não há timers em memória por
// requisição; a varredura periódica é o único mecanismo de limpeza.
type Service struct {
	repo    RelatorioRepository
	storage storage.ObjectStorage
	logger  zerolog.Logger
	agora   func() time.Time
}

func NewService(repo RelatorioRepository, st storage.ObjectStorage, logger zerolog.Logger) *Service {
	return &Service{repo: repo, storage: st, logger: logger, agora: time.Now}
}

// CriarInput agrupa os dados da criação.
type CriarInput struct {
	ResponsavelID uuid.UUID
	Tipo          string
	GrupoID       *uuid.UUID
	PDF           []byte
}

// Criar executa as etapas em ordem estrita: upload, assinatura, metadados.
// Falha em qualquer etapa aborta antes da seguinte; falha no insert deixa
// objeto órfão no storage, que é apenas registrado em log.
func (s *Service) Criar(ctx context.Context, input CriarInput) (Relatorio, error) {
	if !TipoValido(input.Tipo) {
		return Relatorio{}, ErrTipoInvalido
	}
	if len(input.PDF) == 0 {
		return Relatorio{}, ErrPDFVazio
	}

	dono := input.ResponsavelID.String()
	if input.GrupoID != nil {
		dono = input.GrupoID.String()
	}
	path := fmt.Sprintf("%s/%s/relatorio-%d.pdf", input.Tipo, dono, s.agora().Unix())

	if _, err := s.storage.Upload(ctx, storage.UploadInput{
		Key:         path,
		Body:        input.PDF,
		ContentType: "application/pdf",
	}); err != nil {
		return Relatorio{}, fmt.Errorf("upload do relatório: %w", err)
	}

	validade := ValidadePadrao[input.Tipo]
	url, err := s.storage.PresignGet(ctx, path, validade)
	if err != nil {
		return Relatorio{}, fmt.Errorf("assinatura da URL: %w", err)
	}

	rel, err := s.repo.Insert(ctx, Relatorio{
		ResponsavelID: input.ResponsavelID,
		Tipo:          input.Tipo,
		GrupoID:       input.GrupoID,
		StoragePath:   path,
		URLAssinada:   url,
		ExpiraEmSeg:   int64(validade.Seconds()),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("relatorio: objeto órfão no storage após falha de insert")
		return Relatorio{}, fmt.Errorf("metadados do relatório: %w", err)
	}

	return rel, nil
}

// Sweep purga relatórios mais antigos que maxAge: primeiro o objeto, depois a
// linha. Idempotente; objeto já ausente conta como sucesso. Se a remoção do
// objeto falhar, a linha fica para a próxima varredura.
func (s *Service) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := s.agora().Add(-maxAge)

	expirados, err := s.repo.ListOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("listar expirados: %w", err)
	}

	removidos := 0
	for _, rel := range expirados {
		if err := s.storage.Delete(ctx, rel.StoragePath); err != nil {
			s.logger.Warn().Err(err).Str("path", rel.StoragePath).Msg("relatorio: falha ao remover objeto, linha mantida")
			continue
		}
		if err := s.repo.Delete(ctx, rel.ID); err != nil {
			s.logger.Warn().Err(err).Stringer("id", rel.ID).Msg("relatorio: falha ao remover metadados")
			continue
		}
		removidos++
	}

	return removidos, nil
}
