package pagamento

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
	"github.com/Rafaelk26/Incell-System-sub000/internal/storage"
)

const pastaCiclo = "pagamentos"

var (
	// ErrArquivoVazio rejeita comprovante sem conteúdo.
	ErrArquivoVazio = errors.New("arquivo do comprovante obrigatório")
)

// PagamentoRepository declara o acesso a dados usado pelo serviço.
type PagamentoRepository interface {
	Insert(context.Context, Pagamento) (Pagamento, error)
	List(context.Context) ([]Pagamento, error)
	CountDistinctResponsaveis(context.Context) (int, error)
	DeleteAll(context.Context) (int64, error)
}

// CicloReunioes informa quando a última reunião GD ficou para trás.
type CicloReunioes interface {
	UltimaOcorrenciaGD(ctx context.Context, agora time.Time) (time.Time, error)
}

// Service acompanha comprovantes de pagamento por ciclo de reunião GD.
type Service struct {
	repo    PagamentoRepository
	ciclo   CicloReunioes
	storage storage.ObjectStorage
	logger  zerolog.Logger
	agora   func() time.Time
}

func NewService(r PagamentoRepository, ciclo CicloReunioes, st storage.ObjectStorage, logger zerolog.Logger) *Service {
	return &Service{repo: r, ciclo: ciclo, storage: st, logger: logger, agora: time.Now}
}

// Registrar sobe o comprovante e grava a linha. Sem deduplicação: cada envio
// vira uma linha nova.
func (s *Service) Registrar(ctx context.Context, responsavelID uuid.UUID, arquivo []byte, contentType, ext string) (Pagamento, error) {
	if responsavelID == uuid.Nil {
		return Pagamento{}, errors.New("responsável obrigatório")
	}
	if len(arquivo) == 0 {
		return Pagamento{}, ErrArquivoVazio
	}
	if ext == "" {
		ext = ".bin"
	}

	path := fmt.Sprintf("%s/%s-%d%s", pastaCiclo, responsavelID, s.agora().UnixNano(), ext)

	if _, err := s.storage.Upload(ctx, storage.UploadInput{
		Key:         path,
		Body:        arquivo,
		ContentType: contentType,
	}); err != nil {
		return Pagamento{}, fmt.Errorf("upload do comprovante: %w", err)
	}

	return s.repo.Insert(ctx, Pagamento{ResponsavelID: responsavelID, StoragePath: path})
}

// Listar expõe os comprovantes do ciclo corrente.
func (s *Service) Listar(ctx context.Context) ([]Pagamento, error) {
	return s.repo.List(ctx)
}

// Percentual calcula quantos por cento do grupo acompanhado já pagou,
// arredondado para o inteiro mais próximo.
func (s *Service) Percentual(ctx context.Context, totalAcompanhados int) (int, error) {
	if totalAcompanhados <= 0 {
		return 0, nil
	}

	distintos, err := s.repo.CountDistinctResponsaveis(ctx)
	if err != nil {
		return 0, err
	}

	return int(math.Round(float64(distintos) / float64(totalAcompanhados) * 100)), nil
}

// PurgarCiclo zera o ciclo quando a reunião GD mais recente já passou: apaga
// os objetos da pasta do ciclo e depois todas as linhas, sem escopo — a
// tabela não carrega identificador de ciclo. Invocada oportunisticamente
// pelo cliente a cada carga de página, não por agendamento garantido.
func (s *Service) PurgarCiclo(ctx context.Context) (int64, error) {
	_, err := s.ciclo.UltimaOcorrenciaGD(ctx, s.agora())
	if errors.Is(err, repo.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ocorrência do ciclo: %w", err)
	}

	keys, err := s.storage.List(ctx, pastaCiclo+"/")
	if err != nil {
		return 0, fmt.Errorf("listar comprovantes: %w", err)
	}

	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			// melhor esforço: objeto que sobrar não tem mais linha apontando
			s.logger.Warn().Err(err).Str("key", key).Msg("pagamento: falha ao remover comprovante")
		}
	}

	return s.repo.DeleteAll(ctx)
}
