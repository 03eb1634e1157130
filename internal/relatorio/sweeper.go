package relatorio

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper roda a varredura de relatórios em intervalo fixo. É o mecanismo
// durável de limpeza: sobrevive a reinícios porque a idade vem do banco, não
// de timers por requisição.
type Sweeper struct {
	service  *Service
	interval time.Duration
	maxAge   time.Duration
	logger   zerolog.Logger

	once   sync.Once
	cancel context.CancelFunc
}

func NewSweeper(service *Service, interval, maxAge time.Duration, logger zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &Sweeper{service: service, interval: interval, maxAge: maxAge, logger: logger}
}

// Start inicia o loop periódico. Seguro para chamar múltiplas vezes.
func (s *Sweeper) Start(parent context.Context) {
	s.once.Do(func() {
		ctx, cancel := context.WithCancel(parent)
		s.cancel = cancel
		go s.runLoop(ctx)
	})
}

// Stop encerra o loop periódico.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Sweeper) runLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Dur("max_age", s.maxAge).Msg("relatorio: varredura iniciada")

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error().Err(err).Msg("relatorio: primeira varredura falhou")
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("relatorio: varredura encerrada")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error().Err(err).Msg("relatorio: varredura periódica falhou")
			}
		}
	}
}

// RunOnce executa uma varredura imediata.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	removidos, err := s.service.Sweep(ctx, s.maxAge)
	if err != nil {
		return err
	}
	if removidos > 0 {
		s.logger.Info().Int("removidos", removidos).Msg("relatorio: varredura concluída")
	}
	return nil
}
