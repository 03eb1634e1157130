package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Rafaelk26/Incell-System-sub000/internal/agenda"
	"github.com/Rafaelk26/Incell-System-sub000/internal/config"
	"github.com/Rafaelk26/Incell-System-sub000/internal/estatistica"
	"github.com/Rafaelk26/Incell-System-sub000/internal/hierarquia"
	httpmiddleware "github.com/Rafaelk26/Incell-System-sub000/internal/http/middleware"
	"github.com/Rafaelk26/Incell-System-sub000/internal/mailer"
	"github.com/Rafaelk26/Incell-System-sub000/internal/pagamento"
	"github.com/Rafaelk26/Incell-System-sub000/internal/relatorio"
	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
	"github.com/Rafaelk26/Incell-System-sub000/internal/service"
	"github.com/Rafaelk26/Incell-System-sub000/internal/storage"
)

type Handler struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	redis         *redis.Client
	authService   *service.AuthService
	usuarios      *service.UsuarioService
	reset         *service.ResetService
	relatorios    *relatorio.Service
	storage       storage.ObjectStorage
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// NewRouter monta o roteador completo e o varredor de relatórios. O Sweeper
// devolvido deve ser iniciado (e parado) pelo chamador.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, authService *service.AuthService) (http.Handler, *relatorio.Sweeper, error) {
	var objectStorage storage.ObjectStorage = storage.NoopStorage{}
	switch cfg.Storage.Provider {
	case "", "noop":
		// mantém storage padrão
	case "s3", "r2", "cloudflare-r2":
		s3Cfg := storage.S3Config{
			Endpoint:     cfg.Storage.S3Endpoint,
			Region:       cfg.Storage.S3Region,
			Bucket:       cfg.Storage.S3Bucket,
			AccessKey:    cfg.Storage.S3AccessKey,
			SecretKey:    cfg.Storage.S3SecretKey,
			PublicDomain: cfg.Storage.S3PublicURL,
		}
		s3Storage, err := storage.NewS3Storage(s3Cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: %w", err)
		}
		objectStorage = s3Storage
	default:
		return nil, nil, fmt.Errorf("storage: provedor %s não suportado", cfg.Storage.Provider)
	}

	var emailSender mailer.Mailer = mailer.ConsoleMailer{}
	if cfg.SendgridAPIKey != "" {
		emailSender = mailer.NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailFromName, cfg.EmailFrom)
	}

	queries := repo.New(pool)

	resetLogger := log.With().Str("component", "reset").Logger()
	resetService := service.NewResetService(queries, emailSender, cfg.AppURL, resetLogger)

	usuarioLogger := log.With().Str("component", "usuarios").Logger()
	usuarioService := service.NewUsuarioService(queries, objectStorage, usuarioLogger)

	hierarquiaRepo := hierarquia.NewRepository(pool)
	hierarquiaService := hierarquia.NewService(hierarquiaRepo, redisClient)
	hierarquiaHandler := hierarquia.NewHandler(hierarquiaService)

	agendaRepo := agenda.NewRepository(pool)
	agendaService := agenda.NewService(agendaRepo)
	agendaHandler := agenda.NewHandler(agendaService)

	relatorioLogger := log.With().Str("component", "relatorios").Logger()
	relatorioRepo := relatorio.NewRepository(pool)
	relatorioService := relatorio.NewService(relatorioRepo, objectStorage, relatorioLogger)
	relatorioHandler := relatorio.NewHandler(relatorioService)
	sweeper := relatorio.NewSweeper(relatorioService, cfg.RelatorioSweepInterval, cfg.RelatorioMaxAge, relatorioLogger)

	pagamentoLogger := log.With().Str("component", "pagamentos").Logger()
	pagamentoRepo := pagamento.NewRepository(pool)
	pagamentoService := pagamento.NewService(pagamentoRepo, agendaService, objectStorage, pagamentoLogger)
	pagamentoHandler := pagamento.NewHandler(pagamentoService)

	estatisticaRepo := estatistica.NewRepository(pool)
	estatisticaService := estatistica.NewService(estatisticaRepo)
	estatisticaHandler := estatistica.NewHandler(estatisticaService)

	h := &Handler{
		cfg:           cfg,
		pool:          pool,
		redis:         redisClient,
		authService:   authService,
		usuarios:      usuarioService,
		reset:         resetService,
		relatorios:    relatorioService,
		storage:       objectStorage,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)
	})

	r.Route("/api", func(api chi.Router) {
		api.Group(func(public chi.Router) {
			public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

			public.Post("/login", h.Login)
			public.Post("/refresh", h.Refresh)
			public.Post("/logout", h.Logout)
			public.Post("/password/forgot", h.ForgotPassword)
			public.Post("/password/reset", h.ResetPassword)
			public.Get("/cron/limpar-relatorios", h.CronLimparRelatorios)
		})

		api.Group(func(private chi.Router) {
			private.Use(httpmiddleware.Auth(authService.JWT()))
			private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

			private.Get("/me", h.Me)

			private.Route("/usuarios", func(u chi.Router) {
				u.Get("/", h.ListUsuarios)
				u.Group(func(gestao chi.Router) {
					gestao.Use(httpmiddleware.RequireCargo(repo.CargoPastor, repo.CargoAdmin))
					gestao.Post("/", h.CreateUsuario)
					gestao.Post("/criar", h.CreateUsuario)
					gestao.Patch("/{id}/cargo", h.UpdateUsuarioCargo)
				})
			})

			hierarquia.Mount(private, hierarquiaHandler)
			agendaHandler.RegisterRoutes(private)
			relatorioHandler.RegisterRoutes(private)
			pagamentoHandler.RegisterRoutes(private)
			estatisticaHandler.RegisterRoutes(private)
		})
	})

	return r, sweeper, nil
}

// Health responde sempre ok; indica apenas que o processo está de pé.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready verifica as dependências externas.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "NOT_READY", "banco indisponível", nil)
		return
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			WriteError(w, http.StatusServiceUnavailable, "NOT_READY", "redis indisponível", nil)
			return
		}
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
