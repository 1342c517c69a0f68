package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emotionserver/internal/config"
	"emotionserver/internal/logger"
	"emotionserver/internal/middleware"
	"emotionserver/internal/repository/sqlite"
	"emotionserver/internal/route"
	"emotionserver/internal/service"
	"emotionserver/internal/service/ai"
	"emotionserver/internal/service/content"
	"emotionserver/internal/service/mail"
	"emotionserver/internal/service/session"
	"emotionserver/internal/service/vision"
	"emotionserver/internal/service/websocket"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqlite.DB
	hubService *websocket.HubService
	limiter    *middleware.RateLimiter
	manager    *service.Manager
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	if !cfg.MailConfigured() {
		log.Warning("EMAIL_SENDER, EMAIL_RECEIVER or EMAIL_PASSWORD is not set; suggestions will fail to send")
	}
	if cfg.LogsToken == "" {
		log.Warning("LOGS_TOKEN is not set; /logs and /admin endpoints are disabled")
	}

	hub := websocket.NewHubService(log)

	mng := service.NewManager(service.Deps{
		Analyzer:       ai.NewClient(cfg),
		Annotator:      vision.NewAnnotator(log),
		Library:        content.NewLibrary(cfg),
		Mailer:         mail.NewService(cfg, mail.NewSMTPSender(cfg)),
		Sessions:       session.NewStore(),
		DetectionRepo:  sqlite.NewDetectionRepository(db),
		SuggestionRepo: sqlite.NewSuggestionRepository(db),
		Hub:            hub,
		Logger:         log,
		TempDir:        os.TempDir(),
	})

	return &App{
		config:     cfg,
		logger:     log,
		db:         db,
		hubService: hub,
		limiter:    middleware.NewRateLimiter(cfg.SuggestionsPerMinute),
		manager:    mng,
	}, nil
}

// Run serves until SIGINT or SIGTERM, then drains open requests.
func (a *App) Run() error {
	defer a.logger.Close()
	defer a.db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           route.SetupRoutes(a.manager, a.hubService, a.limiter, a.config, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("🚀 Emotion Recognition Server\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("🤖 Analyzer: %s (%s)\n", a.config.AnalyzerURL, a.config.DetectorBackend)
	fmt.Printf("📖 Shayari: %s\n", a.config.ShayariDirectory)
	fmt.Printf("🎵 Music: %s\n", a.config.MusicDirectory)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.hubService.Run(gctx)
		return nil
	})

	g.Go(func() error {
		a.sweepSessions(gctx)
		return nil
	})

	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// sweepSessions periodically drops idle session state and rate-limit buckets.
func (a *App) sweepSessions(ctx context.Context) {
	interval := a.config.SessionSweepInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.manager.ExpireSessions(a.config.SessionTTL)
			a.limiter.Sweep(a.config.SessionTTL)
		}
	}
}
