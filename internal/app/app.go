package app

import (
	"context"
	"fmt"
	"time"

	"github.com/emrekrt/pandabot/internal/config"
	"github.com/emrekrt/pandabot/internal/delivery/telegram"
	"github.com/emrekrt/pandabot/internal/infra/ai"
	"github.com/emrekrt/pandabot/internal/infra/binance"
	"github.com/emrekrt/pandabot/internal/infra/cache"
	"github.com/emrekrt/pandabot/internal/infra/cmc"
	"github.com/emrekrt/pandabot/internal/infra/db"
	"github.com/emrekrt/pandabot/internal/infra/fx"
	"github.com/emrekrt/pandabot/internal/infra/jobs"
	"github.com/emrekrt/pandabot/internal/infra/log"
	"github.com/emrekrt/pandabot/internal/infra/web"
	"github.com/emrekrt/pandabot/internal/infra/yahoo"
	"github.com/emrekrt/pandabot/internal/usecase"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Quotes older than this in the stream table are treated as absent.
const streamStaleness = 30 * time.Second

type App struct {
	bot            *telegram.Bot
	stream         *binance.Stream
	scheduler      *jobs.Scheduler
	reminderServer *jobs.ReminderServer
	webServer      *web.Server
	logger         *zap.Logger
	cleanupFn      func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	userRepo := db.NewUserRepository(dbConn)
	alertRepo := db.NewAlertRepository(dbConn)
	reminderRepo := db.NewReminderRepository(dbConn)
	noteRepo := db.NewNoteRepository(dbConn)
	watchlistRepo := db.NewWatchlistRepository(dbConn)
	portfolioRepo := db.NewPortfolioRepository(dbConn)

	keys := cmc.NewKeyManager(cfg.CMCAPIKeys, cfg.CMCActiveKey, cfg.CMCRequestLimit, logger)
	cmcClient := cmc.NewClient(cfg.CMCBaseURL, cfg.HTTPTimeout, keys, logger)
	detail := cache.NewQuoteCache(cmcClient, rdb, cfg.QuoteCacheTTL, logger)
	binanceClient := binance.NewClient(cfg.BinanceBaseURL, cfg.HTTPTimeout, logger)
	stream := binance.NewStream(cfg.BinanceWSURL, streamStaleness, logger)
	yahooClient := yahoo.NewClient(cfg.YahooBaseURL, cfg.HTTPTimeout, logger)
	fxClient := fx.NewClient(cfg.FXBaseURL, cfg.HTTPTimeout, logger)
	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModelName, cfg.AITimeout, logger)

	api, err := telegram.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}
	notifier := telegram.NewNotifier(api, logger)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	reminderQueue := jobs.NewReminderQueue(redisOpt, logger)

	userUC := usecase.NewUserUsecase(userRepo, logger)
	priceUC := usecase.NewPriceUsecase(stream, binanceClient, detail, yahooClient, fxClient, logger)
	alertUC := usecase.NewAlertUsecase(alertRepo, priceUC, logger)
	reminderUC := usecase.NewReminderUsecase(reminderRepo, userRepo, reminderQueue, notifier, cfg.MaxReminderLength, logger)
	noteUC := usecase.NewNoteUsecase(noteRepo, cfg.MaxNoteLength, logger)
	watchlistUC := usecase.NewWatchlistUsecase(watchlistRepo, priceUC, logger)
	portfolioUC := usecase.NewPortfolioUsecase(portfolioRepo, priceUC, logger)
	aiUC := usecase.NewAIUsecase(aiClient, cfg.AIInputCostToken, cfg.AIOutputCostToken, logger)
	adminUC := usecase.NewAdminUsecase(
		userRepo, alertRepo, reminderRepo, noteRepo, watchlistRepo, portfolioRepo,
		keys, notifier, cfg.AdminTelegramID, logger,
	)

	checker := usecase.NewAlertChecker(alertRepo, userRepo, stream, binanceClient, notifier, cfg.AlertCooldown, logger)

	limiter := telegram.NewRateLimiter(rdb, cfg.RateLimitPerMinute, logger)
	handlers := telegram.NewHandlers(
		userUC, priceUC, alertUC, reminderUC, noteUC,
		watchlistUC, portfolioUC, aiUC, adminUC, limiter, logger,
	)
	bot := telegram.NewBot(api, handlers, cfg.TelegramPollTimeout)

	reminderServer := jobs.NewReminderServer(redisOpt, reminderUC, logger)

	scheduler := jobs.NewScheduler(logger)
	jobCtx := func(fn func(ctx context.Context)) func() {
		return func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			fn(ctx)
		}
	}
	if err := scheduler.AddJob(fmt.Sprintf("@every %s", cfg.AlertCheckInterval), "alert-cycle", jobCtx(checker.RunCycle)); err != nil {
		return nil, err
	}
	if err := scheduler.AddJob("0 0 * * *", "daily-key-reset", jobCtx(adminUC.DailyReset)); err != nil {
		return nil, err
	}
	if err := scheduler.AddJob("0 0 * * *", "daily-summary", jobCtx(adminUC.DailySummary)); err != nil {
		return nil, err
	}

	webServer := web.NewServer(cfg.WebAddr, dbConn, rdb, logger)

	cleanup := func() error {
		if err := reminderQueue.Close(); err != nil {
			logger.Warn("failed to close reminder queue", zap.Error(err))
		}
		if err := rdb.Close(); err != nil {
			logger.Warn("failed to close redis", zap.Error(err))
		}
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return &App{
		bot:            bot,
		stream:         stream,
		scheduler:      scheduler,
		reminderServer: reminderServer,
		webServer:      webServer,
		logger:         logger,
		cleanupFn:      cleanup,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("pandabot service starting")

	go a.stream.Run(ctx)
	go a.webServer.Run()
	if err := a.reminderServer.Start(); err != nil {
		return err
	}
	a.scheduler.Start()

	a.logger.Info("pandabot service started")
	return a.bot.Start(ctx)
}

func (a *App) Shutdown() {
	a.logger.Info("pandabot service shutting down")
	a.scheduler.Stop()
	a.reminderServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.webServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("web server shutdown failed", zap.Error(err))
	}

	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
