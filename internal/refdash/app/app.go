package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	goredis "github.com/redis/go-redis/v9"

	httpapi "github.com/toshilabs/toshiref/internal/refdash/http"
	"github.com/toshilabs/toshiref/internal/refdash/notify"
	"github.com/toshilabs/toshiref/internal/refdash/service"
	"github.com/toshilabs/toshiref/internal/refdash/store"
	"github.com/toshilabs/toshiref/internal/refdash/store/drivers/memory"
	"github.com/toshilabs/toshiref/internal/refdash/store/drivers/redis"
	"github.com/toshilabs/toshiref/internal/refdash/store/drivers/sqlite"
	"github.com/toshilabs/toshiref/internal/refdash/telegram"
	"github.com/toshilabs/toshiref/pkg/cryptox"
	"github.com/toshilabs/toshiref/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

const startupTimeout = 10 * time.Second

// Application encapsulates the referral dashboard backend with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	pending store.PendingAuthorizations
	hasher  *cryptox.SecretHasher
	bot     *tgbotapi.BotAPI

	// Services
	broker              *service.Broker
	sessionService      *service.SessionService
	dashboardService    *service.DashboardService
	settingsService     *service.SettingsService
	housekeepingService *service.HousekeepingService
	dispatcher          *service.Dispatcher
	approver            *telegram.Approver

	// Approver long-poll loop
	approverCancel context.CancelFunc
	approverDone   sync.WaitGroup

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "refdash",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewSecretHasher(pepper)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initPending(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initServices(); err != nil {
		app.closeStores()
		return nil, err
	}
	if err := app.startupChecks(); err != nil {
		app.closeStores()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.dispatcher.Start()
	app.housekeepingService.Start()

	if app.approver != nil {
		ctx, cancel := context.WithCancel(context.Background())
		app.approverCancel = cancel
		app.approverDone.Add(1)
		go func() {
			defer app.approverDone.Done()
			app.approver.Run(ctx)
		}()
	}

	app.logger.Info("refdash starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"pending_store", app.cfg.PendingStore,
		"telegram", app.approver != nil,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.stopWorkers()
			app.closeStores()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down refdash...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.stopWorkers()

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("refdash stopped")
	return nil
}

// stopWorkers stops intake before draining the event queue so the last
// decisions still reach the approver chat.
func (app *Application) stopWorkers() {
	if app.approverCancel != nil {
		app.approverCancel()
		app.approverDone.Wait()
	}
	app.housekeepingService.Stop()
	app.dispatcher.Stop()
}

func (app *Application) closeStores() error {
	var errs []error
	if app.pending != nil {
		if err := app.pending.Close(); err != nil {
			app.logger.Error("error closing pending store", "error", err)
			errs = append(errs, err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initPending selects the pending authorization table driver.
func (app *Application) initPending() error {
	switch app.cfg.PendingStore {
	case PendingStoreRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
		})
		app.pending = redis.NewPendingTable(client, redis.DefaultPrefix, app.cfg.DecidedRetention)
	default:
		app.pending = memory.NewPendingTable(app.cfg.DecidedRetention)
	}
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	keys, err := service.NewKeyValidator(service.KeyValidatorConfig{
		SharedKey:     app.cfg.SharedKey,
		SharedKeyHash: app.cfg.SharedKeyHash,
		TOTPSecret:    app.cfg.TOTPSecret,
		Hasher:        app.hasher,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize key validator: %w", err)
	}
	if keys.RequiresOTP() {
		app.logger.Info("one-time codes required on sign-in")
	}

	app.sessionService = &service.SessionService{
		Store:        app.db,
		Hasher:       app.hasher,
		TTL:          app.cfg.SessionTTL,
		ReferralLink: app.cfg.ReferralLink,
	}
	app.dashboardService = &service.DashboardService{Store: app.db}
	app.settingsService = &service.SettingsService{
		Store:    app.db,
		Writable: app.cfg.SettingsWritable,
	}

	app.broker = &service.Broker{
		Keys:     keys,
		Pending:  app.pending,
		Sessions: app.sessionService,
		CodeTTL:  app.cfg.CodeTTL,
	}

	var notifiers []service.Notifier
	if app.cfg.TelegramBotToken != "" {
		// NewBotAPI calls getMe, which doubles as the token check.
		bot, err := tgbotapi.NewBotAPI(app.cfg.TelegramBotToken)
		if err != nil {
			return fmt.Errorf("failed to connect to telegram: %w", err)
		}
		app.bot = bot
		app.logger.Info("telegram bot connected", "username", bot.Self.UserName)

		app.approver, err = telegram.NewApprover(bot, app.broker, app.logger, telegram.Config{
			ChatID: app.cfg.TelegramApproverChatID,
		})
		if err != nil {
			return err
		}
		notifiers = append(notifiers, app.approver)
	}

	audit, err := app.initAudit()
	if err != nil {
		return err
	}
	if audit.Len() > 0 {
		notifiers = append(notifiers, audit)
	}

	app.dispatcher = service.NewDispatcher(app.logger, 0, 0, notifiers...)
	app.broker.Events = app.dispatcher

	app.housekeepingService = service.NewHousekeepingService(
		app.pending,
		app.sessionService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initAudit builds the audit sinks. Records never carry the code itself.
func (app *Application) initAudit() (*notify.MultiNotifier, error) {
	var sinks []notify.Notifier

	if app.cfg.AuditWebhookURL != "" {
		wh, err := notify.NewWebhookNotifier(notify.WebhookConfig{URL: app.cfg.AuditWebhookURL})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audit webhook: %w", err)
		}
		sinks = append(sinks, wh)
	}

	if app.cfg.AuditSNSTopicARN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		sns, err := notify.NewSNSNotifier(ctx, app.cfg.AuditSNSTopicARN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audit SNS: %w", err)
		}
		sinks = append(sinks, sns)
	}

	if len(sinks) > 0 {
		app.logger.Info("audit notifiers enabled", "count", len(sinks))
	}
	return notify.NewMultiNotifier(sinks...), nil
}

// startupChecks fails fast when a backing store is unreachable.
func (app *Application) startupChecks() error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := app.db.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if _, err := app.pending.Len(ctx); err != nil {
		return fmt.Errorf("pending store unreachable: %w", err)
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.pending, app.logger)

	// Wire services to router
	router.Broker = app.broker
	router.SessionService = app.sessionService
	router.DashboardService = app.dashboardService
	router.SettingsService = app.settingsService
	router.ApproverToken = app.cfg.ApproverToken
	router.CORSOrigins = app.cfg.CORSAllowedOrigins
	router.StaticDir = app.staticDir()
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// staticDir disables SPA hosting when the build output is missing, so the
// API still runs in development.
func (app *Application) staticDir() string {
	dir := app.cfg.StaticDir
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		app.logger.Warn("static directory not found, dashboard not served", "dir", dir)
		return ""
	}
	return dir
}
