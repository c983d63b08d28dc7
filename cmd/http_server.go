package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	authPostgres "github.com/corpotravel/trip-management/internal/auth/postgres"
	"github.com/corpotravel/trip-management/internal/chatbot"
	"github.com/corpotravel/trip-management/internal/communication"
	commPostgres "github.com/corpotravel/trip-management/internal/communication/postgres"
	"github.com/corpotravel/trip-management/internal/core/events"
	"github.com/corpotravel/trip-management/internal/estimate"
	estimatePostgres "github.com/corpotravel/trip-management/internal/estimate/postgres"
	"github.com/corpotravel/trip-management/internal/estimate/rediscache"
	"github.com/corpotravel/trip-management/internal/expense"
	expensePostgres "github.com/corpotravel/trip-management/internal/expense/postgres"
	"github.com/corpotravel/trip-management/internal/extraction"
	"github.com/corpotravel/trip-management/internal/invitation"
	invitationPostgres "github.com/corpotravel/trip-management/internal/invitation/postgres"
	"github.com/corpotravel/trip-management/internal/storage"
	"github.com/corpotravel/trip-management/internal/transport/rest"
	"github.com/corpotravel/trip-management/internal/trip"
	tripPostgres "github.com/corpotravel/trip-management/internal/trip/postgres"
	"github.com/corpotravel/trip-management/internal/upload"
	"github.com/corpotravel/trip-management/internal/user"
	userPostgres "github.com/corpotravel/trip-management/internal/user/postgres"
	"github.com/corpotravel/trip-management/internal/visitor"
	visitorPostgres "github.com/corpotravel/trip-management/internal/visitor/postgres"
	"github.com/corpotravel/trip-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Pool   *extraction.Pool
	Router chi.Router
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.Pool.Shutdown()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
		if deps.Redis != nil {
			if err := deps.Redis.Close(); err != nil {
				deps.Logger.Error("redis close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	bus := events.NewEventBus(lg)

	authRepo := authPostgres.NewRepository(gormDB)
	tripRepo := tripPostgres.NewRepository(gormDB)
	expenseRepo := expensePostgres.NewRepository(gormDB)
	invitationRepo := invitationPostgres.NewRepository(gormDB)
	commRepo := commPostgres.NewRepository(gormDB)
	visitorRepo := visitorPostgres.NewRepository(gormDB)
	userRepo := userPostgres.NewRepository(gormDB)

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, cfg.Security.BCryptCost)

	tripService := trip.NewService(tripRepo, bus)
	expenseService := expense.NewService(expenseRepo, tripRepo, bus)
	invitationService := invitation.NewService(invitationRepo, tripRepo, authService, bus)
	commService := communication.NewService(commRepo, tripRepo)
	visitorService := visitor.NewService(visitorRepo, tripRepo, authRepo, commRepo)
	userService := user.NewService(userRepo)

	communication.NewSubscriber(commRepo).Register(bus)

	var cache estimate.CacheAPI
	if redisClient != nil {
		cache = rediscache.NewCache(redisClient, cfg.Redis.CacheTTL)
	}
	estimateService := estimate.NewService(estimatePostgres.NewHistory(db), cache)

	extractor := extraction.NewOpenAIExtractor(cfg.AI.APIKey, cfg.AI.Model)
	pool := extraction.NewPool(extractor, cfg.AI.MaxWorkers, cfg.AI.JobQueueSize, cfg.AI.RequestTimeout, lg)
	extractionService := extraction.NewService(pool)

	chatbotService := chatbot.NewService(openai.NewClient(cfg.AI.APIKey), cfg.AI.Model)

	uploader, err := storage.NewUploader(context.Background(), cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	handlers := rest.Handlers{
		Auth:          auth.NewHandler(authService),
		Trip:          trip.NewHandler(tripService),
		Expense:       expense.NewHandler(expenseService),
		Invitation:    invitation.NewHandler(invitationService),
		Communication: communication.NewHandler(commService),
		Visitor:       visitor.NewHandler(visitorService),
		Estimate:      estimate.NewHandler(estimateService),
		Extraction:    extraction.NewHandler(extractionService),
		Chatbot:       chatbot.NewHandler(chatbotService),
		Upload:        upload.NewHandler(uploader),
		User:          user.NewHandler(userService),
		Health:        rest.NewHealthHandler(lg, db, redisClient),
	}

	return &Dependencies{
		Config: cfg,
		Logger: lg,
		DB:     db,
		Redis:  redisClient,
		Pool:   pool,
		Router: rest.NewRouter(cfg, lg, handlers),
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
