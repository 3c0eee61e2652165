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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wicaksana/internal-portal/internal"
	"github.com/wicaksana/internal-portal/internal/auth"
	authPostgres "github.com/wicaksana/internal-portal/internal/auth/postgres"
	"github.com/wicaksana/internal-portal/internal/core/events"
	"github.com/wicaksana/internal-portal/internal/directory"
	"github.com/wicaksana/internal-portal/internal/directory/bubble"
	directoryPostgres "github.com/wicaksana/internal-portal/internal/directory/postgres"
	"github.com/wicaksana/internal-portal/internal/document"
	documentPostgres "github.com/wicaksana/internal-portal/internal/document/postgres"
	"github.com/wicaksana/internal-portal/internal/notification"
	"github.com/wicaksana/internal-portal/internal/permission"
	permissionPostgres "github.com/wicaksana/internal-portal/internal/permission/postgres"
	"github.com/wicaksana/internal-portal/internal/transport"
	"github.com/wicaksana/internal-portal/internal/transport/middleware"
	"github.com/wicaksana/internal-portal/internal/transport/rest"
	"github.com/wicaksana/internal-portal/internal/transport/swagger"
	"github.com/wicaksana/internal-portal/internal/user"
	userPostgres "github.com/wicaksana/internal-portal/internal/user/postgres"
	"github.com/wicaksana/internal-portal/pkg/logger"
	"github.com/wicaksana/internal-portal/pkg/mailer"
	"github.com/wicaksana/internal-portal/pkg/storage"
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
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
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
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
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
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	log := logger.L()

	ctx := context.Background()

	if err := swagger.ValidateSpec(ctx, "./api/openapi.yml"); err != nil {
		return nil, err
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ORM: %w", err)
	}

	store, err := storage.NewS3Storage(ctx, storage.S3Config{
		Bucket:         config.Storage.Bucket,
		Region:         config.Storage.Region,
		AccessKeyID:    config.Storage.AccessKeyID,
		SecretKey:      config.Storage.SecretKey,
		Endpoint:       config.Storage.Endpoint,
		BaseURL:        config.Storage.BaseURL,
		ForcePathStyle: config.Storage.ForcePathStyle,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	var sender mailer.Sender
	if config.Mailer.DevMode {
		sender = mailer.NewDevSender(log)
	} else {
		sender, err = mailer.NewPostmarkSender(mailer.Config{
			ServerToken:  config.Mailer.ServerToken,
			AccountToken: config.Mailer.AccountToken,
			SenderEmail:  config.Mailer.SenderEmail,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mailer: %w", err)
		}
	}

	bubbleClient, err := bubble.NewClient(bubble.Config{
		BaseURL:        config.Sync.BubbleBaseURL,
		APIToken:       config.Sync.BubbleAPIToken,
		PageSize:       config.Sync.PageSize,
		RequestTimeout: config.Sync.RequestTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize directory client: %w", err)
	}

	bus := events.NewEventBus(log)

	// repositories
	authRepo := authPostgres.NewRepository(gormDB)
	permissionRepo := permissionPostgres.NewRepository(gormDB)
	userRepo := userPostgres.NewRepository(gormDB)
	documentRepo := documentPostgres.NewRepository(gormDB)
	employeeRepo := directoryPostgres.NewRepository(gormDB)

	// services
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost)
	permissionService := permission.NewService(permissionRepo, bus, log)
	userService := user.NewService(userRepo, bus, config.Security.BCryptCost, log)
	documentService := document.NewService(documentRepo, store, permissionService, bus, config.Storage.MaxUploadBytes, log)
	directoryService := directory.NewService(employeeRepo, bubbleClient, permissionService, bus, log)

	// mail side effects ride the event bus
	notification.NewNotifier(sender, userService, log).Register(bus)

	// handlers
	baseHandler := transport.NewBaseHandler(log)
	handlers := rest.Handlers{
		Auth:       auth.NewHandler(authService),
		User:       user.NewHandler(userService, permissionService, log),
		Permission: permission.NewHandler(baseHandler, permissionService),
		Document:   document.NewHandler(documentService, config.Storage.MaxUploadBytes, log),
		Directory:  directory.NewHandler(directoryService, log),
	}
	authorizer := middleware.NewAreaAuthorizer(permissionService, log)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, handlers, authorizer, config.Server.AllowedOrigins, log)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: log,
	}, nil
}

// initDB opens the shared connection pool through the pgx stdlib driver.
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
