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
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/minhvt/corporate-portal/internal"
	"github.com/minhvt/corporate-portal/internal/auth"
	authPostgres "github.com/minhvt/corporate-portal/internal/auth/postgres"
	"github.com/minhvt/corporate-portal/internal/employee"
	employeePostgres "github.com/minhvt/corporate-portal/internal/employee/postgres"
	"github.com/minhvt/corporate-portal/internal/news"
	newsPostgres "github.com/minhvt/corporate-portal/internal/news/postgres"
	"github.com/minhvt/corporate-portal/internal/permission"
	permissionPostgres "github.com/minhvt/corporate-portal/internal/permission/postgres"
	"github.com/minhvt/corporate-portal/internal/transport/middleware"
	"github.com/minhvt/corporate-portal/internal/transport/rest"
	"github.com/minhvt/corporate-portal/internal/transport/swagger"
	"github.com/minhvt/corporate-portal/pkg/logger"
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
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	authRepo := authPostgres.NewRepository(deps.Gorm)
	authService := auth.NewService(authRepo, deps.Logger,
		deps.Config.Security.BCryptCost, deps.Config.Security.LegacyPlaintext)
	sessionCodec := auth.NewSessionCodec(deps.Config.Security.SessionSecret,
		deps.Config.Security.SessionTTL, authService)
	authHandler := auth.NewHandler(authService, sessionCodec,
		deps.Config.Security.SecureCookies, deps.Config.Security.SessionTTL)

	permissionRepo := permissionPostgres.NewRepository(deps.Gorm)
	permissionService := permission.NewService(permissionRepo, deps.Logger)
	permissionHandler := permission.NewHandler(permissionService)

	guard := middleware.NewGuard(permissionService, deps.Logger)

	employeeRepo := employeePostgres.NewRepository(deps.Gorm)
	employeeService := employee.NewService(employeeRepo)
	employeeHandler := employee.NewHandler(employeeService)

	newsRepo := newsPostgres.NewRepository(deps.Gorm)
	newsService := news.NewService(newsRepo, deps.Logger)
	newsHandler := news.NewHandler(newsService)

	if err := swagger.ValidateSpec(context.Background(), "./api/openapi.yml"); err != nil {
		deps.Logger.Warn("OpenAPI spec validation failed", "error", err)
	}

	deps.Router.Use(middleware.LoggingMiddleware(deps.Logger))

	rest.RegisterAllRoutes(deps.Router, deps.DB, authHandler, sessionCodec, guard,
		permissionHandler, employeeHandler, newsHandler, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
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

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
