package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hudumahub/hudumahub/internal/api"
	"github.com/hudumahub/hudumahub/internal/app"
	"github.com/hudumahub/hudumahub/internal/app/maintenance"
	iauth "github.com/hudumahub/hudumahub/internal/auth"
	"github.com/hudumahub/hudumahub/internal/chat"
	"github.com/hudumahub/hudumahub/internal/database"
	"github.com/hudumahub/hudumahub/internal/services"
	"github.com/hudumahub/hudumahub/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("hudumahub-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to configuration directory or file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadApplicationConfig(configPath)
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("bootstrap")

	cfg.Auth.JWT.Secret = strings.TrimSpace(cfg.Auth.JWT.Secret)
	if cfg.Auth.JWT.Secret == "" {
		return errors.New("auth.jwt.secret must be configured")
	}

	db, err := initialiseDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db, log)

	jwtService, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         cfg.Auth.JWT.Secret,
		Issuer:         cfg.Auth.JWT.Issuer,
		AccessTokenTTL: cfg.Auth.JWT.TTL,
	})
	if err != nil {
		return fmt.Errorf("initialise jwt service: %w", err)
	}

	svc, err := buildServices(db)
	if err != nil {
		return err
	}

	if cfg.Maintenance.Enabled {
		cleaner := maintenance.NewCleaner(db,
			maintenance.WithNotificationRetentionDays(cfg.Maintenance.NotificationRetention),
			maintenance.WithActivityRetentionDays(cfg.Maintenance.ActivityRetention),
			maintenance.WithSchedule(cfg.Maintenance.Schedule),
		)
		if err := cleaner.Start(); err != nil {
			return fmt.Errorf("start maintenance jobs: %w", err)
		}
		defer func() {
			stopCtx := cleaner.Stop()
			if err := cleaner.RunOnce(stopCtx); err != nil {
				log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
			}
		}()
	}

	hub := chat.NewHub()

	router, err := api.NewRouter(db, jwtService, hub, svc)
	if err != nil {
		return fmt.Errorf("build api router: %w", err)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	if err, ok := <-serverErr; ok && err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

func buildServices(db *gorm.DB) (api.Services, error) {
	users, err := services.NewUserService(db)
	if err != nil {
		return api.Services{}, fmt.Errorf("initialise user service: %w", err)
	}
	conversations, err := services.NewConversationService(db)
	if err != nil {
		return api.Services{}, fmt.Errorf("initialise conversation service: %w", err)
	}
	notifications, err := services.NewNotificationService(db)
	if err != nil {
		return api.Services{}, fmt.Errorf("initialise notification service: %w", err)
	}
	messages, err := services.NewMessageService(db, conversations, notifications)
	if err != nil {
		return api.Services{}, fmt.Errorf("initialise message service: %w", err)
	}
	providers, err := services.NewProviderService(db)
	if err != nil {
		return api.Services{}, fmt.Errorf("initialise provider service: %w", err)
	}
	discovery, err := services.NewDiscoveryService(db)
	if err != nil {
		return api.Services{}, fmt.Errorf("initialise discovery service: %w", err)
	}
	reviews, err := services.NewReviewService(db)
	if err != nil {
		return api.Services{}, fmt.Errorf("initialise review service: %w", err)
	}
	sectors, err := services.NewSectorService(db)
	if err != nil {
		return api.Services{}, fmt.Errorf("initialise sector service: %w", err)
	}
	bookings, err := services.NewBookingService(db)
	if err != nil {
		return api.Services{}, fmt.Errorf("initialise booking service: %w", err)
	}
	favorites, err := services.NewFavoriteService(db)
	if err != nil {
		return api.Services{}, fmt.Errorf("initialise favorite service: %w", err)
	}
	reports, err := services.NewReportService(db)
	if err != nil {
		return api.Services{}, fmt.Errorf("initialise report service: %w", err)
	}

	return api.Services{
		Users:         users,
		Conversations: conversations,
		Messages:      messages,
		Notifications: notifications,
		Providers:     providers,
		Discovery:     discovery,
		Reviews:       reviews,
		Sectors:       sectors,
		Bookings:      bookings,
		Favorites:     favorites,
		Reports:       reports,
	}, nil
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	db, err := database.Open(databaseConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func databaseConfig(cfg *app.Config) database.Config {
	out := database.Config{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Database.Driver)) {
	case "postgres", "postgresql":
		out.Host = cfg.Database.Postgres.Host
		out.Port = cfg.Database.Postgres.Port
		out.Name = cfg.Database.Postgres.Database
		out.User = cfg.Database.Postgres.Username
		out.Password = cfg.Database.Postgres.Password
	case "mysql":
		out.Host = cfg.Database.MySQL.Host
		out.Port = cfg.Database.MySQL.Port
		out.Name = cfg.Database.MySQL.Database
		out.User = cfg.Database.MySQL.Username
		out.Password = cfg.Database.MySQL.Password
	}

	return out
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("acquire database handle for close", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("close database", zap.Error(err))
	}
}

func loadApplicationConfig(path string) (*app.Config, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return app.LoadConfig()
	default:
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return app.LoadConfig(path)
			}
			return app.LoadConfig(filepath.Dir(path))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}
