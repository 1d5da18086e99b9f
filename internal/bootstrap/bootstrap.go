package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/sanghoon/clubhub/internal/app/controllers"
	appMigrations "github.com/sanghoon/clubhub/internal/app/migrations"
	appRepos "github.com/sanghoon/clubhub/internal/app/repositories"
	appRoutes "github.com/sanghoon/clubhub/internal/app/routes"
	appServices "github.com/sanghoon/clubhub/internal/app/services"
	"github.com/sanghoon/clubhub/internal/config"
	"github.com/sanghoon/clubhub/internal/db"
	appMiddleware "github.com/sanghoon/clubhub/internal/middleware"
	pkgAuth "github.com/sanghoon/clubhub/internal/pkg/auth"
	"github.com/sanghoon/clubhub/internal/pkg/filestorage"
	"github.com/sanghoon/clubhub/internal/pkg/helpers"
	"github.com/sanghoon/clubhub/internal/pkg/logger"
	"github.com/sanghoon/clubhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	AuthController *appControllers.AuthController
	ClubController *appControllers.ClubController
	FileController *appControllers.FileController
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if fromEnv := os.Getenv("CONFIG_PATH"); fromEnv != "" {
		configPath = fromEnv
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds development data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(dbPool)
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	repos := appRepos.NewRepositories(dbPool)

	if removed, err := repos.TokenRepository.CleanupExpiredTokens(context.Background()); err != nil {
		// Stale tokens are harmless; they just accumulate until the next start.
		lgr.Warn().Err(err).Msg("Failed to clean up expired refresh tokens")
	} else if removed > 0 {
		lgr.Info().Int64("removed", removed).Msg("Expired refresh tokens cleaned up")
	}

	if cfg.Server.Mode == "development" {
		seeder := seed.NewSeeder(repos)
		if err := seeder.Run(context.Background()); err != nil {
			// Seed failures are not fatal; the schema is already in place.
			lgr.Error().Err(err).Msg("Failed to seed default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	deps.FileStorage = storage

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 0),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 0),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, storage, cfg)

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService, lgr)
	deps.ClubController = appControllers.NewClubController(deps.Services.ClubService, lgr)
	deps.FileController = appControllers.NewFileController(deps.Services.FileService, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	return deps, nil
}

// SetupRouter builds the gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.ResponseEnvelope())

	appRoutes.SetupRouter(router,
		deps.AuthController, deps.ClubController, deps.FileController, deps.AuthMiddleware)

	// Serve stored uploads directly; file URLs are built from Server.BaseURL.
	router.Static("/media", cfg.Server.StoragePath)

	return router
}
