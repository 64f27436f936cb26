package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salon_crm_backend/internal/config"
	"salon_crm_backend/internal/database"
	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/internal/router"
	"salon_crm_backend/internal/services"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("info", "pretty")
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := buildDependencies(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize dependencies")
	}
	defer cleanup()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	router.Setup(engine, deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "backend": cfg.StorageBackend})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
	}
}

// buildDependencies selects the storage backend and prepares shared infrastructure.
func buildDependencies(ctx context.Context, cfg *config.Config) (router.Dependencies, func(), error) {
	cleanup := func() {}
	loc, err := cfg.Location()
	if err != nil {
		return router.Dependencies{}, cleanup, err
	}

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		return router.Dependencies{}, cleanup, err
	}

	configured := cfg.Accounts()
	if len(configured) == 0 {
		utils.LogWarn("No login accounts configured; set ADMIN_EMAIL/ADMIN_PASSWORD or RECEPTION_EMAIL/RECEPTION_PASSWORD")
	}
	seeds := make([]repositories.AccountSeed, 0, len(configured))
	for _, a := range configured {
		seeds = append(seeds, repositories.AccountSeed{Email: a.Email, Password: a.Password, Name: a.Name, Role: a.Role})
	}
	accounts, err := repositories.NewStaticAccountRepository(seeds, 0)
	if err != nil {
		return router.Dependencies{}, cleanup, err
	}

	uploads, err := services.NewUploadService(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		return router.Dependencies{}, cleanup, err
	}

	deps := router.Dependencies{
		Accounts:      accounts,
		Tokens:        tokens,
		Uploads:       uploads,
		UploadDir:     cfg.UploadDir,
		Location:      loc,
		Attribution:   cfg.Attribution(),
		MaxReportDays: cfg.ReportMaxDays,
		Backend:       cfg.StorageBackend,
	}

	switch cfg.StorageBackend {
	case config.BackendMemory:
		utils.LogWarn("Using in-memory storage; data is lost on restart")
		deps.Customers = repositories.NewMemoryCustomerRepository()
		staff, err := repositories.NewMemoryStaffRepository(repositories.SampleStaff()...)
		if err != nil {
			return router.Dependencies{}, cleanup, err
		}
		deps.Staff = staff
		deps.Pinger = repositories.NewMemoryPinger()
	default:
		db, err := database.Open(ctx, cfg)
		if err != nil {
			return router.Dependencies{}, cleanup, err
		}
		cleanup = func() {
			if err := db.Close(); err != nil {
				utils.LogError(err, "Failed to close database")
			}
		}
		deps.Customers = repositories.NewCustomerRepository(db)
		deps.Staff = repositories.NewStaffRepository(db)
		deps.Pinger = repositories.NewSQLPinger(db)
	}
	return deps, cleanup, nil
}
