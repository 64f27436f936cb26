package router

import (
	"time"

	"salon_crm_backend/internal/handlers"
	"salon_crm_backend/internal/middleware"
	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/internal/services"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Dependencies are the storage and infrastructure pieces the routes are built on.
type Dependencies struct {
	Customers     repositories.CustomerRepository
	Staff         repositories.StaffRepository
	Accounts      repositories.AccountRepository
	Pinger        repositories.Pinger
	Tokens        *utils.TokenManager
	Uploads       services.UploadService
	UploadDir     string
	Location      *time.Location
	Attribution   models.ServiceAttribution
	MaxReportDays int
	Backend       string
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	// Services
	authService := services.NewAuthService(deps.Accounts, deps.Tokens)
	customerService := services.NewCustomerService(deps.Customers)
	staffService := services.NewStaffService(deps.Staff)
	reportService := services.NewReportService(deps.Customers, deps.Location, deps.Attribution, deps.MaxReportDays)
	importExportService := services.NewImportExportService(deps.Customers, customerService, deps.Location)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	staffHandler := handlers.NewStaffHandler(staffService)
	reportHandler := handlers.NewReportHandler(reportService)
	importExportHandler := handlers.NewImportExportHandler(importExportService)
	uploadHandler := handlers.NewUploadHandler(deps.Uploads)
	healthHandler := handlers.NewHealthHandler(deps.Pinger, deps.Backend)

	engine.GET("/ping", handlers.Ping)
	if deps.UploadDir != "" {
		engine.Static("/uploads", deps.UploadDir)
	}

	apiV1 := engine.Group("/api/v1")
	SetupPublicRoutes(apiV1, authHandler, healthHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(authService))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupCustomerRoutes(authenticated, customerHandler)
		SetupStaffRoutes(authenticated, staffHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupImportExportRoutes(authenticated, importExportHandler)
		SetupUploadRoutes(authenticated, uploadHandler)
	}
}
