package router

import (
	"salon_crm_backend/internal/handlers"
	"salon_crm_backend/internal/middleware"
	"salon_crm_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupPublicRoutes registers the routes that need no token.
func SetupPublicRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler, healthHandler *handlers.HealthHandler) {
	apiGroup.POST("/auth/login", authHandler.Login)
	apiGroup.GET("/health/db", healthHandler.CheckDatabase)
}

// SetupAuthenticatedAuthRoutes sets up the session routes.
func SetupAuthenticatedAuthRoutes(authGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authGroup.GET("/me", authHandler.GetCurrentUser)
	authGroup.POST("/logout", authHandler.Logout)
}

// SetupCustomerRoutes sets up the customer routes.
func SetupCustomerRoutes(authenticatedGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler) {
	customerRoutes := authenticatedGroup.Group("/customers")
	{
		customerRoutes.POST("", customerHandler.CreateCustomer)
		customerRoutes.GET("", customerHandler.GetCustomers)
		customerRoutes.POST("/bulk-delete", customerHandler.BulkDeleteCustomers)
		customerRoutes.GET("/:id", customerHandler.GetCustomerByID)
		customerRoutes.PUT("/:id", customerHandler.UpdateCustomer)
		customerRoutes.DELETE("/:id", customerHandler.DeleteCustomer)
	}
}

// SetupStaffRoutes sets up the staff routes. Reads are open to every role; writes need SUPERADMIN.
func SetupStaffRoutes(authenticatedGroup *gin.RouterGroup, staffHandler *handlers.StaffHandler) {
	staffRoutes := authenticatedGroup.Group("/staff")
	{
		staffRoutes.GET("", staffHandler.GetStaffMembers)
		staffRoutes.GET("/:id", staffHandler.GetStaffMemberByID)

		adminRoutes := staffRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleSuperAdmin))
		{
			adminRoutes.POST("", staffHandler.CreateStaffMember)
			adminRoutes.PUT("/:id", staffHandler.UpdateStaffMember)
			adminRoutes.DELETE("/:id", staffHandler.DeleteStaffMember)
		}
	}
}

// SetupReportRoutes sets up the report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	authenticatedGroup.GET("/reports", reportHandler.GetReport)
}

// SetupImportExportRoutes sets up spreadsheet import and export.
func SetupImportExportRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.ImportExportHandler) {
	authenticatedGroup.GET("/export", h.Export)
	authenticatedGroup.POST("/import", h.Import)
	authenticatedGroup.GET("/import/template", h.Template)
}

// SetupUploadRoutes sets up photo uploads.
func SetupUploadRoutes(authenticatedGroup *gin.RouterGroup, uploadHandler *handlers.UploadHandler) {
	authenticatedGroup.POST("/upload", uploadHandler.UploadPhoto)
}
