package routes

import (
	"log"

	"rxplain/config"
	"rxplain/controllers"
	"rxplain/middlewares"
	"rxplain/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	// Shared stateful services
	hub := services.NewRealtimeHub()
	push, err := services.NewPushService(config.DB)
	if err != nil {
		log.Fatalf("push service init failed: %v", err)
	}
	services.InitAlertDeps(config.DB, hub, push)

	ocr, err := services.NewOCRService()
	if err != nil {
		log.Fatalf("OCR service init failed: %v", err)
	}

	docSvc := services.NewDocumentService(ocr, services.NewExtractionService())
	interactionSvc := services.NewInteractionService()
	scheduleSvc := services.NewScheduleService(services.NewHTTPPlanner())
	reportSvc := services.NewReportService(
		services.NewReportCache(services.NewMemoryStore(), services.DefaultReportTTL),
		scheduleSvc,
		interactionSvc,
	)

	docCtl := controllers.NewDocumentController(docSvc, reportSvc)
	interactionCtl := controllers.NewInteractionController(interactionSvc, reportSvc)
	scheduleCtl := controllers.NewScheduleController(scheduleSvc, reportSvc)
	reportCtl := controllers.NewReportController(reportSvc)
	deviceCtl := controllers.NewDeviceController(push)
	realtimeCtl := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-mfa", controllers.VerifyMFA)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Protected routes
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/documents", docCtl.Upload)
		api.GET("/documents", docCtl.List)
		api.DELETE("/documents/:id", docCtl.Delete)

		api.GET("/medications", controllers.ListMedications)

		api.POST("/interactions/check", interactionCtl.Check)
		api.GET("/interactions", interactionCtl.History)

		api.POST("/schedules", scheduleCtl.Create)
		api.GET("/schedules", scheduleCtl.List)
		api.GET("/schedules/:id", scheduleCtl.Get)
		api.PATCH("/schedules/:id", scheduleCtl.Update)
		api.POST("/schedules/:id/activate", scheduleCtl.Activate)
		api.DELETE("/schedules/:id", scheduleCtl.Delete)

		api.GET("/reports/current", reportCtl.Current)
		api.DELETE("/reports/cache", reportCtl.InvalidateCache)

		api.POST("/devices", deviceCtl.Register)
		api.GET("/ws/alerts", realtimeCtl.AlertsWS)
	}

	return r
}
