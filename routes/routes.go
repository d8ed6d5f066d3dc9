package routes

import (
	"eschool_go/controllers"
	"eschool_go/middleware"
	"eschool_go/services"
	"eschool_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub, archiveService *services.ReportArchiveService) {
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	studentController := &controllers.StudentController{}
	scholarshipController := &controllers.ScholarshipController{}
	awardController := &controllers.StudentScholarshipController{}
	paymentController := &controllers.PaymentController{}
	importController := &controllers.PaymentsImportController{}
	notificationController := &controllers.NotificationController{}
	logController := &controllers.LogController{}
	reportController := controllers.NewReportController(archiveService)
	healthController := controllers.NewHealthController(services.NewHealthService("", ""))
	wsController := controllers.NewWebSocketController(wsHub)

	// API group
	api := app.Group("/api")

	// Health - public
	api.Get("/health", healthController.GetHealthStatus)

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	protected.Post("/auth/logout", authController.Logout)

	// User management routes
	users := protected.Group("/users")
	users.Get("/", middleware.RequireStaff(), userController.GetUsers)
	users.Get("/:id", middleware.RequireStaff(), userController.GetUser)
	users.Post("/", middleware.RequireAdmin(), authController.Register)
	users.Put("/:id", middleware.RequireAdmin(), userController.UpdateUser)
	users.Delete("/:id", middleware.RequireAdmin(), userController.DeleteUser)
	users.Post("/:id/avatar", userController.UploadAvatar)

	// Student management routes
	students := protected.Group("/students")
	students.Get("/", middleware.RequireStaff(), studentController.GetStudents)
	students.Post("/", middleware.RequireStaff(), studentController.CreateStudent)
	students.Get("/:id", studentController.GetStudent)
	students.Put("/:id", middleware.RequireStaff(), studentController.UpdateStudent)
	students.Delete("/:id", middleware.RequireAdmin(), studentController.DeleteStudent)

	// Per-student finance views (students and parents see their own)
	students.Get("/:id/scholarships", awardController.GetStudentAwards)
	students.Get("/:id/payments", paymentController.GetStudentPayments)
	students.Get("/:id/payments/summary", paymentController.GetStudentPaymentSummary)

	// Scholarship catalog routes
	scholarships := protected.Group("/scholarships")
	scholarships.Get("/", scholarshipController.GetScholarships)
	scholarships.Get("/:id", scholarshipController.GetScholarship)
	scholarships.Post("/", middleware.RequireFinanceStaff(), scholarshipController.CreateScholarship)
	scholarships.Put("/:id", middleware.RequireFinanceStaff(), scholarshipController.UpdateScholarship)
	scholarships.Delete("/:id", middleware.RequireFinanceStaff(), scholarshipController.DeleteScholarship)

	// Award routes
	awards := protected.Group("/student-scholarships")
	awards.Get("/", middleware.RequireFinanceStaff(), awardController.GetAwards)
	awards.Post("/", middleware.RequireFinanceStaff(), awardController.CreateAward)
	awards.Put("/:id", middleware.RequireFinanceStaff(), awardController.UpdateAward)
	awards.Delete("/:id", middleware.RequireFinanceStaff(), awardController.DeleteAward)

	// Payment routes
	payments := protected.Group("/payments")
	payments.Get("/", middleware.RequireFinanceStaff(), paymentController.GetPayments)
	payments.Post("/", middleware.RequireFinanceStaff(), paymentController.CreatePayment)
	payments.Get("/:id", paymentController.GetPayment)
	payments.Post("/:id/pay", middleware.RequireFinanceStaff(), paymentController.RecordPayment)
	payments.Post("/:id/receipt", middleware.RequireFinanceStaff(), paymentController.UploadReceipt)
	payments.Delete("/:id", middleware.RequireAdmin(), paymentController.DeletePayment)

	// Fee schedule import
	protected.Post("/import/payments", middleware.RequireFinanceStaff(), importController.Import)

	// Reports and exports
	reports := protected.Group("/reports", middleware.RequireFinanceStaff())
	reports.Get("/financial-summary", reportController.GetFinancialSummary)
	reports.Get("/archives", reportController.GetArchives)
	reports.Get("/archives/:id/download", reportController.DownloadArchive)
	reports.Post("/ledger-export", middleware.RequireAdmin(), reportController.ExportLedger)
	reports.Post("/overdue-sweep", middleware.RequireAdmin(), reportController.RunOverdueSweep)

	// Notification management routes
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Post("/", middleware.RequireStaff(), notificationController.CreateNotification)
	notifications.Patch("/mark-all-read", notificationController.MarkAllAsRead)
	notifications.Patch("/:id/read", notificationController.MarkAsRead)

	// Log management routes (admin only)
	logs := protected.Group("/logs", middleware.RequireAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Get("/:id", logController.GetLog)
	logs.Post("/flush-cache", logController.FlushCachedLogs)

	// WebSocket routes
	ws := protected.Group("/ws")
	ws.Get("/stats", middleware.RequireAdmin(), wsController.GetWebSocketStats)

	// WebSocket connection endpoint
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", wsController.WebSocketHandler())
}
