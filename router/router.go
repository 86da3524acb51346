package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mesaja/seating/config"
	"github.com/mesaja/seating/controllers"
	"github.com/mesaja/seating/hub"
	"github.com/mesaja/seating/metrics"
	"github.com/mesaja/seating/middlewares"
	"github.com/mesaja/seating/notify"
	"github.com/mesaja/seating/services"
	"github.com/mesaja/seating/utils"
)

func SetupRouter(cfg *config.Config, db *gorm.DB, emitter *notify.Emitter, activity *hub.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		utils.ErrorLogger.Warnf("Ignoring trusted proxies %v: %v", cfg.Server.TrustedProxies, err)
	}

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.Server.AllowedOrigins))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(metrics.Middleware())

	// Services
	store := services.NewStore(db, emitter)
	queueSvc := services.NewQueueService(store)
	tableSvc := services.NewTableService(store)
	allocSvc := services.NewAllocationService(store)

	// Controllers
	queueCtrl := controllers.NewQueueController(queueSvc, allocSvc)
	tableCtrl := controllers.NewTableController(tableSvc, allocSvc)
	notificationCtrl := controllers.NewNotificationController(emitter.Feed())
	reportCtrl := controllers.NewReportController(services.NewReportService(db))
	waiterCtrl := controllers.NewWaiterController(services.NewStaffService(store))
	promotionCtrl := controllers.NewPromotionController(services.NewPromotionService(store))
	activityCtrl := controllers.NewActivityController(activity, cfg.Server.AllowedOrigins)
	authCtrl := controllers.NewAuthController()

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	intake := middlewares.NewRateLimiter(cfg.Intake.Rate, cfg.Intake.Burst)
	r.POST("/queue", intake.RateLimit(), queueCtrl.JoinQueue)
	r.GET("/queue", queueCtrl.GetWaitingQueue)

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	secret := []byte(cfg.JWTSecret)
	authEnabled := len(secret) > 0
	if !authEnabled {
		utils.ErrorLogger.Warn("JWT_SECRET is not set, staff routes are not protected")
	}

	staff := r.Group("/")
	manager := r.Group("/")
	ws := r.Group("/ws")
	if authEnabled {
		staff.Use(middlewares.StaffAuth(secret))
		manager.Use(middlewares.StaffAuth(secret), middlewares.RequireRole(middlewares.RoleManager))
		ws.Use(middlewares.WebSocketAuth(secret))
	}

	// AUTH
	staff.GET("/auth/me", authCtrl.Me)
	staff.POST("/auth/logout", authCtrl.Logout)

	// QUEUE
	staff.GET("/queue/history", queueCtrl.GetQueueHistory)
	staff.GET("/queue/:entry_id", queueCtrl.GetQueueEntry)
	staff.PUT("/queue/:entry_id", queueCtrl.UpdateQueueEntry)
	staff.PATCH("/queue/:entry_id", queueCtrl.UpdateQueueEntry)
	staff.POST("/queue/:entry_id/cancel", queueCtrl.CancelQueueEntry)
	staff.POST("/queue/serve-next", middlewares.AllocationLogger(), queueCtrl.ServeNext)

	// TABLES
	staff.GET("/tables", tableCtrl.GetAllTables)
	staff.GET("/tables/stats", tableCtrl.GetTableStats)
	staff.GET("/tables/:table_id", tableCtrl.GetTableByID)
	staff.PUT("/tables/:table_id", tableCtrl.UpdateTableStatus)
	staff.PATCH("/tables/:table_id", tableCtrl.UpdateTableStatus)
	staff.POST("/tables/:table_id/assign-next", middlewares.AllocationLogger(), tableCtrl.AssignNextParty)
	manager.POST("/tables", tableCtrl.CreateTable)
	manager.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	// NOTIFICATIONS & DASHBOARD
	staff.GET("/notifications", notificationCtrl.GetRecentNotifications)
	staff.GET("/metrics/dashboard", reportCtrl.GetDashboard)

	// REPORTS
	manager.GET("/reports/daily", reportCtrl.GetDailyReport)
	manager.GET("/reports/weekly", reportCtrl.GetWeeklyReport)
	manager.GET("/reports/range", reportCtrl.GetRangeReport)

	// WAITERS & MESSAGES
	staff.GET("/waiters", waiterCtrl.GetAllWaiters)
	staff.GET("/waiters/:waiter_id", waiterCtrl.GetWaiterByID)
	staff.GET("/waiters/by-telegram/:telegram_id", waiterCtrl.GetWaiterByTelegramID)
	staff.GET("/waiters/:waiter_id/messages", waiterCtrl.GetConversation)
	staff.POST("/waiters/:waiter_id/messages", waiterCtrl.SendMessage)
	staff.POST("/messages", waiterCtrl.RecordMessage)
	manager.POST("/waiters", waiterCtrl.CreateWaiter)
	manager.PUT("/waiters/:waiter_id", waiterCtrl.UpdateWaiter)
	manager.PATCH("/waiters/:waiter_id", waiterCtrl.UpdateWaiter)
	manager.DELETE("/waiters/:waiter_id", waiterCtrl.DeleteWaiter)

	// PROMOTIONS
	staff.GET("/promotions", promotionCtrl.GetAllPromotions)
	staff.GET("/promotions/:promotion_id", promotionCtrl.GetPromotionByID)
	manager.POST("/promotions", promotionCtrl.CreatePromotion)
	manager.PUT("/promotions/:promotion_id", promotionCtrl.UpdatePromotion)
	manager.PATCH("/promotions/:promotion_id", promotionCtrl.UpdatePromotion)
	manager.DELETE("/promotions/:promotion_id", promotionCtrl.DeletePromotion)

	// LIVE ACTIVITY
	ws.GET("/activity", activityCtrl.ActivityHandler)

	return r
}
