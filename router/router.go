package router

import (
	"time"

	"ledger/api"
	"ledger/config"
	_ "ledger/docs"
	"ledger/middleware"
	"ledger/repository"
	"ledger/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 设置路由并装配各层依赖
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// 仓储层
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	resetRepo := repository.NewPasswordResetRepository(db)

	// 服务层
	authService := service.NewAuthService(userRepo, resetRepo, cfg)
	categoryService := service.NewCategoryService(categoryRepo)
	expenseService := service.NewExpenseService(expenseRepo, categoryRepo)
	goalService := service.NewGoalService(goalRepo, expenseRepo)
	reportService := service.NewReportService(expenseRepo, categoryRepo)

	// 处理器
	authHandler := api.NewAuthHandler(authService)
	categoryHandler := api.NewCategoryHandler(categoryService)
	expenseHandler := api.NewExpenseHandler(expenseService)
	goalHandler := api.NewGoalHandler(goalService)
	reportHandler := api.NewReportHandler(reportService)
	exportHandler := api.NewExportHandler(expenseService, categoryService)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录，登录接口限流防暴力破解）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)
			auth.POST("/forgot-password", middleware.LoginRateLimit(5, time.Minute), authHandler.ForgotPassword)
			auth.POST("/verify-reset-code", authHandler.VerifyResetCode)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}

		// 需要登录的接口
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(userRepo))
		{
			// 账号
			authorized.GET("/auth/profile", authHandler.Profile)
			authorized.PUT("/auth/profile", authHandler.UpdateProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)
			authorized.DELETE("/auth/account", authHandler.DeleteAccount)

			// 消费类别
			authorized.GET("/categories", categoryHandler.List)
			authorized.POST("/categories", categoryHandler.Create)
			authorized.GET("/categories/:id", categoryHandler.Get)
			authorized.PUT("/categories/:id", categoryHandler.Update)
			authorized.DELETE("/categories/:id", categoryHandler.Delete)

			// 消费记录
			authorized.GET("/expenses", expenseHandler.List)
			authorized.POST("/expenses", expenseHandler.Create)
			authorized.GET("/expenses/:id", expenseHandler.Get)
			authorized.PUT("/expenses/:id", expenseHandler.Update)
			authorized.DELETE("/expenses/:id", expenseHandler.Delete)

			// 消费目标
			authorized.POST("/goals", goalHandler.Set)
			authorized.GET("/goals/current", goalHandler.Current)
			authorized.GET("/goals/progress", goalHandler.Progress)
			authorized.PUT("/goals/:id", goalHandler.Update)
			authorized.DELETE("/goals/:id", goalHandler.Delete)

			// 报表与导出
			authorized.GET("/reports/monthly", reportHandler.Monthly)
			authorized.GET("/reports/summary", reportHandler.Summary)
			authorized.GET("/reports/breakdown", reportHandler.Breakdown)
			authorized.GET("/reports/top", reportHandler.Top)
			authorized.GET("/export/csv", exportHandler.ExportCSV)
			authorized.GET("/export/excel", exportHandler.ExportExcel)
		}
	}

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
