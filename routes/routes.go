package routes

import (
	"Gin_postgres_redis_division_inventory/app"
	"Gin_postgres_redis_division_inventory/controllers"
	"Gin_postgres_redis_division_inventory/metrics"
	"Gin_postgres_redis_division_inventory/models"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	log := a.Logger
	authCtl := controllers.NewAuthController(a.Auth, a.Config.SecureCookies(), log)
	dashCtl := controllers.NewDashboardController(a.Repo, a.Notifier, log)
	invCtl := controllers.NewInventoryController(a.Repo, log)
	reqCtl := controllers.NewRequestController(a.Repo, log)
	actCtl := controllers.NewActivityController(a.Repo, log)
	profCtl := controllers.NewProfileController(a.Repo, a.Sessions, log)

	// 复用的中间件
	authMW := app.AuthRequired(a.Auth)
	seenMW := app.TouchLastSeen(a.Repo, a.RDB, a.Config.SeenThrottle)
	approverMW := app.RequireRole(models.RoleAdmin, models.RoleDivisionPersonnel)

	r.GET("/healthz", s.Healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ------------------------------
	// 登录 / 登出
	// ------------------------------
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/sign-in", authCtl.SignIn)
		authGroup.POST("/sign-out", authCtl.SignOut)
		authGroup.GET("/whoami", authMW, seenMW, authCtl.WhoAmI)
	}

	api := r.Group("/api", authMW, seenMW)
	{
		// 仪表盘：一次性快照 + SSE 实时
		api.GET("/dashboard", dashCtl.Get)
		api.GET("/dashboard/stream", dashCtl.Stream)

		api.GET("/inventory", invCtl.List)
		api.GET("/inventory/export", invCtl.Export)
		api.GET("/stats", invCtl.Stats)

		api.GET("/requests", reqCtl.List)
		api.POST("/requests/:id/approve", approverMW, reqCtl.Approve)
		api.POST("/requests/:id/reject", approverMW, reqCtl.Reject)

		api.GET("/activity", actCtl.List)
		api.POST("/activity", actCtl.Create)
	}

	// ------------------------------
	// 用户管理（仅管理员）
	// ------------------------------
	profiles := api.Group("/profiles", app.AdminOnly())
	{
		profiles.GET("", profCtl.ListProfiles) // ?q=&division=&page=&size=
		profiles.GET("/:id", profCtl.GetProfile)
		profiles.POST("/:id/revoke-sessions", profCtl.RevokeSessions)
	}
}
