// controllers/srv.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"Gin_postgres_redis_division_inventory/access"
	"Gin_postgres_redis_division_inventory/app"
	"Gin_postgres_redis_division_inventory/db"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Srv struct {
	App *app.App
}

func GetSrv(a *app.App) *Srv { return &Srv{App: a} }

// GET /healthz Postgres 与 Redis 都可达才算健康
func (s *Srv) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := app.H{"postgres": "ok", "redis": "ok"}
	healthy := true
	if sqlDB, err := s.App.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["postgres"] = "unreachable"
		healthy = false
	}
	if err := s.App.RDB.Ping(ctx).Err(); err != nil {
		checks["redis"] = "unreachable"
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, app.H{"ok": healthy, "checks": checks})
}

// --- helpers ---

// 统一设置业务会话 Cookie；maxAge<0 表示删除
func setSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration, secure bool) {
	age := int(maxAge / time.Second)
	if maxAge < 0 {
		age = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     app.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   age,
	})
}

// mustViewer AuthRequired 之后才会失败于编程错误
func mustViewer(c *gin.Context) (access.Viewer, bool) {
	v, ok := app.CurrentViewer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
	}
	return v, ok
}

// writeError 业务错误 → HTTP 状态码
func writeError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, access.ErrOutOfScope):
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
	case errors.Is(err, db.ErrRequestNotFound), errors.Is(err, db.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrNotPending):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrBadDecision):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	default:
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", app.RequestIDOf(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
	}
}
