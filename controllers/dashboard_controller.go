package controllers

import (
	"context"
	"net/http"
	"time"

	"Gin_postgres_redis_division_inventory/dashboard"
	"Gin_postgres_redis_division_inventory/metrics"
	"Gin_postgres_redis_division_inventory/realtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardController struct {
	backend   dashboard.Backend
	sub       realtime.Subscriber
	log       *zap.Logger
	heartbeat time.Duration
}

func NewDashboardController(backend dashboard.Backend, sub realtime.Subscriber, log *zap.Logger) *DashboardController {
	return &DashboardController{backend: backend, sub: sub, log: log, heartbeat: 30 * time.Second}
}

// GET /api/dashboard?view=
func (dc *DashboardController) Get(c *gin.Context) {
	v, ok := mustViewer(c)
	if !ok {
		return
	}
	st := dashboard.New(dc.backend, v)
	defer st.Close()

	st.Load(c.Request.Context())
	c.JSON(http.StatusOK, st.Snapshot())
}

// GET /api/dashboard/stream?view=
// 首帧为完整快照，之后每次表变更重新拉取并推送新快照；断开即释放订阅
func (dc *DashboardController) Stream(c *gin.Context) {
	v, ok := mustViewer(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	st := dashboard.New(dc.backend, v)
	defer st.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	send := func(event string, data any) {
		c.SSEvent(event, data)
		c.Writer.Flush()
	}

	// 先订阅再加载，加载期间提交的变更留在订阅缓冲里
	subscription, err := st.Subscribe(ctx, dc.sub)
	if err != nil {
		dc.log.Warn("dashboard subscribe", zap.String("profile_id", v.ProfileID), zap.Error(err))
		st.Load(ctx)
		send("snapshot", st.Snapshot())
		send("error", gin.H{"error": "live updates unavailable"})
		return
	}
	st.Load(ctx)

	metrics.OpenStreams.Inc()
	defer metrics.OpenStreams.Dec()

	// 只保留最新一帧
	updates := make(chan dashboard.View, 1)
	push := func(view dashboard.View) {
		select {
		case <-updates:
		default:
		}
		updates <- view
	}
	send("snapshot", st.Snapshot())

	watchDone := make(chan error, 1)
	go func() { watchDone <- st.Run(ctx, subscription, push) }()

	heartbeat := time.NewTicker(dc.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case view := <-updates:
			send("snapshot", view)
		case err := <-watchDone:
			select {
			case view := <-updates:
				send("snapshot", view)
			default:
			}
			if err != nil {
				dc.log.Warn("dashboard watch", zap.String("profile_id", v.ProfileID), zap.Error(err))
				send("error", gin.H{"error": "live updates unavailable"})
			}
			return
		case <-heartbeat.C:
			_, _ = c.Writer.WriteString(": keepalive\n\n")
			c.Writer.Flush()
		}
	}
}
