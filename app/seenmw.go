package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type SeenToucher interface {
	TouchProfileSeen(ctx context.Context, id string) error
}

// TouchLastSeen 每个 profile 在 throttle 窗口内最多写一次 last_seen_at
func TouchLastSeen(repo SeenToucher, rdb *redis.Client, throttle time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		pid := c.GetString(ctxProfileID)
		if pid == "" {
			c.Next()
			return
		}

		key := "dash:lastseen:" + pid
		if ok, _ := rdb.SetNX(c.Request.Context(), key, "1", throttle).Result(); ok {
			_ = repo.TouchProfileSeen(c.Request.Context(), pid) // 忽略错误，不阻塞请求
		}
		c.Next()
	}
}
