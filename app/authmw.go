package app

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"Gin_postgres_redis_division_inventory/access"
	"Gin_postgres_redis_division_inventory/auth"
	"Gin_postgres_redis_division_inventory/models"

	"github.com/gin-gonic/gin"
)

const SessionCookie = "dash_session"

const (
	ctxRequestID = "requestID"
	ctxProfileID = "profileID"
	ctxProfile   = "profile"
)

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, *models.Profile, error)
}

// TokenFromRequest cookie 优先，其次 Bearer，最后 ?token=（EventSource 无法带 header）
func TokenFromRequest(c *gin.Context) string {
	if ck, err := c.Request.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	if h := c.GetHeader("Authorization"); h != "" {
		if parts := strings.SplitN(h, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Query("token")
}

func AuthRequired(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		_, p, err := v.Verify(c.Request.Context(), token)
		if errors.Is(err, auth.ErrInvalidToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, H{"error": "session backend unavailable"})
			return
		}

		// profile 只查一次，后续 handler 从 Context 取
		c.Set(ctxProfileID, p.ID)
		c.Set(ctxProfile, p)
		c.Next()
	}
}

// CurrentProfile 由 AuthRequired 放入
func CurrentProfile(c *gin.Context) (*models.Profile, bool) {
	v, ok := c.Get(ctxProfile)
	if !ok {
		return nil, false
	}
	p, ok := v.(*models.Profile)
	return p, ok && p != nil
}

// CurrentViewer ?view= 只有在角色允许时生效
func CurrentViewer(c *gin.Context) (access.Viewer, bool) {
	p, ok := CurrentProfile(c)
	if !ok {
		return access.Viewer{}, false
	}
	return access.NewViewer(*p, models.Role(c.Query("view"))), true
}

func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentProfile(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
	}
}

func AdminOnly() gin.HandlerFunc { return RequireRole(models.RoleAdmin) }

// SetProfile 测试与内部调用用
func SetProfile(c *gin.Context, p *models.Profile) {
	c.Set(ctxProfileID, p.ID)
	c.Set(ctxProfile, p)
}
