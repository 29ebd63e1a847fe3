package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"Gin_postgres_redis_division_inventory/access"
	"Gin_postgres_redis_division_inventory/app"
	"Gin_postgres_redis_division_inventory/auth"
	"Gin_postgres_redis_division_inventory/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SessionIssuer interface {
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context, token string) error
}

type AuthController struct {
	auth   SessionIssuer
	secure bool
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthController(a SessionIssuer, secure bool, log *zap.Logger) *AuthController {
	return &AuthController{auth: a, secure: secure, log: log, now: time.Now}
}

type signInReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/sign-in
func (ac *AuthController) SignIn(c *gin.Context) {
	var req signInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "email and password are required"})
		return
	}

	sess, err := ac.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		metrics.SignIns.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusUnauthorized, app.H{"error": "Invalid email or password"})
		return
	case err != nil:
		metrics.SignIns.WithLabelValues("error").Inc()
		ac.log.Error("sign in", zap.Error(err))
		c.JSON(http.StatusInternalServerError, app.H{"error": "sign in failed"})
		return
	}
	metrics.SignIns.WithLabelValues("ok").Inc()

	setSessionCookie(c.Writer, sess.AccessToken, sess.ExpiresAt.Sub(ac.now()), ac.secure)
	c.JSON(http.StatusOK, sess)
}

// POST /auth/sign-out 会话已失效也照样清 cookie
func (ac *AuthController) SignOut(c *gin.Context) {
	if token := app.TokenFromRequest(c); token != "" {
		if err := ac.auth.SignOut(c.Request.Context(), token); err != nil && !errors.Is(err, auth.ErrInvalidToken) {
			ac.log.Warn("sign out", zap.Error(err))
		}
	}
	setSessionCookie(c.Writer, "", -1, ac.secure)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /auth/whoami
func (ac *AuthController) WhoAmI(c *gin.Context) {
	p, ok := app.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	v, _ := app.CurrentViewer(c)
	c.JSON(http.StatusOK, app.H{
		"profile": p,
		"viewer":  v,
		"views":   access.AvailableViews(p.Role),
	})
}
