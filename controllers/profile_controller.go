package controllers

import (
	"context"
	"net/http"
	"strconv"

	"Gin_postgres_redis_division_inventory/app"
	"Gin_postgres_redis_division_inventory/db"
	"Gin_postgres_redis_division_inventory/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileStore interface {
	ListProfiles(ctx context.Context, q, division string, page, size int) (db.ListProfilesResult, error)
	FindProfileByID(ctx context.Context, id string) (*models.Profile, error)
}

type SessionRevoker interface {
	RevokeAllForProfile(ctx context.Context, profileID string) error
}

type ProfileController struct {
	repo     ProfileStore
	sessions SessionRevoker
	log      *zap.Logger
}

func NewProfileController(repo ProfileStore, sessions SessionRevoker, log *zap.Logger) *ProfileController {
	return &ProfileController{repo: repo, sessions: sessions, log: log}
}

// GET /api/profiles?q=alice&division=A&page=1&size=20
func (pc *ProfileController) ListProfiles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := pc.repo.ListProfiles(c.Request.Context(), c.Query("q"), c.Query("division"), page, size)
	if err != nil {
		writeError(c, pc.log, err)
		return
	}
	if res.Profiles == nil {
		res.Profiles = []models.Profile{}
	}
	c.JSON(http.StatusOK, app.H{
		"total":    res.Total,
		"profiles": res.Profiles,
	})
}

// GET /api/profiles/:id
func (pc *ProfileController) GetProfile(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	p, err := pc.repo.FindProfileByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"profile": p})
}

// POST /api/profiles/:id/revoke-sessions 强制下线
func (pc *ProfileController) RevokeSessions(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	if _, err := pc.repo.FindProfileByID(c.Request.Context(), id); err != nil {
		writeError(c, pc.log, err)
		return
	}
	if err := pc.sessions.RevokeAllForProfile(c.Request.Context(), id); err != nil {
		writeError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
