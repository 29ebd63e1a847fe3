package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"Gin_postgres_redis_division_inventory/app"
	"Gin_postgres_redis_division_inventory/dashboard"
	"Gin_postgres_redis_division_inventory/db"
	"Gin_postgres_redis_division_inventory/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ActivityController struct {
	repo dashboard.Backend
	log  *zap.Logger
}

func NewActivityController(repo dashboard.Backend, log *zap.Logger) *ActivityController {
	return &ActivityController{repo: repo, log: log}
}

// GET /api/activity?limit=20
func (ac *ActivityController) List(c *gin.Context) {
	v, ok := mustViewer(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(db.DefaultActivityLimit)))
	if limit <= 0 || limit > 100 {
		limit = db.DefaultActivityLimit
	}
	rows, err := ac.repo.ListActivityLogs(c.Request.Context(), v.Scope(), limit)
	if err != nil {
		writeError(c, ac.log, err)
		return
	}
	if rows == nil {
		rows = []models.ActivityLogRow{}
	}
	c.JSON(http.StatusOK, app.H{"logs": rows})
}

type createActivityReq struct {
	Action  string  `json:"action" binding:"required,max=255"`
	Details *string `json:"details"`
}

// POST /api/activity 记到当前用户所在分部（管理员为 ADMIN）
func (ac *ActivityController) Create(c *gin.Context) {
	v, ok := mustViewer(c)
	if !ok {
		return
	}
	var req createActivityReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Action) == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "action is required"})
		return
	}
	st := dashboard.New(ac.repo, v)
	defer st.Close()
	l, err := st.LogActivity(c.Request.Context(), strings.TrimSpace(req.Action), req.Details)
	if err != nil {
		writeError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"log": l})
}
