package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"Gin_postgres_redis_division_inventory/access"
	"Gin_postgres_redis_division_inventory/app"
	"Gin_postgres_redis_division_inventory/dashboard"
	"Gin_postgres_redis_division_inventory/db"
	"Gin_postgres_redis_division_inventory/models"
	"Gin_postgres_redis_division_inventory/report"
	"Gin_postgres_redis_division_inventory/stats"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InventoryStore interface {
	ListInventory(ctx context.Context, scope access.Scope) ([]models.InventoryRow, error)
	SearchInventory(ctx context.Context, scope access.Scope, q db.InventoryQuery) (*db.PagedInventory, error)
}

type InventoryController struct {
	repo InventoryStore
	log  *zap.Logger
}

func NewInventoryController(repo InventoryStore, log *zap.Logger) *InventoryController {
	return &InventoryController{repo: repo, log: log}
}

// GET /api/inventory?q=&status=&calibration=&page=&size=
// 行按角色裁剪列
func (ic *InventoryController) List(c *gin.Context) {
	v, ok := mustViewer(c)
	if !ok {
		return
	}
	q := db.InventoryQuery{
		Q:           c.Query("q"),
		Status:      models.ItemStatus(c.Query("status")),
		Calibration: models.CalibrationStatus(c.Query("calibration")),
	}
	if q.Status != "" && !q.Status.Valid() {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid status"})
		return
	}
	if q.Calibration != "" && !q.Calibration.Valid() {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid calibration status"})
		return
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := ic.repo.SearchInventory(c.Request.Context(), v.Scope(), q)
	if err != nil {
		writeError(c, ic.log, err)
		return
	}

	cfg := v.Config()
	rows := make([]dashboard.Row, 0, len(res.Items))
	for _, r := range res.Items {
		rows = append(rows, dashboard.ProjectRow(r, cfg))
	}
	c.JSON(http.StatusOK, app.H{
		"total":   res.Total,
		"items":   rows,
		"columns": cfg.Columns,
	})
}

// GET /api/stats?division=A|all
// 非管理员只能看本分部
func (ic *InventoryController) Stats(c *gin.Context) {
	v, ok := mustViewer(c)
	if !ok {
		return
	}
	scope := v.Scope()
	division := c.Query("division")
	if division == "" {
		division = stats.AllDivisions
		if !scope.All() {
			division = v.Division
		}
	}
	if division != stats.AllDivisions {
		if !scope.Allows(division) {
			c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
			return
		}
		scope = access.Scope{Division: division}
	} else if !scope.All() {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}

	rows, err := ic.repo.ListInventory(c.Request.Context(), scope)
	if err != nil {
		writeError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, app.H{
		"division": division,
		"stats":    stats.Summarize(stats.Items(rows), division),
	})
}

// GET /api/inventory/export 当前范围内全部库存 + 分部统计，xlsx
func (ic *InventoryController) Export(c *gin.Context) {
	v, ok := mustViewer(c)
	if !ok {
		return
	}
	scope := v.Scope()
	rows, err := ic.repo.ListInventory(c.Request.Context(), scope)
	if err != nil {
		writeError(c, ic.log, err)
		return
	}
	division := v.Division
	if scope.All() {
		division = stats.AllDivisions
	}

	f, err := report.InventoryWorkbook(rows, v.Config(), stats.Summarize(stats.Items(rows), division))
	if err != nil {
		writeError(c, ic.log, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", report.ContentType)
	c.Header("Content-Disposition", "attachment; filename=\""+report.Filename(time.Now())+"\"")
	c.Header("Content-Transfer-Encoding", "binary")
	if err := f.Write(c.Writer); err != nil {
		ic.log.Error("write export", zap.Error(err))
	}
}
