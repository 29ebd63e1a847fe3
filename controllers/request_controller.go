package controllers

import (
	"context"
	"net/http"

	"Gin_postgres_redis_division_inventory/access"
	"Gin_postgres_redis_division_inventory/app"
	"Gin_postgres_redis_division_inventory/db"
	"Gin_postgres_redis_division_inventory/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RequestStore interface {
	ListRequests(ctx context.Context, scope access.Scope) ([]models.RequestRow, error)
	DecideRequest(ctx context.Context, in db.DecideRequestInput) (*models.Request, error)
}

type RequestController struct {
	repo RequestStore
	log  *zap.Logger
}

func NewRequestController(repo RequestStore, log *zap.Logger) *RequestController {
	return &RequestController{repo: repo, log: log}
}

// GET /api/requests 科学家只看自己提交的
func (rc *RequestController) List(c *gin.Context) {
	v, ok := mustViewer(c)
	if !ok {
		return
	}
	rows, err := rc.repo.ListRequests(c.Request.Context(), v.Scope())
	if err != nil {
		writeError(c, rc.log, err)
		return
	}
	if v.Role == models.RoleScientist {
		mine := rows[:0]
		for _, r := range rows {
			if r.ScientistID == v.ProfileID {
				mine = append(mine, r)
			}
		}
		rows = mine
	}

	pending := 0
	for _, r := range rows {
		if r.Status == models.RequestPending {
			pending++
		}
	}
	if rows == nil {
		rows = []models.RequestRow{}
	}
	c.JSON(http.StatusOK, app.H{"requests": rows, "pending": pending})
}

// POST /api/requests/:id/approve
func (rc *RequestController) Approve(c *gin.Context) { rc.decide(c, models.RequestApproved) }

// POST /api/requests/:id/reject
func (rc *RequestController) Reject(c *gin.Context) { rc.decide(c, models.RequestRejected) }

func (rc *RequestController) decide(c *gin.Context, decision models.RequestStatus) {
	v, ok := mustViewer(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	req, err := rc.repo.DecideRequest(c.Request.Context(), db.DecideRequestInput{
		RequestID: id,
		Approver:  v,
		Decision:  decision,
	})
	if err != nil {
		writeError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"request": req})
}
