package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Gin_postgres_redis_division_inventory/access"
	"Gin_postgres_redis_division_inventory/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRequestNotFound = errors.New("request not found")
	ErrNotPending      = errors.New("request already decided")
	ErrBadDecision     = errors.New("decision must be approved or rejected")
)

func (r *Repo) ListRequests(ctx context.Context, scope access.Scope) ([]models.RequestRow, error) {
	var rows []models.RequestRow
	err := r.DB.WithContext(ctx).
		Table(models.RequestTable+" rq").
		Select("rq.*, p.name AS scientist_name").
		Joins("LEFT JOIN "+models.ProfileTable+" p ON p.id = rq.scientist_id").
		Scopes(scoped("rq.division_id", scope)).
		Order("rq.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

type DecideRequestInput struct {
	RequestID string
	Approver  access.Viewer
	Decision  models.RequestStatus
}

// DecideRequest 审批：锁住 request → 校验角色、范围与状态 → 写结果 + 审计日志
func (r *Repo) DecideRequest(ctx context.Context, in DecideRequestInput) (*models.Request, error) {
	if in.Decision != models.RequestApproved && in.Decision != models.RequestRejected {
		return nil, ErrBadDecision
	}

	approverID := in.Approver.ProfileID
	var req models.Request
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ?", in.RequestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if !in.Approver.CanApprove(req.DivisionID) {
			return access.ErrOutOfScope
		}
		if req.Status != models.RequestPending {
			return ErrNotPending
		}

		now := time.Now().UTC()
		if err := tx.Model(&models.Request{}).
			Where("id = ?", req.ID).
			Updates(map[string]any{
				"status":      in.Decision,
				"approved_by": approverID,
				"approved_at": now,
			}).Error; err != nil {
			return err
		}
		req.Status = in.Decision
		req.ApprovedBy = &approverID
		req.ApprovedAt = &now

		details := fmt.Sprintf("%s x%d", req.ItemRequested, req.Quantity)
		return tx.Create(&models.ActivityLog{
			Action:     fmt.Sprintf("Request %s", in.Decision),
			UserID:     approverID,
			DivisionID: req.DivisionID,
			Details:    &details,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}
