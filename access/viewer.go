// Package access maps roles onto what a dashboard viewer may see and do.
package access

import (
	"errors"

	"Gin_postgres_redis_division_inventory/models"
)

var ErrOutOfScope = errors.New("outside of viewer scope")

// Viewer 显式传入的会话身份，替代全局 session/profile
type Viewer struct {
	ProfileID string      `json:"profileId"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
	Division  string      `json:"division"`
	// View is the role whose dashboard is rendered; admins may look at
	// the division and scientist dashboards too.
	View models.Role `json:"view"`
}

// NewViewer builds a viewer for p, rendering the requested view when the
// profile's role allows it and the role's own view otherwise.
func NewViewer(p models.Profile, requested models.Role) Viewer {
	return Viewer{
		ProfileID: p.ID,
		Name:      p.Name,
		Role:      p.Role,
		Division:  p.Division(),
		View:      ResolveView(p.Role, requested),
	}
}

// Scope is the row filter applied to backend reads.
type Scope struct {
	// Division is empty for cross-division scope.
	Division string
}

func (s Scope) All() bool { return s.Division == "" }

func (s Scope) Allows(division string) bool { return s.All() || s.Division == division }

// Scope only admins read across divisions.
func (v Viewer) Scope() Scope {
	if v.Role == models.RoleAdmin {
		return Scope{}
	}
	return Scope{Division: v.Division}
}

// Config projects the viewer's active view.
func (v Viewer) Config() ViewConfig { return Project(v.View, v.Division) }

// CanApprove reports whether the viewer may decide requests in division.
func (v Viewer) CanApprove(division string) bool {
	if !Project(v.Role, v.Division).CanApprove {
		return false
	}
	return v.Scope().Allows(division)
}
