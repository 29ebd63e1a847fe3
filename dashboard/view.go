package dashboard

import (
	"Gin_postgres_redis_division_inventory/access"
	"Gin_postgres_redis_division_inventory/models"
	"Gin_postgres_redis_division_inventory/stats"
)

// Row is an inventory row reduced to the columns the view shows. The id
// is always present so actions can address the row.
type Row map[access.Column]any

type View struct {
	Viewer access.Viewer         `json:"viewer"`
	Config access.ViewConfig     `json:"config"`
	Stats  []stats.DivisionStats `json:"stats"`

	Inventory      []Row `json:"inventory"`
	InventoryTotal int   `json:"inventoryTotal"`
	HasMore        bool  `json:"hasMore"`

	Requests        []models.RequestRow `json:"requests,omitempty"`
	PendingRequests int                 `json:"pendingRequests"`

	Activity      []models.ActivityLogRow `json:"activity"`
	ActivityTotal int                     `json:"activityTotal"`

	Loading bool                  `json:"loading"`
	Errors  map[Collection]string `json:"errors,omitempty"`
}

// Snapshot renders the current collections through the viewer's role view.
func (s *State) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.viewer
	cfg := v.Config()
	items := stats.Items(s.inventory)

	division := v.Division
	if v.View == models.RoleAdmin || v.Scope().All() {
		division = stats.AllDivisions
	}

	out := View{
		Viewer:         v,
		Config:         cfg,
		Stats:          stats.Summarize(items, division),
		InventoryTotal: len(s.inventory),
		HasMore:        len(s.inventory) > cfg.InventoryLimit,
		Inventory:      make([]Row, 0, min(len(s.inventory), cfg.InventoryLimit)),
		Activity:       head(s.logs, cfg.ActivityLimit),
		ActivityTotal:  len(s.logs),
		Loading:        s.loading,
	}
	for _, r := range head(s.inventory, cfg.InventoryLimit) {
		out.Inventory = append(out.Inventory, ProjectRow(r, cfg))
	}
	if cfg.CanApprove {
		for _, r := range s.requests {
			if r.Status == models.RequestPending {
				out.PendingRequests++
			}
		}
		out.Requests = head(s.requests, cfg.RequestLimit)
	}
	if len(s.errs) > 0 {
		out.Errors = make(map[Collection]string, len(s.errs))
		for c, err := range s.errs {
			out.Errors[c] = err.Error()
		}
	}
	return out
}

// ProjectRow keeps only the fields behind cfg's visible columns.
func ProjectRow(r models.InventoryRow, cfg access.ViewConfig) Row {
	row := Row{"id": r.ID}
	for _, col := range cfg.Columns {
		switch col {
		case access.ColItemName:
			row[col] = r.ItemName
		case access.ColCategory:
			row[col] = r.Category
		case access.ColQuantity:
			row[col] = r.Quantity
		case access.ColLocation:
			row[col] = r.Location
		case access.ColDivision:
			row[col] = r.DivisionID
		case access.ColAddedBy:
			row[col] = r.AddedByName
		case access.ColScientist:
			row[col] = r.ScientistName
		case access.ColStatus:
			row[col] = r.Status
		case access.ColCalibrationDate:
			row[col] = r.CalibrationDate
		case access.ColCalibrationStatus:
			row[col] = r.CalibrationStatus
		case access.ColLastUpdated:
			row[col] = r.LastUpdated
		}
	}
	return row
}

func head[T any](rows []T, n int) []T {
	if n < 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}
