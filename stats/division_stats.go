// Package stats computes per-division aggregates over already-fetched
// inventory rows.
package stats

import (
	"sort"

	"Gin_postgres_redis_division_inventory/models"
)

// AllDivisions selects every division in Summarize.
const AllDivisions = "all"

type DivisionStats struct {
	Division            string `json:"division"`
	TotalItems          int    `json:"totalItems"`
	TotalQuantity       int    `json:"totalQuantity"`
	ActiveItems         int    `json:"activeItems"`
	MaintenanceItems    int    `json:"maintenanceItems"`
	OverdueCalibrations int    `json:"overdueCalibrations"`
	DueCalibrations     int    `json:"dueCalibrations"`
}

func (s *DivisionStats) add(it models.InventoryItem) {
	s.TotalItems++
	s.TotalQuantity += it.Quantity
	switch it.Status {
	case models.ItemActive:
		s.ActiveItems++
	case models.ItemMaintenance:
		s.MaintenanceItems++
	}
	switch it.CalibrationStatus {
	case models.CalibrationOverdue:
		s.OverdueCalibrations++
	case models.CalibrationDue:
		s.DueCalibrations++
	}
}

// ForDivision aggregates the items that belong to division.
func ForDivision(items []models.InventoryItem, division string) DivisionStats {
	out := DivisionStats{Division: division}
	for _, it := range items {
		if it.DivisionID == division {
			out.add(it)
		}
	}
	return out
}

// ForAll returns one aggregate per known division in models.KnownDivisions
// order, followed by any other divisions present in items, sorted by id.
func ForAll(items []models.InventoryItem) []DivisionStats {
	byDiv := make(map[string]*DivisionStats, len(models.KnownDivisions))
	out := make([]DivisionStats, 0, len(models.KnownDivisions))
	for _, d := range models.KnownDivisions {
		byDiv[d] = nil
	}

	var extra []string
	for _, it := range items {
		if _, ok := byDiv[it.DivisionID]; !ok {
			byDiv[it.DivisionID] = nil
			extra = append(extra, it.DivisionID)
		}
	}
	sort.Strings(extra)

	order := append(append([]string{}, models.KnownDivisions...), extra...)
	for _, d := range order {
		out = append(out, DivisionStats{Division: d})
	}
	for i := range out {
		byDiv[out[i].Division] = &out[i]
	}
	for _, it := range items {
		byDiv[it.DivisionID].add(it)
	}
	return out
}

// Summarize dispatches on division: AllDivisions yields ForAll, anything
// else a single ForDivision aggregate.
func Summarize(items []models.InventoryItem, division string) []DivisionStats {
	if division == AllDivisions {
		return ForAll(items)
	}
	return []DivisionStats{ForDivision(items, division)}
}

// Items strips the joined display names off fetched rows.
func Items(rows []models.InventoryRow) []models.InventoryItem {
	out := make([]models.InventoryItem, len(rows))
	for i, r := range rows {
		out[i] = r.InventoryItem
	}
	return out
}
