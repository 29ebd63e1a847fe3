package access

import (
	"fmt"

	"Gin_postgres_redis_division_inventory/models"
)

type Column string

const (
	ColItemName          Column = "itemName"
	ColCategory          Column = "category"
	ColQuantity          Column = "quantity"
	ColLocation          Column = "location"
	ColDivision          Column = "division"
	ColAddedBy           Column = "addedBy"
	ColScientist         Column = "scientist"
	ColStatus            Column = "status"
	ColCalibrationDate   Column = "calibrationDate"
	ColCalibrationStatus Column = "calibrationStatus"
	ColLastUpdated       Column = "lastUpdated"
	ColActions           Column = "actions"
)

type Action struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type ViewConfig struct {
	Role        models.Role `json:"role"`
	Title       string      `json:"title"`
	Badge       string      `json:"badge"`
	Description string      `json:"description"`
	Actions     []Action    `json:"actions"`
	Columns     []Column    `json:"columns"`

	CanEdit    bool `json:"canEdit"`
	CanDelete  bool `json:"canDelete"`
	CanApprove bool `json:"canApprove"`

	InventoryLimit int `json:"inventoryLimit"`
	RequestLimit   int `json:"requestLimit"`
	ActivityLimit  int `json:"activityLimit"`
}

func (c ViewConfig) HasColumn(col Column) bool {
	for _, x := range c.Columns {
		if x == col {
			return true
		}
	}
	return false
}

func (c ViewConfig) HasAction(key string) bool {
	for _, a := range c.Actions {
		if a.Key == key {
			return true
		}
	}
	return false
}

var (
	leadColumns  = []Column{ColItemName, ColCategory, ColQuantity, ColLocation}
	adminColumns = []Column{ColDivision, ColAddedBy, ColScientist}
	tailColumns  = []Column{ColStatus, ColCalibrationDate, ColCalibrationStatus, ColLastUpdated}
)

func columns(admin, actions bool) []Column {
	out := append([]Column{}, leadColumns...)
	if admin {
		out = append(out, adminColumns...)
	}
	out = append(out, tailColumns...)
	if actions {
		out = append(out, ColActions)
	}
	return out
}

// Project is a static lookup: each role maps to a fixed dashboard layout.
// Unknown roles get an empty dashboard with no actions.
func Project(role models.Role, division string) ViewConfig {
	switch role {
	case models.RoleAdmin:
		return ViewConfig{
			Role:        role,
			Title:       "Administrator Dashboard",
			Badge:       "SUPREME ADMIN ACCESS",
			Description: "Complete access to all division inventories",
			Actions: []Action{
				{Key: "manage_users", Label: "Manage Users", Description: "Add/edit user accounts", Link: "/admin/users"},
				{Key: "system_analytics", Label: "System Analytics", Description: "View comprehensive reports", Link: "/analytics"},
				{Key: "global_audit_logs", Label: "Global Audit Logs", Description: "All system activities", Link: "/logs"},
				{Key: "all_inventories", Label: "All Inventories", Description: "Cross-division access", Link: "/inventory/view"},
			},
			Columns:        columns(true, true),
			CanEdit:        true,
			CanDelete:      true,
			CanApprove:     true,
			InventoryLimit: 15,
			RequestLimit:   5,
			ActivityLimit:  5,
		}
	case models.RoleDivisionPersonnel:
		return ViewConfig{
			Role:        role,
			Title:       divisionLabel("Division %s Control Panel", "Division Control Panel", division),
			Badge:       divisionLabel("DIVISION %s PERSONNEL", "DIVISION PERSONNEL", division),
			Description: divisionLabel("Manage Division %s inventory items and track status", "Manage division inventory items and track status", division),
			Actions: []Action{
				{Key: "add_inventory", Label: "Add Inventory", Description: "Add new items to division", Link: "/inventory/add"},
				{Key: "manage_inventory", Label: "Manage Inventory", Description: "Edit/delete division items", Link: "/inventory/view"},
				{Key: "approve_requests", Label: "Approve Requests", Description: "Handle scientist requests", Link: "/requests/approve"},
				{Key: "division_logs", Label: "Division Logs", Description: "View division activity", Link: "/logs"},
			},
			Columns:        columns(false, true),
			CanEdit:        true,
			CanApprove:     true,
			InventoryLimit: 10,
			RequestLimit:   5,
			ActivityLimit:  5,
		}
	case models.RoleScientist:
		return ViewConfig{
			Role:        role,
			Title:       divisionLabel("Division %s Research Access", "Division Research Access", division),
			Badge:       divisionLabel("SCIENTIST - DIVISION %s", "SCIENTIST", division),
			Description: divisionLabel("View-only access to Division %s inventory", "View-only access to division inventory", division),
			Actions: []Action{
				{Key: "view_inventory", Label: "View Inventory", Description: "Browse available items", Link: "/inventory/view"},
				{Key: "search_items", Label: "Search Items", Description: "Find specific equipment", Link: "/inventory/search"},
				{Key: "request_items", Label: "Request Items", Description: "Submit access requests", Link: "/requests"},
				{Key: "my_requests", Label: "My Requests", Description: "Track request status", Link: "/requests/status"},
			},
			Columns:        columns(false, false),
			InventoryLimit: 10,
			RequestLimit:   5,
			ActivityLimit:  5,
		}
	default:
		return ViewConfig{
			Role:           role,
			Title:          "Dashboard",
			Badge:          "USER",
			Actions:        []Action{},
			Columns:        columns(false, false),
			InventoryLimit: 10,
			RequestLimit:   5,
			ActivityLimit:  5,
		}
	}
}

// divisionLabel 管理员没有真实分部，切到其他视图时用不带分部号的文案
func divisionLabel(format, neutral, division string) string {
	if division == "" || division == models.AdminDivision {
		return neutral
	}
	return fmt.Sprintf(format, division)
}

// AvailableViews 管理员可切换三种视图，其余角色只有自己的
func AvailableViews(role models.Role) []models.Role {
	switch role {
	case models.RoleAdmin:
		return []models.Role{models.RoleAdmin, models.RoleDivisionPersonnel, models.RoleScientist}
	case models.RoleDivisionPersonnel:
		return []models.Role{models.RoleDivisionPersonnel}
	case models.RoleScientist:
		return []models.Role{models.RoleScientist}
	default:
		return []models.Role{models.RoleScientist}
	}
}

// ResolveView returns requested if role may render it, else the first
// available view for role.
func ResolveView(role, requested models.Role) models.Role {
	views := AvailableViews(role)
	for _, v := range views {
		if v == requested {
			return v
		}
	}
	return views[0]
}
