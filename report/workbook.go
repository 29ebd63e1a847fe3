// Package report renders inventory exports as Excel workbooks.
package report

import (
	"fmt"
	"time"

	"Gin_postgres_redis_division_inventory/access"
	"Gin_postgres_redis_division_inventory/models"
	"Gin_postgres_redis_division_inventory/stats"

	"github.com/xuri/excelize/v2"
)

const (
	InventorySheet = "Inventory"
	StatsSheet     = "Division Stats"
	ContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var columnLabels = map[access.Column]string{
	access.ColItemName:          "Item Name",
	access.ColCategory:          "Category",
	access.ColQuantity:          "Quantity",
	access.ColLocation:          "Location",
	access.ColDivision:          "Division",
	access.ColAddedBy:           "Added By",
	access.ColScientist:         "Scientist",
	access.ColStatus:            "Status",
	access.ColCalibrationDate:   "Calibration Date",
	access.ColCalibrationStatus: "Calibration Status",
	access.ColLastUpdated:       "Last Updated",
}

var statsHeaders = []string{"Division", "Total Items", "Total Quantity", "Active", "Maintenance", "Overdue Calibrations", "Due Calibrations"}

func Filename(now time.Time) string {
	return fmt.Sprintf("inventory-%s.xlsx", now.Format("20060102"))
}

// exportColumns 去掉操作列，只导出数据列
func exportColumns(cfg access.ViewConfig) []access.Column {
	cols := make([]access.Column, 0, len(cfg.Columns))
	for _, c := range cfg.Columns {
		if _, ok := columnLabels[c]; ok {
			cols = append(cols, c)
		}
	}
	return cols
}

func cellValue(r models.InventoryRow, col access.Column) any {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	stamp := func(t time.Time) any {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02")
	}
	switch col {
	case access.ColItemName:
		return r.ItemName
	case access.ColCategory:
		return r.Category
	case access.ColQuantity:
		return r.Quantity
	case access.ColLocation:
		return r.Location
	case access.ColDivision:
		return r.DivisionID
	case access.ColAddedBy:
		return deref(r.AddedByName)
	case access.ColScientist:
		return deref(r.ScientistName)
	case access.ColStatus:
		return string(r.Status)
	case access.ColCalibrationDate:
		return stamp(r.CalibrationDate)
	case access.ColCalibrationStatus:
		return string(r.CalibrationStatus)
	case access.ColLastUpdated:
		return stamp(r.LastUpdated)
	}
	return ""
}

// InventoryWorkbook 第一页是按角色裁剪过列的库存，第二页是分部统计
func InventoryWorkbook(rows []models.InventoryRow, cfg access.ViewConfig, summary []stats.DivisionStats) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", InventorySheet); err != nil {
		f.Close()
		return nil, err
	}

	// 表头样式: 加粗
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	cols := exportColumns(cfg)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = columnLabels[c]
	}
	if err := writeRow(f, InventorySheet, 1, header, bold); err != nil {
		f.Close()
		return nil, err
	}
	for i, r := range rows {
		values := make([]any, len(cols))
		for j, c := range cols {
			values[j] = cellValue(r, c)
		}
		if err := writeRow(f, InventorySheet, i+2, values, 0); err != nil {
			f.Close()
			return nil, err
		}
	}

	if _, err := f.NewSheet(StatsSheet); err != nil {
		f.Close()
		return nil, err
	}
	head := make([]any, len(statsHeaders))
	for i, h := range statsHeaders {
		head[i] = h
	}
	if err := writeRow(f, StatsSheet, 1, head, bold); err != nil {
		f.Close()
		return nil, err
	}
	for i, s := range summary {
		values := []any{s.Division, s.TotalItems, s.TotalQuantity, s.ActiveItems, s.MaintenanceItems, s.OverdueCalibrations, s.DueCalibrations}
		if err := writeRow(f, StatsSheet, i+2, values, 0); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any, style int) error {
	if len(values) == 0 {
		return nil
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}
