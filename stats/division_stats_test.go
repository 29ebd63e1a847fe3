package stats

import (
	"reflect"
	"testing"

	"Gin_postgres_redis_division_inventory/models"
)

func item(div string, qty int, st models.ItemStatus, cal models.CalibrationStatus) models.InventoryItem {
	return models.InventoryItem{DivisionID: div, Quantity: qty, Status: st, CalibrationStatus: cal}
}

func sampleItems() []models.InventoryItem {
	return []models.InventoryItem{
		item("A", 8, models.ItemActive, models.CalibrationCurrent),
		item("A", 2, models.ItemMaintenance, models.CalibrationOverdue),
		item("B", 5, models.ItemActive, models.CalibrationDue),
		item("B", 3, models.ItemRetired, models.CalibrationDue),
		item("C", 7, models.ItemRetired, models.CalibrationCurrent),
		item("H", 1, models.ItemMaintenance, models.CalibrationOverdue),
	}
}

func TestForDivision_Example(t *testing.T) {
	items := []models.InventoryItem{
		item("A", 8, models.ItemActive, models.CalibrationCurrent),
		item("A", 2, models.ItemMaintenance, models.CalibrationOverdue),
	}
	got := ForDivision(items, "A")
	want := DivisionStats{
		Division: "A", TotalItems: 2, TotalQuantity: 10,
		ActiveItems: 1, MaintenanceItems: 1,
		OverdueCalibrations: 1, DueCalibrations: 0,
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestForDivision_Empty(t *testing.T) {
	for _, div := range append([]string{"Z"}, models.KnownDivisions...) {
		got := ForDivision(nil, div)
		if got != (DivisionStats{Division: div}) {
			t.Errorf("division %s: expected zero stats, got %+v", div, got)
		}
	}
}

func TestForAll_FixedOrder(t *testing.T) {
	got := ForAll(nil)
	if len(got) != len(models.KnownDivisions) {
		t.Fatalf("expected %d divisions, got %d", len(models.KnownDivisions), len(got))
	}
	for i, d := range models.KnownDivisions {
		if got[i].Division != d {
			t.Errorf("position %d: expected %s, got %s", i, d, got[i].Division)
		}
		if got[i] != (DivisionStats{Division: d}) {
			t.Errorf("division %s: expected zero stats, got %+v", d, got[i])
		}
	}
}

func TestForAll_QuantityConserved(t *testing.T) {
	items := append(sampleItems(), item("Z", 11, models.ItemActive, models.CalibrationCurrent))

	want := 0
	for _, it := range items {
		want += it.Quantity
	}
	got := 0
	for _, s := range ForAll(items) {
		got += s.TotalQuantity
	}
	if got != want {
		t.Fatalf("sum of division quantities %d != collection total %d", got, want)
	}
}

func TestForAll_UnknownDivisionsAppended(t *testing.T) {
	items := []models.InventoryItem{
		item("Q", 1, models.ItemActive, models.CalibrationCurrent),
		item("M", 1, models.ItemActive, models.CalibrationCurrent),
	}
	got := ForAll(items)
	n := len(models.KnownDivisions)
	if len(got) != n+2 {
		t.Fatalf("expected %d entries, got %d", n+2, len(got))
	}
	if got[n].Division != "M" || got[n+1].Division != "Q" {
		t.Errorf("expected M,Q after known divisions, got %s,%s", got[n].Division, got[n+1].Division)
	}
}

func TestActivePlusMaintenanceBounded(t *testing.T) {
	for _, s := range ForAll(sampleItems()) {
		if s.ActiveItems+s.MaintenanceItems > s.TotalItems {
			t.Errorf("division %s: active %d + maintenance %d > total %d",
				s.Division, s.ActiveItems, s.MaintenanceItems, s.TotalItems)
		}
	}
	c := ForDivision(sampleItems(), "C")
	if c.TotalItems != 1 || c.ActiveItems != 0 || c.MaintenanceItems != 0 {
		t.Errorf("retired items must count only toward total, got %+v", c)
	}
}

func TestIdempotent(t *testing.T) {
	items := sampleItems()
	first := ForAll(items)
	second := ForAll(items)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregation not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestSummarize(t *testing.T) {
	items := sampleItems()
	if got := Summarize(items, AllDivisions); len(got) != len(models.KnownDivisions) {
		t.Errorf("all: expected %d entries, got %d", len(models.KnownDivisions), len(got))
	}
	got := Summarize(items, "B")
	if len(got) != 1 {
		t.Fatalf("expected single entry, got %d", len(got))
	}
	if got[0].TotalQuantity != 8 || got[0].DueCalibrations != 2 || got[0].ActiveItems != 1 {
		t.Errorf("unexpected B stats: %+v", got[0])
	}
}

func TestItems(t *testing.T) {
	name := "Rajesh Kumar"
	rows := []models.InventoryRow{{InventoryItem: item("A", 3, models.ItemActive, models.CalibrationDue), AddedByName: &name}}
	got := Items(rows)
	if len(got) != 1 || got[0].Quantity != 3 || got[0].DivisionID != "A" {
		t.Fatalf("unexpected items: %+v", got)
	}
}
