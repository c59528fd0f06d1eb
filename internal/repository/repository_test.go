package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anisossss/mining-ops/internal/model/entity"
	"github.com/anisossss/mining-ops/internal/testutil"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestShiftDeleteRefusesDependents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	shift := testutil.SeedShift(t, db, date(t, "2026-08-01"), entity.ShiftTypeMorning, "North", 10)
	testutil.SeedProduction(t, db, shift.ID, nil, 5.0, 1.0, 2.0)

	err := repos.Shift.Delete(ctx, shift.ID)
	if !errors.Is(err, ErrHasDependents) {
		t.Fatalf("Expected ErrHasDependents, got %v", err)
	}

	if _, err := repos.Shift.FindByID(ctx, shift.ID); err != nil {
		t.Fatalf("Expected shift to survive refused delete, got %v", err)
	}
}

func TestShiftUpdateMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := NewRepositories(db)

	_, err := repos.Shift.UpdateFields(context.Background(), 99999,
		map[string]interface{}{"workers_count": 5})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestProductionCreateValidatesReferences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	err := repos.Production.Create(ctx, &entity.ProductionRecord{ShiftID: 99999})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("Expected ErrInvalidReference for unknown shift, got %v", err)
	}

	shift := testutil.SeedShift(t, db, date(t, "2026-08-01"), entity.ShiftTypeMorning, "North", 10)
	ghost := uint(99999)
	err = repos.Production.Create(ctx, &entity.ProductionRecord{ShiftID: shift.ID, EquipmentID: &ghost})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("Expected ErrInvalidReference for unknown equipment, got %v", err)
	}

	rec := &entity.ProductionRecord{ShiftID: shift.ID, OreExtractedTonnes: 3.0}
	if err := repos.Production.Create(ctx, rec); err != nil {
		t.Fatalf("Expected create to succeed, got %v", err)
	}
	if rec.RecordedAt.IsZero() {
		t.Error("Expected recorded_at defaulted on create")
	}
}

func TestEquipmentDuplicateCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	testutil.SeedEquipment(t, db, "EXC-700", "Excavator 700", "excavator")

	err := repos.Equipment.Create(ctx, &entity.Equipment{
		EquipmentCode: "EXC-700",
		Name:          "Clone",
		EquipmentType: "excavator",
		Status:        entity.EquipmentStatusOperational,
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}
}

func TestEquipmentMaintenanceWindows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	today := date(t, "2026-08-28")
	soon := today.AddDate(0, 0, 3)
	far := today.AddDate(0, 0, 30)
	past := today.AddDate(0, 0, -5)

	seedWithDue := func(code string, due *time.Time, status string) {
		eq := &entity.Equipment{
			EquipmentCode:       code,
			Name:                code,
			EquipmentType:       "drill",
			Status:              status,
			NextMaintenanceDate: due,
		}
		if err := repos.Equipment.Create(ctx, eq); err != nil {
			t.Fatalf("seed %s: %v", code, err)
		}
	}

	seedWithDue("DUE-1", &soon, entity.EquipmentStatusOperational)
	seedWithDue("DUE-2", &far, entity.EquipmentStatusOperational)
	seedWithDue("OVD-1", &past, entity.EquipmentStatusOperational)
	// Decommissioned units never alert.
	seedWithDue("OVD-2", &past, entity.EquipmentStatusDecommissioned)
	seedWithDue("NON-1", nil, entity.EquipmentStatusOperational)

	due, err := repos.Equipment.ListMaintenanceDue(ctx, today, today.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ListMaintenanceDue: %v", err)
	}
	if len(due) != 1 || due[0].EquipmentCode != "DUE-1" {
		t.Errorf("Expected only DUE-1 in the 7-day window, got %+v", due)
	}

	overdue, err := repos.Equipment.ListMaintenanceOverdue(ctx, today)
	if err != nil {
		t.Fatalf("ListMaintenanceOverdue: %v", err)
	}
	if len(overdue) != 1 || overdue[0].EquipmentCode != "OVD-1" {
		t.Errorf("Expected only OVD-1 overdue, got %+v", overdue)
	}
}

func TestRetentionCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	old := date(t, "2024-01-01")
	recent := date(t, "2026-08-01")
	cutoff := date(t, "2025-01-01")

	testutil.SeedShift(t, db, old, entity.ShiftTypeMorning, "North", 10)
	testutil.SeedShift(t, db, recent, entity.ShiftTypeMorning, "North", 10)

	count, err := repos.Shift.CountBefore(ctx, cutoff)
	if err != nil {
		t.Fatalf("CountBefore: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 shift past retention, got %d", count)
	}

	eq := testutil.SeedEquipment(t, db, "EXC-701", "Excavator 701", "excavator")
	oldDone := testutil.SeedMaintenance(t, db, eq.ID, entity.MaintenanceTypePreventive, true)
	db.Model(oldDone).Update("completed_date", old)
	// Open logs are never retention candidates, however old.
	stillOpen := testutil.SeedMaintenance(t, db, eq.ID, entity.MaintenanceTypeCorrective, false)
	db.Model(stillOpen).Update("created_at", old)

	logs, err := repos.Maintenance.CountCompletedBefore(ctx, cutoff)
	if err != nil {
		t.Fatalf("CountCompletedBefore: %v", err)
	}
	if logs != 1 {
		t.Errorf("Expected 1 completed log past retention, got %d", logs)
	}
}

func TestProductionListCreatedSince(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	shift := testutil.SeedShift(t, db, date(t, "2026-08-01"), entity.ShiftTypeMorning, "North", 10)
	fresh := testutil.SeedProduction(t, db, shift.ID, nil, 2.0, 1.0, 1.0)
	stale := testutil.SeedProduction(t, db, shift.ID, nil, 3.0, 1.0, 1.0)
	db.Model(stale).Update("created_at", time.Now().UTC().Add(-3*time.Hour))

	records, err := repos.Production.ListCreatedSince(ctx, time.Now().UTC().Add(-1*time.Hour))
	if err != nil {
		t.Fatalf("ListCreatedSince: %v", err)
	}
	if len(records) != 1 || records[0].ID != fresh.ID {
		t.Errorf("Expected only the fresh record, got %+v", records)
	}
}
