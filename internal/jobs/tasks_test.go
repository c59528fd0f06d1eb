package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/anisossss/mining-ops/internal/model/entity"
	"github.com/anisossss/mining-ops/internal/repository"
	"github.com/anisossss/mining-ops/internal/service"
	"github.com/anisossss/mining-ops/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTasks(t *testing.T) (*Tasks, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	analytics := service.NewAnalyticsService(db, nil)
	export := service.NewReportExportService(t.TempDir(), nil, "", zap.NewNop())
	return NewTasks(repos, analytics, export, nil, 365, zap.NewNop()), db
}

func TestEfficiency(t *testing.T) {
	if got := Efficiency(100, 25); got != 4 {
		t.Errorf("Expected 4 t/h, got %v", got)
	}
	if got := Efficiency(100, 0); got != 0 {
		t.Errorf("Expected 0 for zero hours, got %v", got)
	}
	if got := Efficiency(0, 50); got != 0 {
		t.Errorf("Expected 0 for idle unit, got %v", got)
	}
	if got := Efficiency(100, -5); got != 0 {
		t.Errorf("Expected 0 for negative hours, got %v", got)
	}
}

func TestDailyReportTask(t *testing.T) {
	tasks, db := setupTasks(t)

	yesterday := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)
	s := testutil.SeedShift(t, db, yesterday, entity.ShiftTypeMorning, "North", 10)
	testutil.SeedProduction(t, db, s.ID, nil, 15.0, 3.0, 2.0)

	if err := tasks.DailyReport(context.Background()); err != nil {
		t.Fatalf("DailyReport: %v", err)
	}
}

func TestDailyReportTaskEmptyDay(t *testing.T) {
	tasks, _ := setupTasks(t)

	// No data at all still yields a valid zero report.
	if err := tasks.DailyReport(context.Background()); err != nil {
		t.Fatalf("DailyReport on empty day: %v", err)
	}
}

func TestHourlyProductionTask(t *testing.T) {
	tasks, db := setupTasks(t)

	s := testutil.SeedShift(t, db, time.Now().UTC().Truncate(24*time.Hour), entity.ShiftTypeMorning, "North", 10)
	testutil.SeedProduction(t, db, s.ID, nil, 5.0, 1.0, 2.0)

	if err := tasks.HourlyProduction(context.Background()); err != nil {
		t.Fatalf("HourlyProduction: %v", err)
	}
}

func TestEquipmentMetricsTask(t *testing.T) {
	tasks, db := setupTasks(t)

	eq := testutil.SeedEquipment(t, db, "EXC-800", "Excavator 800", "excavator")
	db.Model(eq).Update("operating_hours", 10.0)
	s := testutil.SeedShift(t, db, time.Now().UTC().Truncate(24*time.Hour), entity.ShiftTypeMorning, "North", 10)
	testutil.SeedProduction(t, db, s.ID, &eq.ID, 40.0, 5.0, 2.0)

	if err := tasks.EquipmentMetrics(context.Background()); err != nil {
		t.Fatalf("EquipmentMetrics: %v", err)
	}
}

func TestMaintenanceAlertsTask(t *testing.T) {
	tasks, db := setupTasks(t)

	past := time.Now().UTC().AddDate(0, 0, -3)
	eq := testutil.SeedEquipment(t, db, "EXC-801", "Excavator 801", "excavator")
	db.Model(eq).Update("next_maintenance_date", past)
	testutil.SeedMaintenance(t, db, eq.ID, entity.MaintenanceTypeCorrective, false)

	if err := tasks.MaintenanceAlerts(context.Background()); err != nil {
		t.Fatalf("MaintenanceAlerts: %v", err)
	}
}

func TestRetentionCheckTask(t *testing.T) {
	tasks, db := setupTasks(t)

	old, _ := time.Parse("2006-01-02", "2020-01-01")
	testutil.SeedShift(t, db, old, entity.ShiftTypeMorning, "North", 10)

	if err := tasks.RetentionCheck(context.Background()); err != nil {
		t.Fatalf("RetentionCheck: %v", err)
	}
}

func TestRunnerRunsAndStops(t *testing.T) {
	runner := NewRunner(nil, time.Minute, zap.NewNop())

	ran := make(chan struct{}, 8)
	runner.Register(Task{
		Name:     "tick",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	runner.Start(ctx)

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected the task to run at least once")
	}

	cancel()
	done := make(chan struct{})
	go func() {
		runner.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected runner to drain after cancel")
	}
}
