package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/anisossss/mining-ops/internal/repository"
	"github.com/anisossss/mining-ops/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Tasks holds the scheduled operations work: report generation, rolling
// production counters, equipment metrics, maintenance alerts and the
// retention audit.
type Tasks struct {
	repos     *repository.Repositories
	analytics *service.AnalyticsService
	export    *service.ReportExportService
	rdb       *redis.Client
	logger    *zap.Logger

	retentionDays int
}

func NewTasks(repos *repository.Repositories, analytics *service.AnalyticsService,
	export *service.ReportExportService, rdb *redis.Client, retentionDays int, logger *zap.Logger) *Tasks {
	return &Tasks{
		repos:         repos,
		analytics:     analytics,
		export:        export,
		rdb:           rdb,
		logger:        logger,
		retentionDays: retentionDays,
	}
}

// DailyReport builds the figures for yesterday and exports them as a
// workbook.
func (t *Tasks) DailyReport(ctx context.Context) error {
	yesterday := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)

	report, err := t.analytics.BuildDailyReport(ctx, yesterday)
	if err != nil {
		return err
	}

	path, err := t.export.ExportDailyReport(ctx, report)
	if err != nil {
		return err
	}

	t.logger.Info("Daily report generated",
		zap.String("date", yesterday.Format("2006-01-02")),
		zap.Float64("total_ore_tonnes", report.TotalOreTonnes),
		zap.Int("production_records", report.ProductionRecords),
		zap.String("file", path),
	)
	return nil
}

// HourlyProductionSnapshot is the rolling last-hour counter kept in redis
// for dashboards.
type HourlyProductionSnapshot struct {
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	Records     int       `json:"records"`
	TotalOre    float64   `json:"total_ore"`
	TotalWaste  float64   `json:"total_waste"`
}

const hourlyProductionKey = "jobs:hourly_production"

// HourlyProduction sums the records created in the trailing hour and
// publishes the snapshot.
func (t *Tasks) HourlyProduction(ctx context.Context) error {
	now := time.Now().UTC()
	since := now.Add(-1 * time.Hour)

	records, err := t.repos.Production.ListCreatedSince(ctx, since)
	if err != nil {
		return err
	}

	snapshot := HourlyProductionSnapshot{
		WindowStart: since,
		WindowEnd:   now,
		Records:     len(records),
	}
	for _, rec := range records {
		snapshot.TotalOre += rec.OreExtractedTonnes
		snapshot.TotalWaste += rec.WasteRemovedTonnes
	}

	if t.rdb != nil {
		if data, err := json.Marshal(snapshot); err == nil {
			t.rdb.Set(ctx, hourlyProductionKey, data, 2*time.Hour)
		}
	}

	t.logger.Info("Hourly production snapshot",
		zap.Int("records", snapshot.Records),
		zap.Float64("total_ore", snapshot.TotalOre),
		zap.Float64("total_waste", snapshot.TotalWaste),
	)
	return nil
}

// EquipmentMetric is one per-unit efficiency row.
type EquipmentMetric struct {
	EquipmentCode     string  `json:"equipment_code"`
	Name              string  `json:"name"`
	TotalOreExtracted float64 `json:"total_ore_extracted"`
	OperatingHours    float64 `json:"operating_hours"`
	TonnesPerHour     float64 `json:"tonnes_per_hour"`
}

const equipmentMetricsKey = "jobs:equipment_metrics"

// Efficiency is ore moved per operating hour. Units with no recorded
// hours score zero instead of dividing by zero.
func Efficiency(totalOre, operatingHours float64) float64 {
	if operatingHours <= 0 {
		return 0
	}
	return totalOre / operatingHours
}

// EquipmentMetrics joins lifetime utilization with per-unit operating
// hours and publishes efficiency figures.
func (t *Tasks) EquipmentMetrics(ctx context.Context) error {
	util, err := t.analytics.GetEquipmentUtilization(ctx)
	if err != nil {
		return err
	}

	units, err := t.repos.Equipment.List(ctx, 0, 10000, repository.EquipmentFilter{})
	if err != nil {
		return err
	}
	hoursByCode := make(map[string]float64, len(units))
	for _, u := range units {
		hoursByCode[u.EquipmentCode] = u.OperatingHours
	}

	metrics := make([]EquipmentMetric, 0, len(util))
	for _, u := range util {
		hours := hoursByCode[u.EquipmentCode]
		metrics = append(metrics, EquipmentMetric{
			EquipmentCode:     u.EquipmentCode,
			Name:              u.Name,
			TotalOreExtracted: u.TotalOreExtracted,
			OperatingHours:    hours,
			TonnesPerHour:     Efficiency(u.TotalOreExtracted, hours),
		})
	}

	if t.rdb != nil {
		if data, err := json.Marshal(metrics); err == nil {
			t.rdb.Set(ctx, equipmentMetricsKey, data, 8*time.Hour)
		}
	}

	t.logger.Info("Equipment metrics computed", zap.Int("units", len(metrics)))
	return nil
}

// MaintenanceAlerts reports equipment with maintenance due in the next
// seven days or already overdue, plus the open work backlog. This is a
// reporting pass, it mutates nothing.
func (t *Tasks) MaintenanceAlerts(ctx context.Context) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	upcoming, err := t.repos.Equipment.ListMaintenanceDue(ctx, today, today.AddDate(0, 0, 7))
	if err != nil {
		return err
	}
	overdue, err := t.repos.Equipment.ListMaintenanceOverdue(ctx, today)
	if err != nil {
		return err
	}
	pending, err := t.repos.Maintenance.CountIncomplete(ctx)
	if err != nil {
		return err
	}

	for _, e := range overdue {
		t.logger.Warn("Equipment maintenance overdue",
			zap.String("equipment_code", e.EquipmentCode),
			zap.Timep("next_maintenance_date", e.NextMaintenanceDate),
		)
	}
	for _, e := range upcoming {
		t.logger.Info("Equipment maintenance due soon",
			zap.String("equipment_code", e.EquipmentCode),
			zap.Timep("next_maintenance_date", e.NextMaintenanceDate),
		)
	}

	t.logger.Info("Maintenance alert sweep finished",
		zap.Int("upcoming", len(upcoming)),
		zap.Int("overdue", len(overdue)),
		zap.Int64("pending_logs", pending),
	)
	return nil
}

// RetentionCheck counts records older than the retention window. It only
// reports; nothing is deleted until an operator signs off.
func (t *Tasks) RetentionCheck(ctx context.Context) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -t.retentionDays)

	oldShifts, err := t.repos.Shift.CountBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	oldLogs, err := t.repos.Maintenance.CountCompletedBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	t.logger.Info("Retention audit",
		zap.Time("cutoff", cutoff),
		zap.Int64("shifts_past_retention", oldShifts),
		zap.Int64("completed_logs_past_retention", oldLogs),
	)
	return nil
}
