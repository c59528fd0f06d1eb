package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AnalyticsService computes the derived production reports. It is
// stateless and read-only: every call is a fresh set of queries against
// the store, and empty result sets come back as zeros, never as an error.
// Store failures propagate unchanged; there are no retries here.
type AnalyticsService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewAnalyticsService(db *gorm.DB, rdb *redis.Client) *AnalyticsService {
	return &AnalyticsService{db: db, rdb: rdb}
}

// ProductionStats is the period report over a date range.
type ProductionStats struct {
	TotalOreExtracted      float64   `json:"total_ore_extracted"`
	TotalWasteRemoved      float64   `json:"total_waste_removed"`
	AverageOreGrade        float64   `json:"average_ore_grade"`
	TotalShifts            int       `json:"total_shifts"`
	AverageWorkersPerShift float64   `json:"average_workers_per_shift"`
	PeriodStart            time.Time `json:"period_start"`
	PeriodEnd              time.Time `json:"period_end"`
}

// DailyProduction is one per-day rollup row.
type DailyProduction struct {
	Date          time.Time `json:"date"`
	TotalOre      float64   `json:"total_ore"`
	TotalWaste    float64   `json:"total_waste"`
	ShiftCount    int       `json:"shift_count"`
	EquipmentUsed int       `json:"equipment_used"`
}

// EquipmentUtilization is one per-equipment summary row.
type EquipmentUtilization struct {
	EquipmentCode          string  `json:"equipment_code"`
	Name                   string  `json:"name"`
	EquipmentType          string  `json:"equipment_type"`
	Status                 string  `json:"status"`
	TotalProductionRecords int     `json:"total_production_records"`
	TotalOreExtracted      float64 `json:"total_ore_extracted"`
}

// OperationsSummary composes the trailing-week stats, the top utilization
// rows and the pending maintenance backlog.
type OperationsSummary struct {
	Period struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	} `json:"period"`
	Production         ProductionStats        `json:"production"`
	EquipmentTracked   int                    `json:"equipment_tracked"`
	TopPerformers      []EquipmentUtilization `json:"top_performers"`
	PendingMaintenance int64                  `json:"pending_maintenance"`
}

// GetProductionStats aggregates production and shift figures over
// [start, end], both ends inclusive on the parent shift's date. The two
// queries are deliberately independent: the production side joins through
// shifts, the shift side never touches production rows. Range ordering is
// not checked; an inverted range matches nothing and yields the zero
// report with the range echoed back.
func (s *AnalyticsService) GetProductionStats(ctx context.Context, start, end time.Time) (*ProductionStats, error) {
	stats := &ProductionStats{
		PeriodStart: start,
		PeriodEnd:   end,
	}

	row := s.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(pr.ore_extracted_tonnes), 0) AS total_ore,
			COALESCE(SUM(pr.waste_removed_tonnes), 0) AS total_waste,
			COALESCE(AVG(pr.ore_grade_percentage), 0) AS avg_grade
		FROM production_records pr
		JOIN mining_shifts s ON pr.shift_id = s.id
		WHERE s.shift_date >= ? AND s.shift_date <= ?
	`, start, end).Row()
	if err := row.Scan(&stats.TotalOreExtracted, &stats.TotalWasteRemoved, &stats.AverageOreGrade); err != nil {
		return nil, err
	}

	row = s.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(id) AS total_shifts,
			COALESCE(AVG(workers_count), 0) AS avg_workers
		FROM mining_shifts
		WHERE shift_date >= ? AND shift_date <= ?
	`, start, end).Row()
	if err := row.Scan(&stats.TotalShifts, &stats.AverageWorkersPerShift); err != nil {
		return nil, err
	}

	return stats, nil
}

// GetDailyProduction rolls production up by shift date over [start, end].
// Only dates that actually have joined rows appear; callers must not
// assume a contiguous date series. equipment_used counts distinct non-null
// equipment ids, so a machine referenced twice in a day counts once.
func (s *AnalyticsService) GetDailyProduction(ctx context.Context, start, end time.Time) ([]DailyProduction, error) {
	rows, err := s.db.WithContext(ctx).Raw(`
		SELECT
			s.shift_date AS date,
			COALESCE(SUM(pr.ore_extracted_tonnes), 0) AS total_ore,
			COALESCE(SUM(pr.waste_removed_tonnes), 0) AS total_waste,
			COUNT(DISTINCT s.id) AS shift_count,
			COUNT(DISTINCT pr.equipment_id) AS equipment_used
		FROM mining_shifts s
		JOIN production_records pr ON pr.shift_id = s.id
		WHERE s.shift_date >= ? AND s.shift_date <= ?
		GROUP BY s.shift_date
		ORDER BY s.shift_date ASC
	`, start, end).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	daily := []DailyProduction{}
	for rows.Next() {
		var d DailyProduction
		if err := rows.Scan(&d.Date, &d.TotalOre, &d.TotalWaste, &d.ShiftCount, &d.EquipmentUsed); err != nil {
			return nil, err
		}
		daily = append(daily, d)
	}
	return daily, rows.Err()
}

// GetEquipmentUtilization summarizes production per equipment unit over
// the whole table. The left join keeps equipment with zero production
// records in the result at 0/0.0. Ordering is total ore descending with
// equipment_code ascending as the stable tie-break, so zero-production
// units sort last.
func (s *AnalyticsService) GetEquipmentUtilization(ctx context.Context) ([]EquipmentUtilization, error) {
	rows, err := s.db.WithContext(ctx).Raw(`
		SELECT
			e.equipment_code,
			e.name,
			e.equipment_type,
			e.status,
			COUNT(pr.id) AS total_records,
			COALESCE(SUM(pr.ore_extracted_tonnes), 0) AS total_ore
		FROM equipment e
		LEFT JOIN production_records pr ON pr.equipment_id = e.id
		GROUP BY e.id, e.equipment_code, e.name, e.equipment_type, e.status
		ORDER BY total_ore DESC, e.equipment_code ASC
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	util := []EquipmentUtilization{}
	for rows.Next() {
		var u EquipmentUtilization
		if err := rows.Scan(&u.EquipmentCode, &u.Name, &u.EquipmentType, &u.Status,
			&u.TotalProductionRecords, &u.TotalOreExtracted); err != nil {
			return nil, err
		}
		util = append(util, u)
	}
	return util, rows.Err()
}

// BuildDailyReport collects the figures for a single shift date. The
// production side joins through shifts like GetProductionStats does; the
// shift side sums headcount directly. A day with no shifts produces an
// all-zero report.
func (s *AnalyticsService) BuildDailyReport(ctx context.Context, day time.Time) (*DailyReport, error) {
	report := &DailyReport{
		ReportDate:  day,
		GeneratedAt: time.Now().UTC(),
	}

	row := s.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(pr.ore_extracted_tonnes), 0) AS total_ore,
			COALESCE(SUM(pr.waste_removed_tonnes), 0) AS total_waste,
			COALESCE(AVG(pr.ore_grade_percentage), 0) AS avg_grade,
			COUNT(pr.id) AS record_count,
			COUNT(DISTINCT pr.equipment_id) AS equipment_used
		FROM production_records pr
		JOIN mining_shifts s ON pr.shift_id = s.id
		WHERE s.shift_date = ?
	`, day).Row()
	if err := row.Scan(&report.TotalOreTonnes, &report.TotalWasteTonnes,
		&report.AverageOreGrade, &report.ProductionRecords, &report.EquipmentUsed); err != nil {
		return nil, err
	}

	row = s.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(id) AS total_shifts,
			COALESCE(SUM(workers_count), 0) AS total_workers
		FROM mining_shifts
		WHERE shift_date = ?
	`, day).Row()
	if err := row.Scan(&report.TotalShifts, &report.TotalWorkers); err != nil {
		return nil, err
	}

	return report, nil
}

// CountIncompleteMaintenance counts maintenance logs not yet completed.
func (s *AnalyticsService) CountIncompleteMaintenance(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(`
		SELECT COUNT(id) FROM maintenance_logs WHERE is_completed = false
	`).Row().Scan(&count)
	return count, err
}

const summaryCacheKey = "analytics:summary"
const summaryCacheTTL = 60 * time.Second

// GetSummary composes the trailing 7-day production stats, the top 5
// utilization rows and the pending maintenance count. Pure composition of
// the operations above. The result is cached briefly in redis; a cold or
// unreachable cache falls through to direct computation.
func (s *AnalyticsService) GetSummary(ctx context.Context) (*OperationsSummary, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, summaryCacheKey).Bytes(); err == nil {
			var summary OperationsSummary
			if err := json.Unmarshal(cached, &summary); err == nil {
				return &summary, nil
			}
		}
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -7)

	stats, err := s.GetProductionStats(ctx, start, end)
	if err != nil {
		return nil, err
	}

	util, err := s.GetEquipmentUtilization(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := s.CountIncompleteMaintenance(ctx)
	if err != nil {
		return nil, err
	}

	summary := &OperationsSummary{
		Production:         *stats,
		EquipmentTracked:   len(util),
		PendingMaintenance: pending,
	}
	summary.Period.Start = start
	summary.Period.End = end

	top := util
	if len(top) > 5 {
		top = top[:5]
	}
	summary.TopPerformers = top

	if s.rdb != nil {
		if data, err := json.Marshal(summary); err == nil {
			// Cache errors are not the caller's problem.
			s.rdb.Set(ctx, summaryCacheKey, data, summaryCacheTTL)
		}
	}

	return summary, nil
}
