package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DailyReport is the rendered shape of the daily production report.
type DailyReport struct {
	ReportDate  time.Time `json:"report_date"`
	GeneratedAt time.Time `json:"generated_at"`

	TotalOreTonnes    float64 `json:"total_ore_tonnes"`
	TotalWasteTonnes  float64 `json:"total_waste_tonnes"`
	AverageOreGrade   float64 `json:"average_ore_grade"`
	ProductionRecords int     `json:"production_records"`

	TotalShifts   int `json:"total_shifts"`
	TotalWorkers  int `json:"total_workers"`
	EquipmentUsed int `json:"equipment_used"`
}

// ReportExportService writes generated reports to XLSX files and, when an
// object-store client is configured, uploads them.
type ReportExportService struct {
	exportDir string
	mc        *minio.Client
	bucket    string
	logger    *zap.Logger
}

func NewReportExportService(exportDir string, mc *minio.Client, bucket string, logger *zap.Logger) *ReportExportService {
	return &ReportExportService{
		exportDir: exportDir,
		mc:        mc,
		bucket:    bucket,
		logger:    logger,
	}
}

// ExportDailyReport renders the report as a one-sheet workbook and returns
// the local file path. Upload failures are logged, not returned: the local
// file is the report of record.
func (s *ReportExportService) ExportDailyReport(ctx context.Context, report *DailyReport) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Daily Report"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	rows := [][]interface{}{
		{"Report Date", report.ReportDate.Format("2006-01-02")},
		{"Generated At", report.GeneratedAt.Format(time.RFC3339)},
		{},
		{"Total Ore (t)", report.TotalOreTonnes},
		{"Total Waste (t)", report.TotalWasteTonnes},
		{"Average Ore Grade (%)", report.AverageOreGrade},
		{"Production Records", report.ProductionRecords},
		{},
		{"Total Shifts", report.TotalShifts},
		{"Total Workers", report.TotalWorkers},
		{"Equipment Used", report.EquipmentUsed},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	filename := fmt.Sprintf("daily-report-%s.xlsx", report.ReportDate.Format("2006-01-02"))
	path := filepath.Join(s.exportDir, filename)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	if s.mc != nil && s.bucket != "" {
		objectName := "daily-reports/" + filename
		_, err := s.mc.FPutObject(ctx, s.bucket, objectName, path, minio.PutObjectOptions{
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		})
		if err != nil {
			s.logger.Warn("Failed to upload report to object store",
				zap.String("object", objectName),
				zap.Error(err),
			)
		} else {
			s.logger.Info("Report uploaded",
				zap.String("bucket", s.bucket),
				zap.String("object", objectName),
			)
		}
	}

	return path, nil
}
