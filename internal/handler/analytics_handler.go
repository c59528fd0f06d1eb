package handler

import (
	"github.com/anisossss/mining-ops/internal/service"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler exposes the aggregation reports.
type AnalyticsHandler struct {
	svc *service.AnalyticsService
}

func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// ProductionStats returns the period report for a date range.
func (h *AnalyticsHandler) ProductionStats(c *gin.Context) {
	start, end, ok := requireDateRange(c)
	if !ok {
		return
	}

	stats, err := h.svc.GetProductionStats(c.Request.Context(), start, end)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, stats)
}

// DailyProduction returns per-day rollups for a date range.
func (h *AnalyticsHandler) DailyProduction(c *gin.Context) {
	start, end, ok := requireDateRange(c)
	if !ok {
		return
	}

	daily, err := h.svc.GetDailyProduction(c.Request.Context(), start, end)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, daily)
}

// EquipmentUtilization returns the whole-table per-equipment summary.
func (h *AnalyticsHandler) EquipmentUtilization(c *gin.Context) {
	util, err := h.svc.GetEquipmentUtilization(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, util)
}

// Summary returns the composed operations summary.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, err := h.svc.GetSummary(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, summary)
}
