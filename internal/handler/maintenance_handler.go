package handler

import (
	"strconv"
	"time"

	"github.com/anisossss/mining-ops/internal/model/entity"
	"github.com/anisossss/mining-ops/internal/repository"
	"github.com/gin-gonic/gin"
)

// MaintenanceHandler exposes create/read/update over maintenance logs.
type MaintenanceHandler struct {
	repo *repository.MaintenanceRepository
}

func NewMaintenanceHandler(repo *repository.MaintenanceRepository) *MaintenanceHandler {
	return &MaintenanceHandler{repo: repo}
}

type createMaintenanceRequest struct {
	EquipmentID     uint   `json:"equipment_id" binding:"required"`
	MaintenanceType string `json:"maintenance_type" binding:"required"`
	Description     string `json:"description" binding:"required"`
	TechnicianName  string `json:"technician_name"`

	LaborHours float64 `json:"labor_hours" binding:"gte=0"`
	PartsCost  float64 `json:"parts_cost" binding:"gte=0"`
	TotalCost  float64 `json:"total_cost" binding:"gte=0"`

	PartsReplaced string     `json:"parts_replaced"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

// Create opens a new maintenance log for an equipment unit.
func (h *MaintenanceHandler) Create(c *gin.Context) {
	var req createMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if !entity.ValidMaintenanceType(req.MaintenanceType) {
		BadRequest(c, "Unknown maintenance_type: "+req.MaintenanceType)
		return
	}

	log := &entity.MaintenanceLog{
		EquipmentID:     req.EquipmentID,
		MaintenanceType: req.MaintenanceType,
		Description:     req.Description,
		TechnicianName:  req.TechnicianName,
		LaborHours:      req.LaborHours,
		PartsCost:       req.PartsCost,
		TotalCost:       req.TotalCost,
		PartsReplaced:   req.PartsReplaced,
		ScheduledDate:   req.ScheduledDate,
	}
	if err := h.repo.Create(c.Request.Context(), log); err != nil {
		repoError(c, err, "Maintenance log not found")
		return
	}

	Created(c, log)
}

// List returns maintenance logs filtered by equipment and completion.
func (h *MaintenanceHandler) List(c *gin.Context) {
	skip, limit := GetPaging(c)

	var filter repository.MaintenanceFilter
	if raw := c.Query("equipment_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			BadRequest(c, "Invalid equipment_id")
			return
		}
		id := uint(v)
		filter.EquipmentID = &id
	}
	if raw := c.Query("is_completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			BadRequest(c, "Invalid is_completed")
			return
		}
		filter.IsCompleted = &v
	}

	logs, err := h.repo.List(c.Request.Context(), skip, limit, filter)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, logs)
}

// Get returns one maintenance log by id.
func (h *MaintenanceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	log, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		repoError(c, err, "Maintenance log not found")
		return
	}

	Success(c, log)
}

type updateMaintenanceRequest struct {
	Description    entity.Optional[string]    `json:"description"`
	TechnicianName entity.Optional[string]    `json:"technician_name"`
	LaborHours     entity.Optional[float64]   `json:"labor_hours"`
	PartsCost      entity.Optional[float64]   `json:"parts_cost"`
	TotalCost      entity.Optional[float64]   `json:"total_cost"`
	PartsReplaced  entity.Optional[string]    `json:"parts_replaced"`
	IsCompleted    entity.Optional[bool]      `json:"is_completed"`
	CompletedDate  entity.Optional[time.Time] `json:"completed_date"`
}

// Update applies a partial update, typically closing the log out.
func (h *MaintenanceHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if req.Description.Set && (!req.Description.Valid || req.Description.Value == "") {
		BadRequest(c, "description must not be empty")
		return
	}
	for name, f := range map[string]entity.Optional[float64]{
		"labor_hours": req.LaborHours,
		"parts_cost":  req.PartsCost,
		"total_cost":  req.TotalCost,
	} {
		if f.Set && (!f.Valid || f.Value < 0) {
			BadRequest(c, name+" must be >= 0")
			return
		}
	}

	updates := map[string]interface{}{}
	req.Description.Apply(updates, "description")
	req.TechnicianName.Apply(updates, "technician_name")
	req.LaborHours.Apply(updates, "labor_hours")
	req.PartsCost.Apply(updates, "parts_cost")
	req.TotalCost.Apply(updates, "total_cost")
	req.PartsReplaced.Apply(updates, "parts_replaced")
	req.IsCompleted.Apply(updates, "is_completed")
	req.CompletedDate.Apply(updates, "completed_date")

	log, err := h.repo.UpdateFields(c.Request.Context(), id, updates)
	if err != nil {
		repoError(c, err, "Maintenance log not found")
		return
	}

	Success(c, log)
}
