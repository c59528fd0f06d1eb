package handler

import (
	"time"

	"github.com/anisossss/mining-ops/internal/model/entity"
	"github.com/anisossss/mining-ops/internal/repository"
	"github.com/gin-gonic/gin"
)

// EquipmentHandler exposes CRUD over the equipment registry. Equipment is
// never deleted through the API; it is decommissioned via status.
type EquipmentHandler struct {
	repo *repository.EquipmentRepository
}

func NewEquipmentHandler(repo *repository.EquipmentRepository) *EquipmentHandler {
	return &EquipmentHandler{repo: repo}
}

type createEquipmentRequest struct {
	EquipmentCode    string `json:"equipment_code" binding:"required,max=50"`
	Name             string `json:"name" binding:"required,max=200"`
	EquipmentType    string `json:"equipment_type" binding:"required,max=100"`
	Manufacturer     string `json:"manufacturer"`
	Model            string `json:"model"`
	YearManufactured *int   `json:"year_manufactured"`

	Status           string     `json:"status"`
	CapacityTonnes   *float64   `json:"capacity_tonnes"`
	FuelType         string     `json:"fuel_type"`
	CurrentLocation  string     `json:"current_location"`
	AssignedSection  string     `json:"assigned_section"`
	CommissionedDate *time.Time `json:"commissioned_date"`
}

// Create registers a new equipment unit.
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req createEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	status := req.Status
	if status == "" {
		status = entity.EquipmentStatusOperational
	}
	if !entity.ValidEquipmentStatus(status) {
		BadRequest(c, "Unknown status: "+req.Status)
		return
	}
	if req.YearManufactured != nil && (*req.YearManufactured < 1900 || *req.YearManufactured > 2100) {
		BadRequest(c, "year_manufactured must be between 1900 and 2100")
		return
	}
	if req.CapacityTonnes != nil && *req.CapacityTonnes < 0 {
		BadRequest(c, "capacity_tonnes must be >= 0")
		return
	}

	equipment := &entity.Equipment{
		EquipmentCode:    req.EquipmentCode,
		Name:             req.Name,
		EquipmentType:    req.EquipmentType,
		Manufacturer:     req.Manufacturer,
		Model:            req.Model,
		YearManufactured: req.YearManufactured,
		Status:           status,
		CapacityTonnes:   req.CapacityTonnes,
		FuelType:         req.FuelType,
		CurrentLocation:  req.CurrentLocation,
		AssignedSection:  req.AssignedSection,
		CommissionedDate: req.CommissionedDate,
	}
	if err := h.repo.Create(c.Request.Context(), equipment); err != nil {
		repoError(c, err, "Equipment not found")
		return
	}

	Created(c, equipment)
}

// List returns equipment filtered by status and type.
func (h *EquipmentHandler) List(c *gin.Context) {
	skip, limit := GetPaging(c)

	status := c.Query("status")
	if status != "" && !entity.ValidEquipmentStatus(status) {
		BadRequest(c, "Unknown status: "+status)
		return
	}

	items, err := h.repo.List(c.Request.Context(), skip, limit, repository.EquipmentFilter{
		Status:        status,
		EquipmentType: c.Query("equipment_type"),
	})
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, items)
}

// Get returns one equipment unit by id.
func (h *EquipmentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	equipment, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		repoError(c, err, "Equipment not found")
		return
	}

	Success(c, equipment)
}

// GetByCode resolves an equipment unit by its business key.
func (h *EquipmentHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		BadRequest(c, "Equipment code is required")
		return
	}

	equipment, err := h.repo.FindByCode(c.Request.Context(), code)
	if err != nil {
		repoError(c, err, "Equipment not found")
		return
	}

	Success(c, equipment)
}

type updateEquipmentRequest struct {
	Name                entity.Optional[string]    `json:"name"`
	Status              entity.Optional[string]    `json:"status"`
	CurrentLocation     entity.Optional[string]    `json:"current_location"`
	AssignedSection     entity.Optional[string]    `json:"assigned_section"`
	OperatingHours      entity.Optional[float64]   `json:"operating_hours"`
	LastMaintenanceDate entity.Optional[time.Time] `json:"last_maintenance_date"`
	NextMaintenanceDate entity.Optional[time.Time] `json:"next_maintenance_date"`
}

// Update applies a partial update. An explicit null clears the nullable
// maintenance dates.
func (h *EquipmentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if req.Name.Set && (!req.Name.Valid || req.Name.Value == "") {
		BadRequest(c, "name must not be empty")
		return
	}
	if req.Status.Set && (!req.Status.Valid || !entity.ValidEquipmentStatus(req.Status.Value)) {
		BadRequest(c, "Unknown status")
		return
	}
	if req.OperatingHours.Set && req.OperatingHours.Valid && req.OperatingHours.Value < 0 {
		BadRequest(c, "operating_hours must be >= 0")
		return
	}

	updates := map[string]interface{}{}
	req.Name.Apply(updates, "name")
	req.Status.Apply(updates, "status")
	req.CurrentLocation.Apply(updates, "current_location")
	req.AssignedSection.Apply(updates, "assigned_section")
	req.OperatingHours.Apply(updates, "operating_hours")
	req.LastMaintenanceDate.Apply(updates, "last_maintenance_date")
	req.NextMaintenanceDate.Apply(updates, "next_maintenance_date")

	equipment, err := h.repo.UpdateFields(c.Request.Context(), id, updates)
	if err != nil {
		repoError(c, err, "Equipment not found")
		return
	}

	Success(c, equipment)
}
