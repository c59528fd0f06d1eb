package handler

import (
	"strconv"
	"time"

	"github.com/anisossss/mining-ops/internal/model/entity"
	"github.com/anisossss/mining-ops/internal/repository"
	"github.com/gin-gonic/gin"
)

// ProductionHandler exposes CRUD over production records. There is no
// delete: production data is append-and-correct only.
type ProductionHandler struct {
	repo *repository.ProductionRepository
}

func NewProductionHandler(repo *repository.ProductionRepository) *ProductionHandler {
	return &ProductionHandler{repo: repo}
}

type createProductionRequest struct {
	ShiftID     uint  `json:"shift_id" binding:"required"`
	EquipmentID *uint `json:"equipment_id"`

	OreExtractedTonnes float64 `json:"ore_extracted_tonnes" binding:"gte=0"`
	WasteRemovedTonnes float64 `json:"waste_removed_tonnes" binding:"gte=0"`
	OreGradePercentage float64 `json:"ore_grade_percentage" binding:"gte=0,lte=100"`
	DepthMeters        float64 `json:"depth_meters" binding:"gte=0"`

	MiningLevel string `json:"mining_level"`
	StopeNumber string `json:"stope_number"`

	ContaminationLevel float64 `json:"contamination_level" binding:"gte=0,lte=100"`
	MoistureContent    float64 `json:"moisture_content" binding:"gte=0,lte=100"`

	RecordedAt *time.Time `json:"recorded_at"`
}

// Create records a production measurement against an existing shift.
func (h *ProductionHandler) Create(c *gin.Context) {
	var req createProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	record := &entity.ProductionRecord{
		ShiftID:            req.ShiftID,
		EquipmentID:        req.EquipmentID,
		OreExtractedTonnes: req.OreExtractedTonnes,
		WasteRemovedTonnes: req.WasteRemovedTonnes,
		OreGradePercentage: req.OreGradePercentage,
		DepthMeters:        req.DepthMeters,
		MiningLevel:        req.MiningLevel,
		StopeNumber:        req.StopeNumber,
		ContaminationLevel: req.ContaminationLevel,
		MoistureContent:    req.MoistureContent,
	}
	if req.RecordedAt != nil {
		record.RecordedAt = *req.RecordedAt
	}

	if err := h.repo.Create(c.Request.Context(), record); err != nil {
		repoError(c, err, "Production record not found")
		return
	}

	Created(c, record)
}

// List returns production records filtered by shift or equipment.
func (h *ProductionHandler) List(c *gin.Context) {
	skip, limit := GetPaging(c)

	var filter repository.ProductionFilter
	if raw := c.Query("shift_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			BadRequest(c, "Invalid shift_id")
			return
		}
		id := uint(v)
		filter.ShiftID = &id
	}
	if raw := c.Query("equipment_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			BadRequest(c, "Invalid equipment_id")
			return
		}
		id := uint(v)
		filter.EquipmentID = &id
	}

	records, err := h.repo.List(c.Request.Context(), skip, limit, filter)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, records)
}

// Get returns one production record by id.
func (h *ProductionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		repoError(c, err, "Production record not found")
		return
	}

	Success(c, record)
}

type updateProductionRequest struct {
	OreExtractedTonnes entity.Optional[float64] `json:"ore_extracted_tonnes"`
	WasteRemovedTonnes entity.Optional[float64] `json:"waste_removed_tonnes"`
	OreGradePercentage entity.Optional[float64] `json:"ore_grade_percentage"`
	DepthMeters        entity.Optional[float64] `json:"depth_meters"`
	MiningLevel        entity.Optional[string]  `json:"mining_level"`
	StopeNumber        entity.Optional[string]  `json:"stope_number"`
}

// Update applies a partial update to the correctable metric fields.
func (h *ProductionHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	for name, f := range map[string]entity.Optional[float64]{
		"ore_extracted_tonnes": req.OreExtractedTonnes,
		"waste_removed_tonnes": req.WasteRemovedTonnes,
		"depth_meters":         req.DepthMeters,
	} {
		if f.Set && (!f.Valid || f.Value < 0) {
			BadRequest(c, name+" must be >= 0")
			return
		}
	}
	if g := req.OreGradePercentage; g.Set && (!g.Valid || g.Value < 0 || g.Value > 100) {
		BadRequest(c, "ore_grade_percentage must be between 0 and 100")
		return
	}

	updates := map[string]interface{}{}
	req.OreExtractedTonnes.Apply(updates, "ore_extracted_tonnes")
	req.WasteRemovedTonnes.Apply(updates, "waste_removed_tonnes")
	req.OreGradePercentage.Apply(updates, "ore_grade_percentage")
	req.DepthMeters.Apply(updates, "depth_meters")
	req.MiningLevel.Apply(updates, "mining_level")
	req.StopeNumber.Apply(updates, "stope_number")

	record, err := h.repo.UpdateFields(c.Request.Context(), id, updates)
	if err != nil {
		repoError(c, err, "Production record not found")
		return
	}

	Success(c, record)
}
