package handler

import (
	"time"

	"github.com/anisossss/mining-ops/internal/model/entity"
	"github.com/anisossss/mining-ops/internal/repository"
	"github.com/gin-gonic/gin"
)

// ShiftHandler exposes CRUD over mining shifts.
type ShiftHandler struct {
	repo *repository.ShiftRepository
}

func NewShiftHandler(repo *repository.ShiftRepository) *ShiftHandler {
	return &ShiftHandler{repo: repo}
}

type createShiftRequest struct {
	ShiftDate    string     `json:"shift_date" binding:"required"`
	ShiftType    string     `json:"shift_type" binding:"required"`
	MineSection  string     `json:"mine_section" binding:"required,max=100"`
	SupervisorID *uint      `json:"supervisor_id"`
	WorkersCount int        `json:"workers_count" binding:"gte=0"`
	StartTime    time.Time  `json:"start_time" binding:"required"`
	EndTime      *time.Time `json:"end_time"`
	Notes        string     `json:"notes"`
}

// Create records a new shift.
func (h *ShiftHandler) Create(c *gin.Context) {
	var req createShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	shiftDate, err := time.Parse(dateLayout, req.ShiftDate)
	if err != nil {
		BadRequest(c, "Invalid shift_date, expected YYYY-MM-DD")
		return
	}
	if !entity.ValidShiftType(req.ShiftType) {
		BadRequest(c, "Unknown shift_type: "+req.ShiftType)
		return
	}

	shift := &entity.Shift{
		ShiftDate:    shiftDate,
		ShiftType:    req.ShiftType,
		MineSection:  req.MineSection,
		SupervisorID: req.SupervisorID,
		WorkersCount: req.WorkersCount,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Notes:        req.Notes,
	}
	if err := h.repo.Create(c.Request.Context(), shift); err != nil {
		repoError(c, err, "Shift not found")
		return
	}

	Created(c, shift)
}

// List returns shifts filtered by date range and mine section.
func (h *ShiftHandler) List(c *gin.Context) {
	skip, limit := GetPaging(c)

	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		return
	}

	shifts, err := h.repo.List(c.Request.Context(), skip, limit, repository.ShiftFilter{
		StartDate:   start,
		EndDate:     end,
		MineSection: c.Query("mine_section"),
	})
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, shifts)
}

// Get returns one shift by id.
func (h *ShiftHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	shift, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		repoError(c, err, "Shift not found")
		return
	}

	Success(c, shift)
}

type updateShiftRequest struct {
	ShiftType    entity.Optional[string]    `json:"shift_type"`
	MineSection  entity.Optional[string]    `json:"mine_section"`
	WorkersCount entity.Optional[int]       `json:"workers_count"`
	EndTime      entity.Optional[time.Time] `json:"end_time"`
	Notes        entity.Optional[string]    `json:"notes"`
}

// Update applies a partial update. Only fields present in the body are
// touched; an explicit null clears a nullable column.
func (h *ShiftHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if req.ShiftType.Set {
		if !req.ShiftType.Valid || !entity.ValidShiftType(req.ShiftType.Value) {
			BadRequest(c, "Unknown shift_type")
			return
		}
	}
	if req.MineSection.Set && (!req.MineSection.Valid || req.MineSection.Value == "") {
		BadRequest(c, "mine_section must not be empty")
		return
	}
	if req.WorkersCount.Set && req.WorkersCount.Valid && req.WorkersCount.Value < 0 {
		BadRequest(c, "workers_count must be >= 0")
		return
	}

	updates := map[string]interface{}{}
	req.ShiftType.Apply(updates, "shift_type")
	req.MineSection.Apply(updates, "mine_section")
	req.WorkersCount.Apply(updates, "workers_count")
	req.EndTime.Apply(updates, "end_time")
	req.Notes.Apply(updates, "notes")

	shift, err := h.repo.UpdateFields(c.Request.Context(), id, updates)
	if err != nil {
		repoError(c, err, "Shift not found")
		return
	}

	Success(c, shift)
}

// Delete removes a shift. Shifts with production records are refused.
func (h *ShiftHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		repoError(c, err, "Shift not found")
		return
	}

	Success(c, gin.H{"deleted": true})
}
