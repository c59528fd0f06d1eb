package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/anisossss/mining-ops/internal/repository"
	"github.com/anisossss/mining-ops/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the API handlers.
type Handlers struct {
	Auth        *AuthHandler
	Shift       *ShiftHandler
	Production  *ProductionHandler
	Equipment   *EquipmentHandler
	Maintenance *MaintenanceHandler
	Analytics   *AnalyticsHandler
}

func NewHandlers(svc *service.Services, repos *repository.Repositories) *Handlers {
	return &Handlers{
		Auth:        NewAuthHandler(svc.Auth),
		Shift:       NewShiftHandler(repos.Shift),
		Production:  NewProductionHandler(repos.Production),
		Equipment:   NewEquipmentHandler(repos.Equipment),
		Maintenance: NewMaintenanceHandler(repos.Maintenance),
		Analytics:   NewAnalyticsHandler(svc.Analytics),
	}
}

// Response is the common response envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes an error envelope. The HTTP status is the leading three
// digits of code.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// repoError maps access-layer sentinel errors onto the envelope so a miss,
// a conflict and a broken store stay distinguishable to clients.
func repoError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, notFoundMsg)
	case errors.Is(err, repository.ErrDuplicate):
		Conflict(c, "A record with that key already exists")
	case errors.Is(err, repository.ErrHasDependents):
		Conflict(c, "Record has dependent rows and cannot be deleted")
	case errors.Is(err, repository.ErrInvalidReference):
		BadRequest(c, "Referenced record does not exist")
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID returns the authenticated user id from the context.
func GetUserID(c *gin.Context) uint {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(uint); ok {
		return id
	}
	return 0
}

// GetPaging reads skip/limit query params with the original API's bounds.
func GetPaging(c *gin.Context) (skip, limit int) {
	skip = 0
	limit = 100

	if s := c.Query("skip"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			skip = v
		}
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v >= 1 && v <= 1000 {
			limit = v
		}
	}

	return skip, limit
}

// parseIDParam parses the :id path parameter.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

const dateLayout = "2006-01-02"

// parseDateQuery parses an optional YYYY-MM-DD query parameter.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		BadRequest(c, "Invalid "+name+", expected YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

// requireDateRange parses mandatory start_date/end_date parameters and
// rejects inverted ranges. Range validation lives here at the boundary;
// the analytics service itself stays permissive.
func requireDateRange(c *gin.Context) (start, end time.Time, ok bool) {
	startPtr, ok := parseDateQuery(c, "start_date")
	if !ok {
		return start, end, false
	}
	endPtr, ok := parseDateQuery(c, "end_date")
	if !ok {
		return start, end, false
	}
	if startPtr == nil || endPtr == nil {
		BadRequest(c, "start_date and end_date are required")
		return start, end, false
	}
	if endPtr.Before(*startPtr) {
		BadRequest(c, "start_date must not be after end_date")
		return start, end, false
	}
	return *startPtr, *endPtr, true
}
