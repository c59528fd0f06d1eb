package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/anisossss/mining-ops/internal/model/entity"
	"github.com/anisossss/mining-ops/internal/repository"
	"github.com/anisossss/mining-ops/internal/testutil"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupMaintenanceTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	maintenanceHandler := NewMaintenanceHandler(repos.Maintenance)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	logs := api.Group("/maintenance-logs")
	logs.GET("", maintenanceHandler.List)
	logs.POST("", maintenanceHandler.Create)
	logs.GET("/:id", maintenanceHandler.Get)
	logs.PATCH("/:id", maintenanceHandler.Update)

	return router, db
}

func TestMaintenanceCreate(t *testing.T) {
	router, db := setupMaintenanceTest(t)
	token := testutil.DefaultTestToken()

	eq := testutil.SeedEquipment(t, db, "EXC-500", "Excavator 500", "excavator")

	w := testutil.DoRequest(router, "POST", "/api/v1/maintenance-logs", map[string]interface{}{
		"equipment_id":     eq.ID,
		"maintenance_type": "preventive",
		"description":      "500h service",
		"technician_name":  "R. Vega",
		"labor_hours":      4.5,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["is_completed"] != false {
		t.Errorf("Expected new log open, got %v", data["is_completed"])
	}
}

func TestMaintenanceCreateUnknownEquipment(t *testing.T) {
	router, _ := setupMaintenanceTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/maintenance-logs", map[string]interface{}{
		"equipment_id":     99999,
		"maintenance_type": "corrective",
		"description":      "ghost job",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unknown equipment, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMaintenanceCreateRejectsUnknownType(t *testing.T) {
	router, db := setupMaintenanceTest(t)
	token := testutil.DefaultTestToken()

	eq := testutil.SeedEquipment(t, db, "EXC-501", "Excavator 501", "excavator")

	w := testutil.DoRequest(router, "POST", "/api/v1/maintenance-logs", map[string]interface{}{
		"equipment_id":     eq.ID,
		"maintenance_type": "cosmetic",
		"description":      "paint job",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unknown type, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMaintenanceListCompletionFilter(t *testing.T) {
	router, db := setupMaintenanceTest(t)
	token := testutil.DefaultTestToken()

	eq := testutil.SeedEquipment(t, db, "EXC-502", "Excavator 502", "excavator")
	testutil.SeedMaintenance(t, db, eq.ID, entity.MaintenanceTypePreventive, true)
	testutil.SeedMaintenance(t, db, eq.ID, entity.MaintenanceTypeCorrective, false)
	testutil.SeedMaintenance(t, db, eq.ID, entity.MaintenanceTypeEmergency, false)

	w := testutil.DoRequest(router, "GET", "/api/v1/maintenance-logs?is_completed=false", nil, token)
	data := testutil.ParseResponse(w)["data"].([]interface{})
	if len(data) != 2 {
		t.Errorf("Expected 2 open logs, got %d", len(data))
	}

	w = testutil.DoRequest(router, "GET", fmt.Sprintf("/api/v1/maintenance-logs?equipment_id=%d&is_completed=true", eq.ID), nil, token)
	data = testutil.ParseResponse(w)["data"].([]interface{})
	if len(data) != 1 {
		t.Errorf("Expected 1 completed log, got %d", len(data))
	}
}

func TestMaintenanceCloseOut(t *testing.T) {
	router, db := setupMaintenanceTest(t)
	token := testutil.DefaultTestToken()

	eq := testutil.SeedEquipment(t, db, "EXC-503", "Excavator 503", "excavator")
	log := testutil.SeedMaintenance(t, db, eq.ID, entity.MaintenanceTypeScheduled, false)

	w := testutil.DoRequest(router, "PATCH", fmt.Sprintf("/api/v1/maintenance-logs/%d", log.ID),
		map[string]interface{}{
			"is_completed":   true,
			"completed_date": "2026-08-20T00:00:00Z",
			"total_cost":     850.0,
		}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["is_completed"] != true {
		t.Errorf("Expected log closed, got %v", data["is_completed"])
	}
	if data["completed_date"] == nil {
		t.Error("Expected completed_date set")
	}
	if data["total_cost"].(float64) != 850.0 {
		t.Errorf("Expected total cost recorded, got %v", data["total_cost"])
	}
}
