package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/anisossss/mining-ops/internal/repository"
	"github.com/anisossss/mining-ops/internal/testutil"
	"github.com/gin-gonic/gin"
)

func setupEquipmentTest(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	equipmentHandler := NewEquipmentHandler(repos.Equipment)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	equipment := api.Group("/equipment")
	equipment.GET("", equipmentHandler.List)
	equipment.POST("", equipmentHandler.Create)
	equipment.GET("/code/:code", equipmentHandler.GetByCode)
	equipment.GET("/:id", equipmentHandler.Get)
	equipment.PATCH("/:id", equipmentHandler.Update)

	return router
}

func createEquipment(t *testing.T, router *gin.Engine, token, code, name, equipmentType string) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(router, "POST", "/api/v1/equipment", map[string]interface{}{
		"equipment_code": code,
		"name":           name,
		"equipment_type": equipmentType,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)["data"].(map[string]interface{})
}

func TestEquipmentCreateDefaultsStatus(t *testing.T) {
	router := setupEquipmentTest(t)
	token := testutil.DefaultTestToken()

	eq := createEquipment(t, router, token, "EXC-100", "Excavator 100", "excavator")
	if eq["status"] != "operational" {
		t.Errorf("Expected default operational status, got %v", eq["status"])
	}
}

func TestEquipmentDuplicateCode(t *testing.T) {
	router := setupEquipmentTest(t)
	token := testutil.DefaultTestToken()

	createEquipment(t, router, token, "EXC-101", "Excavator 101", "excavator")

	w := testutil.DoRequest(router, "POST", "/api/v1/equipment", map[string]interface{}{
		"equipment_code": "EXC-101",
		"name":           "Clone",
		"equipment_type": "excavator",
	}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for duplicate code, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEquipmentGetByCode(t *testing.T) {
	router := setupEquipmentTest(t)
	token := testutil.DefaultTestToken()

	createEquipment(t, router, token, "TRK-200", "Truck 200", "haul_truck")

	w := testutil.DoRequest(router, "GET", "/api/v1/equipment/code/TRK-200", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["name"] != "Truck 200" {
		t.Errorf("Expected truck by code, got %v", data["name"])
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/equipment/code/NOPE-1", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for unknown code, got %d", w.Code)
	}
}

func TestEquipmentListStatusFilter(t *testing.T) {
	router := setupEquipmentTest(t)
	token := testutil.DefaultTestToken()

	a := createEquipment(t, router, token, "DRL-300", "Drill 300", "drill")
	createEquipment(t, router, token, "DRL-301", "Drill 301", "drill")

	id := fmt.Sprintf("%.0f", a["id"].(float64))
	w := testutil.DoRequest(router, "PATCH", "/api/v1/equipment/"+id,
		map[string]interface{}{"status": "maintenance"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/equipment?status=maintenance", nil, token)
	data := testutil.ParseResponse(w)["data"].([]interface{})
	if len(data) != 1 {
		t.Errorf("Expected 1 unit in maintenance, got %d", len(data))
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/equipment?status=broken", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unknown status filter, got %d", w.Code)
	}
}

func TestEquipmentUpdateMaintenanceDates(t *testing.T) {
	router := setupEquipmentTest(t)
	token := testutil.DefaultTestToken()

	eq := createEquipment(t, router, token, "LDR-400", "Loader 400", "loader")
	id := fmt.Sprintf("%.0f", eq["id"].(float64))

	w := testutil.DoRequest(router, "PATCH", "/api/v1/equipment/"+id, map[string]interface{}{
		"next_maintenance_date": "2026-09-15T00:00:00Z",
		"operating_hours":       120.5,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["next_maintenance_date"] == nil {
		t.Error("Expected next_maintenance_date set")
	}
	if data["operating_hours"].(float64) != 120.5 {
		t.Errorf("Expected 120.5 hours, got %v", data["operating_hours"])
	}

	// Explicit null clears the schedule.
	w = testutil.DoRequest(router, "PATCH", "/api/v1/equipment/"+id, map[string]interface{}{
		"next_maintenance_date": nil,
	}, token)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["next_maintenance_date"] != nil {
		t.Errorf("Expected schedule cleared, got %v", data["next_maintenance_date"])
	}
}

func TestEquipmentUpdateRejectsUnknownStatus(t *testing.T) {
	router := setupEquipmentTest(t)
	token := testutil.DefaultTestToken()

	eq := createEquipment(t, router, token, "LDR-401", "Loader 401", "loader")
	id := fmt.Sprintf("%.0f", eq["id"].(float64))

	w := testutil.DoRequest(router, "PATCH", "/api/v1/equipment/"+id,
		map[string]interface{}{"status": "exploded"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
