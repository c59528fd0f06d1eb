package entity

import (
	"time"
)

// Shift is a scheduled work period on a given date, section and crew.
type Shift struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	ShiftDate    time.Time  `json:"shift_date" gorm:"type:date;not null;index"`
	ShiftType    string     `json:"shift_type" gorm:"size:16;not null"`
	MineSection  string     `json:"mine_section" gorm:"size:100;not null"`
	SupervisorID *uint      `json:"supervisor_id"`
	WorkersCount int        `json:"workers_count" gorm:"not null;default:0"`
	StartTime    time.Time  `json:"start_time" gorm:"not null"`
	EndTime      *time.Time `json:"end_time"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Associations
	Supervisor *User `json:"supervisor,omitempty" gorm:"foreignKey:SupervisorID"`
}

func (Shift) TableName() string {
	return "mining_shifts"
}

// ProductionRecord is a single ore/waste measurement taken during a shift,
// optionally attributed to a piece of equipment.
type ProductionRecord struct {
	ID          uint  `json:"id" gorm:"primaryKey"`
	ShiftID     uint  `json:"shift_id" gorm:"not null;index"`
	EquipmentID *uint `json:"equipment_id" gorm:"index"`

	OreExtractedTonnes float64 `json:"ore_extracted_tonnes" gorm:"not null;default:0"`
	WasteRemovedTonnes float64 `json:"waste_removed_tonnes" gorm:"not null;default:0"`
	OreGradePercentage float64 `json:"ore_grade_percentage" gorm:"not null;default:0"`
	DepthMeters        float64 `json:"depth_meters" gorm:"not null;default:0"`

	MiningLevel string `json:"mining_level" gorm:"size:50"`
	StopeNumber string `json:"stope_number" gorm:"size:50"`

	ContaminationLevel float64 `json:"contamination_level" gorm:"not null;default:0"`
	MoistureContent    float64 `json:"moisture_content" gorm:"not null;default:0"`

	RecordedAt time.Time `json:"recorded_at" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Shift     *Shift     `json:"shift,omitempty" gorm:"foreignKey:ShiftID"`
	Equipment *Equipment `json:"equipment,omitempty" gorm:"foreignKey:EquipmentID"`
}

func (ProductionRecord) TableName() string {
	return "production_records"
}

// Equipment is a mining equipment registry entry.
type Equipment struct {
	ID               uint   `json:"id" gorm:"primaryKey"`
	EquipmentCode    string `json:"equipment_code" gorm:"size:50;not null;uniqueIndex"`
	Name             string `json:"name" gorm:"size:200;not null"`
	EquipmentType    string `json:"equipment_type" gorm:"size:100;not null"`
	Manufacturer     string `json:"manufacturer" gorm:"size:100"`
	Model            string `json:"model" gorm:"size:100"`
	YearManufactured *int   `json:"year_manufactured"`

	Status         string   `json:"status" gorm:"size:16;not null;default:operational"`
	CapacityTonnes *float64 `json:"capacity_tonnes"`
	FuelType       string   `json:"fuel_type" gorm:"size:50"`
	OperatingHours float64  `json:"operating_hours" gorm:"not null;default:0"`

	CurrentLocation string `json:"current_location" gorm:"size:100"`
	AssignedSection string `json:"assigned_section" gorm:"size:100"`

	CommissionedDate    *time.Time `json:"commissioned_date" gorm:"type:date"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date" gorm:"type:date"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date" gorm:"type:date"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (Equipment) TableName() string {
	return "equipment"
}

// MaintenanceLog records a maintenance job performed or scheduled on equipment.
type MaintenanceLog struct {
	ID          uint `json:"id" gorm:"primaryKey"`
	EquipmentID uint `json:"equipment_id" gorm:"not null;index"`

	MaintenanceType string `json:"maintenance_type" gorm:"size:16;not null"`
	Description     string `json:"description" gorm:"type:text;not null"`
	TechnicianName  string `json:"technician_name" gorm:"size:200"`

	LaborHours float64 `json:"labor_hours" gorm:"not null;default:0"`
	PartsCost  float64 `json:"parts_cost" gorm:"not null;default:0"`
	TotalCost  float64 `json:"total_cost" gorm:"not null;default:0"`

	PartsReplaced string `json:"parts_replaced" gorm:"type:text"`

	IsCompleted   bool       `json:"is_completed" gorm:"not null;default:false"`
	ScheduledDate *time.Time `json:"scheduled_date" gorm:"type:date"`
	CompletedDate *time.Time `json:"completed_date" gorm:"type:date"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Equipment *Equipment `json:"equipment,omitempty" gorm:"foreignKey:EquipmentID"`
}

func (MaintenanceLog) TableName() string {
	return "maintenance_logs"
}

// Shift types
const (
	ShiftTypeMorning   = "morning"
	ShiftTypeAfternoon = "afternoon"
	ShiftTypeNight     = "night"
	ShiftTypeDay       = "day"
)

// Equipment statuses
const (
	EquipmentStatusOperational    = "operational"
	EquipmentStatusMaintenance    = "maintenance"
	EquipmentStatusRepair         = "repair"
	EquipmentStatusDecommissioned = "decommissioned"
)

// Maintenance types
const (
	MaintenanceTypePreventive = "preventive"
	MaintenanceTypeCorrective = "corrective"
	MaintenanceTypeEmergency  = "emergency"
	MaintenanceTypeScheduled  = "scheduled"
)

// ValidShiftType reports whether t is one of the known shift types.
func ValidShiftType(t string) bool {
	switch t {
	case ShiftTypeMorning, ShiftTypeAfternoon, ShiftTypeNight, ShiftTypeDay:
		return true
	}
	return false
}

// ValidEquipmentStatus reports whether s is one of the known equipment statuses.
func ValidEquipmentStatus(s string) bool {
	switch s {
	case EquipmentStatusOperational, EquipmentStatusMaintenance,
		EquipmentStatusRepair, EquipmentStatusDecommissioned:
		return true
	}
	return false
}

// ValidMaintenanceType reports whether t is one of the known maintenance types.
func ValidMaintenanceType(t string) bool {
	switch t {
	case MaintenanceTypePreventive, MaintenanceTypeCorrective,
		MaintenanceTypeEmergency, MaintenanceTypeScheduled:
		return true
	}
	return false
}
