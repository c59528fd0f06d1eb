package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate signals a unique-constraint violation, e.g. on
	// equipment_code or user email.
	ErrDuplicate = errors.New("duplicate record")
	// ErrHasDependents signals a delete that would orphan referencing rows.
	ErrHasDependents = errors.New("record has dependent rows")
	// ErrInvalidReference signals a foreign key that points at nothing.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// Repositories bundles the per-entity repositories.
type Repositories struct {
	User        *UserRepository
	Shift       *ShiftRepository
	Production  *ProductionRepository
	Equipment   *EquipmentRepository
	Maintenance *MaintenanceRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Shift:       NewShiftRepository(db),
		Production:  NewProductionRepository(db),
		Equipment:   NewEquipmentRepository(db),
		Maintenance: NewMaintenanceRepository(db),
	}
}

// translateError maps driver-level errors onto the sentinel set. Postgres
// reports unique violations as SQLSTATE 23505.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicate
	}
	return err
}
