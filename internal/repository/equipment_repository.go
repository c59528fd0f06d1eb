package repository

import (
	"context"
	"errors"
	"time"

	"github.com/anisossss/mining-ops/internal/model/entity"
	"gorm.io/gorm"
)

// EquipmentRepository is keyed CRUD over the equipment registry.
// equipment_code is the business key; FindByCode resolves it.
type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) Create(ctx context.Context, equipment *entity.Equipment) error {
	return translateError(r.db.WithContext(ctx).Create(equipment).Error)
}

func (r *EquipmentRepository) FindByID(ctx context.Context, id uint) (*entity.Equipment, error) {
	var equipment entity.Equipment
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&equipment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &equipment, nil
}

func (r *EquipmentRepository) FindByCode(ctx context.Context, code string) (*entity.Equipment, error) {
	var equipment entity.Equipment
	err := r.db.WithContext(ctx).
		Where("equipment_code = ?", code).
		First(&equipment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &equipment, nil
}

// EquipmentFilter narrows List. Empty strings mean "no constraint".
type EquipmentFilter struct {
	Status        string
	EquipmentType string
}

// List returns equipment ordered by code.
func (r *EquipmentRepository) List(ctx context.Context, skip, limit int, filter EquipmentFilter) ([]entity.Equipment, error) {
	var items []entity.Equipment

	query := r.db.WithContext(ctx).Model(&entity.Equipment{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EquipmentType != "" {
		query = query.Where("equipment_type = ?", filter.EquipmentType)
	}

	err := query.
		Order("equipment_code ASC").
		Offset(skip).
		Limit(limit).
		Find(&items).Error

	return items, err
}

func (r *EquipmentRepository) UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) (*entity.Equipment, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&entity.Equipment{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// ListMaintenanceDue returns operational equipment whose next maintenance
// date falls inside [from, to] inclusive.
func (r *EquipmentRepository) ListMaintenanceDue(ctx context.Context, from, to time.Time) ([]entity.Equipment, error) {
	var items []entity.Equipment
	err := r.db.WithContext(ctx).
		Where("next_maintenance_date >= ? AND next_maintenance_date <= ? AND status = ?",
			from, to, entity.EquipmentStatusOperational).
		Order("next_maintenance_date ASC").
		Find(&items).Error
	return items, err
}

// ListMaintenanceOverdue returns operational equipment whose next
// maintenance date is strictly before today.
func (r *EquipmentRepository) ListMaintenanceOverdue(ctx context.Context, today time.Time) ([]entity.Equipment, error) {
	var items []entity.Equipment
	err := r.db.WithContext(ctx).
		Where("next_maintenance_date < ? AND status = ?",
			today, entity.EquipmentStatusOperational).
		Order("next_maintenance_date ASC").
		Find(&items).Error
	return items, err
}
