package repository

import (
	"context"
	"errors"
	"time"

	"github.com/anisossss/mining-ops/internal/model/entity"
	"gorm.io/gorm"
)

// MaintenanceRepository is keyed CRUD over maintenance logs.
type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

func (r *MaintenanceRepository) Create(ctx context.Context, log *entity.MaintenanceLog) error {
	var equipCount int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Equipment{}).
		Where("id = ?", log.EquipmentID).
		Count(&equipCount).Error; err != nil {
		return err
	}
	if equipCount == 0 {
		return ErrInvalidReference
	}
	return translateError(r.db.WithContext(ctx).Create(log).Error)
}

func (r *MaintenanceRepository) FindByID(ctx context.Context, id uint) (*entity.MaintenanceLog, error) {
	var log entity.MaintenanceLog
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Where("id = ?", id).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// MaintenanceFilter narrows List. Nil pointers mean "no constraint".
type MaintenanceFilter struct {
	EquipmentID *uint
	IsCompleted *bool
}

// List returns maintenance logs newest-first.
func (r *MaintenanceRepository) List(ctx context.Context, skip, limit int, filter MaintenanceFilter) ([]entity.MaintenanceLog, error) {
	var logs []entity.MaintenanceLog

	query := r.db.WithContext(ctx).Model(&entity.MaintenanceLog{})

	if filter.EquipmentID != nil {
		query = query.Where("equipment_id = ?", *filter.EquipmentID)
	}
	if filter.IsCompleted != nil {
		query = query.Where("is_completed = ?", *filter.IsCompleted)
	}

	err := query.
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&logs).Error

	return logs, err
}

func (r *MaintenanceRepository) UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) (*entity.MaintenanceLog, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&entity.MaintenanceLog{}).
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

// CountIncomplete counts logs not yet marked completed.
func (r *MaintenanceRepository) CountIncomplete(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.MaintenanceLog{}).
		Where("is_completed = ?", false).
		Count(&count).Error
	return count, err
}

// CountCompletedBefore counts completed logs finished strictly before
// cutoff. Used by the retention check.
func (r *MaintenanceRepository) CountCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.MaintenanceLog{}).
		Where("is_completed = ? AND completed_date < ?", true, cutoff).
		Count(&count).Error
	return count, err
}
