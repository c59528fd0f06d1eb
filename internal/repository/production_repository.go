package repository

import (
	"context"
	"errors"
	"time"

	"github.com/anisossss/mining-ops/internal/model/entity"
	"gorm.io/gorm"
)

// ProductionRepository is keyed CRUD over production records. Creates
// validate the shift (and equipment, when given) foreign keys here rather
// than relying on the store to reject the row.
type ProductionRepository struct {
	db *gorm.DB
}

func NewProductionRepository(db *gorm.DB) *ProductionRepository {
	return &ProductionRepository{db: db}
}

func (r *ProductionRepository) Create(ctx context.Context, record *entity.ProductionRecord) error {
	var shiftCount int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Shift{}).
		Where("id = ?", record.ShiftID).
		Count(&shiftCount).Error; err != nil {
		return err
	}
	if shiftCount == 0 {
		return ErrInvalidReference
	}

	if record.EquipmentID != nil {
		var equipCount int64
		if err := r.db.WithContext(ctx).
			Model(&entity.Equipment{}).
			Where("id = ?", *record.EquipmentID).
			Count(&equipCount).Error; err != nil {
			return err
		}
		if equipCount == 0 {
			return ErrInvalidReference
		}
	}

	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}

	return translateError(r.db.WithContext(ctx).Create(record).Error)
}

func (r *ProductionRepository) FindByID(ctx context.Context, id uint) (*entity.ProductionRecord, error) {
	var record entity.ProductionRecord
	err := r.db.WithContext(ctx).
		Preload("Shift").
		Preload("Equipment").
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ProductionFilter narrows List. Nil pointers mean "no constraint".
type ProductionFilter struct {
	ShiftID     *uint
	EquipmentID *uint
}

// List returns production records newest-first by recording time.
func (r *ProductionRepository) List(ctx context.Context, skip, limit int, filter ProductionFilter) ([]entity.ProductionRecord, error) {
	var records []entity.ProductionRecord

	query := r.db.WithContext(ctx).Model(&entity.ProductionRecord{})

	if filter.ShiftID != nil {
		query = query.Where("shift_id = ?", *filter.ShiftID)
	}
	if filter.EquipmentID != nil {
		query = query.Where("equipment_id = ?", *filter.EquipmentID)
	}

	err := query.
		Order("recorded_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&records).Error

	return records, err
}

func (r *ProductionRepository) UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) (*entity.ProductionRecord, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&entity.ProductionRecord{}).
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

// ListCreatedSince returns records inserted at or after since. The hourly
// summation job reads these directly instead of going through analytics.
func (r *ProductionRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]entity.ProductionRecord, error) {
	var records []entity.ProductionRecord
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Find(&records).Error
	return records, err
}
