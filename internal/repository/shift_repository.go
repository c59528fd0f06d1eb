package repository

import (
	"context"
	"errors"
	"time"

	"github.com/anisossss/mining-ops/internal/model/entity"
	"gorm.io/gorm"
)

// ShiftRepository is keyed CRUD over mining shifts.
type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) Create(ctx context.Context, shift *entity.Shift) error {
	return translateError(r.db.WithContext(ctx).Create(shift).Error)
}

func (r *ShiftRepository) FindByID(ctx context.Context, id uint) (*entity.Shift, error) {
	var shift entity.Shift
	err := r.db.WithContext(ctx).
		Preload("Supervisor").
		Where("id = ?", id).
		First(&shift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &shift, nil
}

// ShiftFilter narrows List. Zero values mean "no constraint".
type ShiftFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	MineSection string
}

// List returns shifts newest-first with offset/limit paging.
func (r *ShiftRepository) List(ctx context.Context, skip, limit int, filter ShiftFilter) ([]entity.Shift, error) {
	var shifts []entity.Shift

	query := r.db.WithContext(ctx).Model(&entity.Shift{})

	if filter.StartDate != nil {
		query = query.Where("shift_date >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("shift_date <= ?", filter.EndDate)
	}
	if filter.MineSection != "" {
		query = query.Where("mine_section = ?", filter.MineSection)
	}

	err := query.
		Order("shift_date DESC").
		Offset(skip).
		Limit(limit).
		Find(&shifts).Error

	return shifts, err
}

// UpdateFields applies a partial update. Only keys present in updates are
// written; callers build the map from an Optional-based patch request.
func (r *ShiftRepository) UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) (*entity.Shift, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&entity.Shift{}).
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

// Delete removes a shift. Shifts that still own production records are not
// deleted; the caller gets ErrHasDependents and must resolve them first.
func (r *ShiftRepository) Delete(ctx context.Context, id uint) error {
	var dependents int64
	if err := r.db.WithContext(ctx).
		Model(&entity.ProductionRecord{}).
		Where("shift_id = ?", id).
		Count(&dependents).Error; err != nil {
		return err
	}
	if dependents > 0 {
		return ErrHasDependents
	}

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.Shift{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountBefore counts shifts dated strictly before cutoff. Used by the
// retention check, which reports without deleting.
func (r *ShiftRepository) CountBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Shift{}).
		Where("shift_date < ?", cutoff).
		Count(&count).Error
	return count, err
}
