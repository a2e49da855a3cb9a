package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/skilllink/internal/db"
)

type TrainingPlanRepository struct {
	db *gorm.DB
}

func NewTrainingPlanRepository(database *gorm.DB) *TrainingPlanRepository {
	return &TrainingPlanRepository{db: database}
}

func (r *TrainingPlanRepository) Create(ctx context.Context, plan *db.TrainingPlan) error {
	if plan.ID == "" {
		plan.ID = newSortableID()
	}
	return r.db.WithContext(ctx).Create(plan).Error
}

// FirstForMatch returns the earliest plan for the match, or nil when there is none.
func (r *TrainingPlanRepository) FirstForMatch(ctx context.Context, matchID string) (*db.TrainingPlan, error) {
	var plan db.TrainingPlan
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at, id").
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
