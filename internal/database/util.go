package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MSMelok/FlixHiringManagement/internal/model"
	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
)

// ApplyTransition commits a validated transition plan: the applicant's
// stage (and scheduled date when the plan names one) is updated first,
// then the history entry is appended, inside one transaction so a reader
// never observes a stage change without its audit record.
func (d *DBinstanceStruct) ApplyTransition(applicant *model.Applicant, plan pipeline.TransitionPlan, fingerprint *string) (model.StageHistory, error) {
	history := model.NewStageHistory(applicant.ID, plan.History, fingerprint)

	err := d.Transaction(func(tx *gorm.DB) error {
		applicant.CurrentStage = plan.Stage
		if plan.DateField != "" {
			applicant.SetScheduledDate(plan.DateField, plan.Date)
		}
		applicant.Fingerprint = fingerprint

		if err := tx.Save(applicant).Error; err != nil {
			return err
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return model.StageHistory{}, err
	}
	return history, nil
}

// RecordActivity appends a feed row and prunes everything beyond the
// retention cap, oldest first.
func (d *DBinstanceStruct) RecordActivity(activity *model.RecentActivity) error {
	return d.Transaction(func(tx *gorm.DB) error {
		if activity.CreatedAt.IsZero() {
			activity.CreatedAt = time.Now().UTC()
		}
		if err := tx.Create(activity).Error; err != nil {
			return err
		}

		var stale []uuid.UUID
		err := tx.Model(&model.RecentActivity{}).
			Order("created_at DESC").
			Offset(model.RecentActivityCap).
			Pluck("id", &stale).Error
		if err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}
		return tx.Where("id IN ?", stale).Delete(&model.RecentActivity{}).Error
	})
}

// EraseAll removes every applicant record and its audit trail. History
// rows go first to respect the foreign key; the whole erasure is atomic.
func (d *DBinstanceStruct) EraseAll() error {
	return d.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.StageHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.RecentActivity{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&model.Applicant{}).Error
	})
}
