package gamification

import (
	"time"

	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
)

// ProgressService replays the live vote aggregate against the static
// threshold tables. Persisted Milestone/UnlockedContent rows only
// contribute the unlockedAt timestamps.
type ProgressService struct {
	db         *gorm.DB
	milestones []ThresholdConfig
	unlocks    []ThresholdConfig
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{
		db:         db,
		milestones: DefaultMilestones,
		unlocks:    DefaultContentUnlocks,
	}
}

// NewProgressServiceWith injects alternate threshold tables.
func NewProgressServiceWith(db *gorm.DB, milestones, unlocks []ThresholdConfig) *ProgressService {
	return &ProgressService{db: db, milestones: milestones, unlocks: unlocks}
}

// TotalVotes returns the weighted vote aggregate for a profile.
// A profile with no votes yet totals 0.
func (s *ProgressService) TotalVotes(profileID int) (int64, error) {
	var total int64
	err := s.db.Model(&models.Vote{}).
		Where("votee_id = ?", profileID).
		Select("COALESCE(SUM(weighted_count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total < 0 {
		total = 0
	}
	return total, nil
}

// MilestoneProgress builds the badge progress report for a profile.
// Returns gorm.ErrRecordNotFound when the profile does not exist.
func (s *ProgressService) MilestoneProgress(profileID int) (ProgressReport, error) {
	if err := s.db.First(&models.Profile{}, profileID).Error; err != nil {
		return ProgressReport{}, err
	}

	total, err := s.TotalVotes(profileID)
	if err != nil {
		return ProgressReport{}, err
	}

	var rows []models.Milestone
	if err := s.db.Where("profile_id = ?", profileID).Find(&rows).Error; err != nil {
		return ProgressReport{}, err
	}
	unlocked := make(map[int64]time.Time, len(rows))
	for _, row := range rows {
		unlocked[row.Threshold] = row.UnlockedAt
	}

	return ComputeProgress(total, s.milestones, unlocked), nil
}

// ContentProgress is MilestoneProgress for gated profile content.
func (s *ProgressService) ContentProgress(profileID int) (ProgressReport, error) {
	if err := s.db.First(&models.Profile{}, profileID).Error; err != nil {
		return ProgressReport{}, err
	}

	total, err := s.TotalVotes(profileID)
	if err != nil {
		return ProgressReport{}, err
	}

	var rows []models.UnlockedContent
	if err := s.db.Where("profile_id = ?", profileID).Find(&rows).Error; err != nil {
		return ProgressReport{}, err
	}
	unlocked := make(map[int64]time.Time, len(rows))
	for _, row := range rows {
		unlocked[row.Threshold] = row.UnlockedAt
	}

	return ComputeProgress(total, s.unlocks, unlocked), nil
}

// RecordCrossings persists audit rows for thresholds the profile has
// newly crossed and returns the milestone configs among them, so the
// caller can notify. Already-recorded thresholds are left untouched.
func (s *ProgressService) RecordCrossings(tx *gorm.DB, profileID int, total int64, now time.Time) ([]ThresholdConfig, error) {
	if tx == nil {
		tx = s.db
	}

	var existing []models.Milestone
	if err := tx.Where("profile_id = ?", profileID).Find(&existing).Error; err != nil {
		return nil, err
	}
	seen := make(map[int64]bool, len(existing))
	for _, row := range existing {
		seen[row.Threshold] = true
	}

	var crossed []ThresholdConfig
	for _, cfg := range s.milestones {
		if total >= cfg.Threshold && !seen[cfg.Threshold] {
			row := models.Milestone{ProfileID: profileID, Threshold: cfg.Threshold, UnlockedAt: now}
			if err := tx.Create(&row).Error; err != nil {
				return nil, err
			}
			crossed = append(crossed, cfg)
		}
	}

	var existingContent []models.UnlockedContent
	if err := tx.Where("profile_id = ?", profileID).Find(&existingContent).Error; err != nil {
		return nil, err
	}
	seenContent := make(map[int64]bool, len(existingContent))
	for _, row := range existingContent {
		seenContent[row.Threshold] = true
	}

	for _, cfg := range s.unlocks {
		if total >= cfg.Threshold && !seenContent[cfg.Threshold] {
			row := models.UnlockedContent{
				ProfileID:  profileID,
				Threshold:  cfg.Threshold,
				ContentKey: cfg.Reward,
				UnlockedAt: now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return nil, err
			}
		}
	}

	return crossed, nil
}
