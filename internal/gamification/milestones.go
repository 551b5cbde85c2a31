package gamification

import (
	"math"
	"time"
)

// ThresholdConfig is one entry of a static, code-defined threshold
// table. Tables are ordered by ascending threshold and passed into the
// calculator explicitly so tests can inject alternates.
type ThresholdConfig struct {
	Threshold   int64  `json:"threshold"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Reward      string `json:"reward"`
}

// DefaultMilestones is the production badge ladder.
var DefaultMilestones = []ThresholdConfig{
	{Threshold: 100, Name: "Rising Star", Description: "First 100 votes", Icon: "star", Reward: "badge_rising_star"},
	{Threshold: 500, Name: "Crowd Favorite", Description: "500 votes", Icon: "heart", Reward: "badge_crowd_favorite"},
	{Threshold: 1000, Name: "Fan Magnet", Description: "1,000 votes", Icon: "magnet", Reward: "badge_fan_magnet"},
	{Threshold: 5000, Name: "Headliner", Description: "5,000 votes", Icon: "spotlight", Reward: "badge_headliner"},
	{Threshold: 10000, Name: "Cover Star", Description: "10,000 votes", Icon: "crown", Reward: "badge_cover_star"},
}

// DefaultContentUnlocks gates profile content behind the same
// threshold pattern.
var DefaultContentUnlocks = []ThresholdConfig{
	{Threshold: 250, Name: "Photo Gallery", Description: "Extended photo gallery", Icon: "camera", Reward: "gallery_extended"},
	{Threshold: 1500, Name: "Behind the Scenes", Description: "Behind-the-scenes video", Icon: "video", Reward: "video_bts"},
	{Threshold: 7500, Name: "Exclusive Shoot", Description: "Exclusive photo shoot", Icon: "sparkle", Reward: "shoot_exclusive"},
}

// MilestoneStatus is the per-threshold line of a progress report.
type MilestoneStatus struct {
	Threshold   int64      `json:"threshold"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Reward      string     `json:"reward"`
	IsUnlocked  bool       `json:"is_unlocked"`
	Progress    int        `json:"progress"`
	UnlockedAt  *time.Time `json:"unlocked_at"`
}

// NextMilestone describes the first threshold still ahead of the total.
type NextMilestone struct {
	Threshold   int64  `json:"threshold"`
	Name        string `json:"name"`
	VotesNeeded int64  `json:"votes_needed"`
	Progress    int    `json:"progress"`
}

type ProgressReport struct {
	TotalVotes    int64             `json:"total_votes"`
	Milestones    []MilestoneStatus `json:"milestones"`
	NextMilestone *NextMilestone    `json:"next_milestone"`
}

// ComputeProgress maps a live vote aggregate onto a threshold table.
// Unlock state is derived from totalVotes alone; the unlocked map only
// supplies the audit timestamps. Negative totals are normalized to 0.
func ComputeProgress(totalVotes int64, configs []ThresholdConfig, unlocked map[int64]time.Time) ProgressReport {
	if totalVotes < 0 {
		totalVotes = 0
	}

	report := ProgressReport{
		TotalVotes: totalVotes,
		Milestones: make([]MilestoneStatus, 0, len(configs)),
	}

	for _, cfg := range configs {
		status := MilestoneStatus{
			Threshold:   cfg.Threshold,
			Name:        cfg.Name,
			Description: cfg.Description,
			Icon:        cfg.Icon,
			Reward:      cfg.Reward,
			IsUnlocked:  totalVotes >= cfg.Threshold,
			Progress:    progressPercent(totalVotes, cfg.Threshold, true),
		}
		if at, ok := unlocked[cfg.Threshold]; ok {
			t := at
			status.UnlockedAt = &t
		}
		report.Milestones = append(report.Milestones, status)
	}

	for _, cfg := range configs {
		if cfg.Threshold > totalVotes {
			report.NextMilestone = &NextMilestone{
				Threshold:   cfg.Threshold,
				Name:        cfg.Name,
				VotesNeeded: cfg.Threshold - totalVotes,
				Progress:    progressPercent(totalVotes, cfg.Threshold, false),
			}
			break
		}
	}

	return report
}

func progressPercent(total, threshold int64, clamp bool) int {
	if threshold <= 0 {
		return 100
	}
	pct := int(math.Round(float64(total) / float64(threshold) * 100))
	if clamp {
		if pct > 100 {
			pct = 100
		}
		if pct < 0 {
			pct = 0
		}
	}
	return pct
}
