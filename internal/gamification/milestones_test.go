package gamification

import (
	"reflect"
	"testing"
	"time"
)

func testConfigs() []ThresholdConfig {
	return []ThresholdConfig{
		{Threshold: 100, Name: "First", Reward: "badge_first"},
		{Threshold: 500, Name: "Second", Reward: "badge_second"},
		{Threshold: 1000, Name: "Third", Reward: "badge_third"},
	}
}

func TestComputeProgress_ZeroVotes(t *testing.T) {
	report := ComputeProgress(0, testConfigs(), nil)

	for _, m := range report.Milestones {
		if m.IsUnlocked {
			t.Errorf("threshold %d unlocked at 0 votes", m.Threshold)
		}
		if m.Progress != 0 {
			t.Errorf("threshold %d progress = %d, want 0", m.Threshold, m.Progress)
		}
	}

	next := report.NextMilestone
	if next == nil {
		t.Fatal("next milestone = nil, want smallest threshold")
	}
	if next.Threshold != 100 || next.VotesNeeded != 100 {
		t.Errorf("next = {threshold:%d votesNeeded:%d}, want {100 100}", next.Threshold, next.VotesNeeded)
	}
}

func TestComputeProgress_ExactThreshold(t *testing.T) {
	report := ComputeProgress(500, testConfigs(), nil)

	second := report.Milestones[1]
	if !second.IsUnlocked {
		t.Error("500 votes should unlock the 500 threshold")
	}
	if second.Progress != 100 {
		t.Errorf("progress = %d, want 100", second.Progress)
	}
	if report.NextMilestone == nil || report.NextMilestone.Threshold != 1000 {
		t.Errorf("next milestone = %+v, want threshold 1000", report.NextMilestone)
	}
}

func TestComputeProgress_MidLadder(t *testing.T) {
	// 450 votes against [100, 500, 1000]
	report := ComputeProgress(450, testConfigs(), nil)

	if !report.Milestones[0].IsUnlocked {
		t.Error("100 threshold should be unlocked at 450 votes")
	}
	if report.Milestones[1].IsUnlocked || report.Milestones[2].IsUnlocked {
		t.Error("500 and 1000 thresholds should remain locked at 450 votes")
	}
	if got := report.Milestones[1].Progress; got != 90 {
		t.Errorf("500-entry progress = %d, want 90", got)
	}

	next := report.NextMilestone
	if next == nil {
		t.Fatal("next milestone = nil")
	}
	if next.Threshold != 500 || next.VotesNeeded != 50 || next.Progress != 90 {
		t.Errorf("next = %+v, want {500 Second 50 90}", next)
	}
}

func TestComputeProgress_ProgressClamped(t *testing.T) {
	report := ComputeProgress(2500, testConfigs(), nil)

	for _, m := range report.Milestones {
		if m.Progress < 0 || m.Progress > 100 {
			t.Errorf("threshold %d progress = %d, want within [0,100]", m.Threshold, m.Progress)
		}
		if !m.IsUnlocked {
			t.Errorf("threshold %d should be unlocked at 2500 votes", m.Threshold)
		}
	}
	if report.NextMilestone != nil {
		t.Errorf("next milestone = %+v, want nil past the ladder", report.NextMilestone)
	}
}

func TestComputeProgress_NegativeTotalNormalized(t *testing.T) {
	report := ComputeProgress(-5, testConfigs(), nil)

	if report.TotalVotes != 0 {
		t.Errorf("total = %d, want 0", report.TotalVotes)
	}
	if report.NextMilestone == nil || report.NextMilestone.VotesNeeded != 100 {
		t.Errorf("next = %+v, want votesNeeded 100", report.NextMilestone)
	}
}

func TestComputeProgress_UnlockedAtFromAuditRows(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	report := ComputeProgress(450, testConfigs(), map[int64]time.Time{100: at})

	first := report.Milestones[0]
	if first.UnlockedAt == nil || !first.UnlockedAt.Equal(at) {
		t.Errorf("unlockedAt = %v, want %v", first.UnlockedAt, at)
	}
	if report.Milestones[1].UnlockedAt != nil {
		t.Error("locked threshold should carry no unlockedAt")
	}
}

func TestComputeProgress_StaleAuditRowDoesNotUnlock(t *testing.T) {
	// An audit row for a threshold the live aggregate no longer reaches
	// must not flip the unlocked flag: the aggregate is the source of
	// truth.
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	report := ComputeProgress(50, testConfigs(), map[int64]time.Time{100: at})

	first := report.Milestones[0]
	if first.IsUnlocked {
		t.Error("100 threshold unlocked from audit row alone")
	}
	if first.UnlockedAt == nil {
		t.Error("audit timestamp should still surface")
	}
}

func TestComputeProgress_Idempotent(t *testing.T) {
	unlocked := map[int64]time.Time{100: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	a := ComputeProgress(450, testConfigs(), unlocked)
	b := ComputeProgress(450, testConfigs(), unlocked)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated calls differ:\n%+v\n%+v", a, b)
	}
}

func TestComputeProgress_EmptyConfigs(t *testing.T) {
	report := ComputeProgress(450, nil, nil)

	if len(report.Milestones) != 0 {
		t.Errorf("milestones = %d entries, want 0", len(report.Milestones))
	}
	if report.NextMilestone != nil {
		t.Error("next milestone should be nil with no configs")
	}
}
