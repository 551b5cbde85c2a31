package gamification

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
	"github.com/coverstar/backend/internal/testdb"
)

func seedVote(t *testing.T, db *gorm.DB, voteeID, weighted int) {
	t.Helper()
	vote := models.Vote{
		Type:          models.VoteTypePaid,
		Count:         weighted,
		WeightedCount: weighted,
		VoteeID:       voteeID,
	}
	if err := db.Create(&vote).Error; err != nil {
		t.Fatalf("seed vote: %v", err)
	}
}

func TestProgressService_TotalAndReport(t *testing.T) {
	db := testdb.New(t)
	svc := NewProgressServiceWith(db, testConfigs(), nil)
	profile := seedProfile(t, db, "progress")

	seedVote(t, db, profile.ID, 300)
	seedVote(t, db, profile.ID, 150)

	total, err := svc.TotalVotes(profile.ID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 450 {
		t.Errorf("total = %d, want 450", total)
	}

	report, err := svc.MilestoneProgress(profile.ID)
	if err != nil {
		t.Fatal(err)
	}
	if report.NextMilestone == nil || report.NextMilestone.Threshold != 500 {
		t.Errorf("next = %+v, want threshold 500", report.NextMilestone)
	}
}

func TestProgressService_MissingProfile(t *testing.T) {
	db := testdb.New(t)
	svc := NewProgressService(db)

	if _, err := svc.MilestoneProgress(4242); err != gorm.ErrRecordNotFound {
		t.Errorf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestProgressService_RecordCrossingsOnce(t *testing.T) {
	db := testdb.New(t)
	svc := NewProgressServiceWith(db, testConfigs(), nil)
	profile := seedProfile(t, db, "crossings")
	now := time.Now().UTC()

	crossed, err := svc.RecordCrossings(nil, profile.ID, 450, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(crossed) != 1 || crossed[0].Threshold != 100 {
		t.Fatalf("crossed = %+v, want only the 100 threshold", crossed)
	}

	// replay with the same total records nothing new
	crossed, err = svc.RecordCrossings(nil, profile.ID, 450, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(crossed) != 0 {
		t.Errorf("second pass crossed = %+v, want none", crossed)
	}

	var count int64
	db.Model(&models.Milestone{}).Where("profile_id = ?", profile.ID).Count(&count)
	if count != 1 {
		t.Errorf("milestone rows = %d, want 1", count)
	}
}
