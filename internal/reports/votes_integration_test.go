package reports

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
	"github.com/coverstar/backend/internal/testdb"
)

func seedProfile(t *testing.T, db *gorm.DB, name string) models.Profile {
	t.Helper()
	user := models.User{Username: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	profile := models.Profile{UserID: user.ID, DisplayName: name, ReferralCode: name + "-code"}
	require.NoError(t, db.Create(&profile).Error)
	return profile
}

func seedReportData(t *testing.T, db *gorm.DB) (voter, votee models.Profile) {
	t.Helper()
	voter = seedProfile(t, db, "voter")
	votee = seedProfile(t, db, "votee")

	orphanID := 9999
	for i := 0; i < 25; i++ {
		vid := &voter.ID
		if i%5 == 0 {
			vid = nil // soft-deleted voter
		} else if i%7 == 0 {
			vid = &orphanID // voter row gone entirely
		}
		vote := models.Vote{
			Type:          models.VoteTypeFree,
			Count:         1,
			WeightedCount: 1,
			VoterID:       vid,
			VoteeID:       votee.ID,
			Comment:       fmt.Sprintf("vote %d", i),
			CreatedAt:     time.Now().UTC().Add(-time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&vote).Error)
	}
	return voter, votee
}

func TestVoteReport_TotalStableAcrossPages(t *testing.T) {
	db := testdb.New(t)
	svc := NewVoteReportService(db)
	seedReportData(t, db)

	page1, err := svc.List(VoteFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	page2, err := svc.List(VoteFilter{Page: 2, Limit: 10})
	require.NoError(t, err)
	small, err := svc.List(VoteFilter{Page: 1, Limit: 5})
	require.NoError(t, err)

	// total reflects the unfiltered count regardless of paging
	assert.Equal(t, int64(25), page1.Pagination.Total)
	assert.Equal(t, page1.Pagination.Total, page2.Pagination.Total)
	assert.Equal(t, page1.Pagination.Total, small.Pagination.Total)

	assert.LessOrEqual(t, len(page1.Data), 10)
	assert.LessOrEqual(t, len(small.Data), 5)
}

func TestVoteReport_DropsUnresolvableVoters(t *testing.T) {
	db := testdb.New(t)
	svc := NewVoteReportService(db)
	voter, _ := seedReportData(t, db)

	report, err := svc.List(VoteFilter{Page: 1, Limit: 50})
	require.NoError(t, err)

	for _, row := range report.Data {
		assert.Equal(t, voter.ID, row.Voter.ProfileID)
		assert.NotEmpty(t, row.Voter.Username)
	}
	// every returned row resolved, but the total still counts the rest
	assert.Less(t, len(report.Data), int(report.Pagination.Total))
}

func TestVoteReport_Filters(t *testing.T) {
	db := testdb.New(t)
	svc := NewVoteReportService(db)
	voter, votee := seedReportData(t, db)

	paid := models.Vote{
		Type:          models.VoteTypePaid,
		Count:         3,
		WeightedCount: 6,
		VoterID:       &voter.ID,
		VoteeID:       votee.ID,
		Comment:       "stellar performance",
	}
	require.NoError(t, db.Create(&paid).Error)

	paidType := models.VoteTypePaid
	byType, err := svc.List(VoteFilter{Type: &paidType, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byType.Pagination.Total)

	bySearch, err := svc.List(VoteFilter{Search: "stellar", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), bySearch.Pagination.Total)

	byVoter, err := svc.List(VoteFilter{VoterID: &voter.ID, Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Greater(t, byVoter.Pagination.Total, int64(0))
}
