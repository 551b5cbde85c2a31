package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
	"github.com/coverstar/backend/internal/testdb"
)

func seedAccount(t *testing.T, db *gorm.DB, name string, isModel bool, availableVotes int) models.Profile {
	t.Helper()
	user := models.User{Username: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	profile := models.Profile{
		UserID:         user.ID,
		DisplayName:    name,
		IsModel:        isModel,
		AvailableVotes: availableVotes,
		ReferralCode:   name + "-code",
	}
	require.NoError(t, db.Create(&profile).Error)
	return profile
}

// voteRouter wires CastVote behind a stub that plays the auth
// middleware's part.
func voteRouter(db *gorm.DB, profileID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewVoteHandler(db)
	r.POST("/votes", func(c *gin.Context) {
		c.Set("profile_id", profileID)
		c.Next()
	}, h.CastVote)
	return r
}

func castVote(t *testing.T, r *gin.Engine, req models.CastVoteRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/votes", bytes.NewReader(body)))
	return w
}

func latestVote(t *testing.T, db *gorm.DB, voteeID int) models.Vote {
	t.Helper()
	var vote models.Vote
	require.NoError(t, db.Where("votee_id = ?", voteeID).Order("id desc").First(&vote).Error)
	return vote
}

func TestCastVote_WeightedCountUsesTypeWeightAndMultiplier(t *testing.T) {
	db := testdb.New(t)
	voter := seedAccount(t, db, "buyer", false, 10)
	votee := seedAccount(t, db, "star", true, 0)

	now := time.Now().UTC()
	period := models.VoteMultiplierPeriod{
		MultiplierTimes: 3,
		StartTime:       now.Add(-time.Hour),
		EndTime:         now.Add(time.Hour),
		IsActive:        true,
	}
	require.NoError(t, db.Create(&period).Error)

	w := castVote(t, voteRouter(db, voter.ID), models.CastVoteRequest{
		Type:    models.VoteTypePaid,
		Count:   2,
		VoteeID: votee.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 2 votes x paid weight 2 x global multiplier 3
	vote := latestVote(t, db, votee.ID)
	assert.Equal(t, 2, vote.Count)
	assert.Equal(t, 12, vote.WeightedCount)

	var balance models.Profile
	require.NoError(t, db.First(&balance, voter.ID).Error)
	assert.Equal(t, 8, balance.AvailableVotes)
}

func TestCastVote_TokenAppliesOnceThenAmbient(t *testing.T) {
	db := testdb.New(t)
	voter := seedAccount(t, db, "fan", false, 10)
	votee := seedAccount(t, db, "idol", true, 0)

	token := models.ActiveSpinPrize{
		ProfileID: votee.ID,
		PrizeType: models.PrizeVoteMultiplierToken,
		IsActive:  true,
		IsClaimed: false,
		WonAt:     time.Now().UTC(),
	}
	require.NoError(t, db.Create(&token).Error)

	r := voteRouter(db, voter.ID)

	// first vote consumes the token: 1 x paid weight 2 x token 10
	w := castVote(t, r, models.CastVoteRequest{Type: models.VoteTypePaid, Count: 1, VoteeID: votee.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 20, latestVote(t, db, votee.ID).WeightedCount)

	var consumed models.ActiveSpinPrize
	require.NoError(t, db.First(&consumed, token.ID).Error)
	assert.True(t, consumed.IsClaimed)

	// with the token gone the ambient multiplier (1) stands
	w = castVote(t, r, models.CastVoteRequest{Type: models.VoteTypePaid, Count: 1, VoteeID: votee.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 2, latestVote(t, db, votee.ID).WeightedCount)
}

func TestCastVote_LostTokenRaceFallsBackToAmbient(t *testing.T) {
	db := testdb.New(t)
	voter := seedAccount(t, db, "racer", false, 10)
	votee := seedAccount(t, db, "prima", true, 0)

	token := models.ActiveSpinPrize{
		ProfileID: votee.ID,
		PrizeType: models.PrizeVoteMultiplierToken,
		IsActive:  true,
		IsClaimed: false,
		WonAt:     time.Now().UTC(),
	}
	require.NoError(t, db.Create(&token).Error)

	// a rival request claims the token between the handler's read and
	// its conditional update: sneak the rival in right before the
	// handler's token update runs
	raced := false
	err := db.Callback().Update().Before("gorm:update").Register("rival_claim", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "active_spin_prizes" {
			return
		}
		raced = true
		db.Exec("UPDATE active_spin_prizes SET is_claimed = true, is_active = false WHERE id = ?", token.ID)
	})
	require.NoError(t, err)

	w := castVote(t, voteRouter(db, voter.ID), models.CastVoteRequest{
		Type:    models.VoteTypePaid,
		Count:   1,
		VoteeID: votee.ID,
	})
	require.True(t, raced, "handler never attempted the token update")

	// the vote still lands, at the ambient multiplier
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 2, latestVote(t, db, votee.ID).WeightedCount)
}
