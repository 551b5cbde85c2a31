package reports

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/coverstar/backend/internal/models"
)

var ErrInvalidDate = errors.New("invalid date parameter")

// overFetch pads the page query so rows dropped for unresolvable
// voters can still fill the requested limit.
const overFetch = 50

// VoteFilter carries the admin report's query parameters after
// validation.
type VoteFilter struct {
	ContestID *int
	VoterID   *int
	VoteeID   *int
	Search    string
	Type      *models.VoteType
	From      *time.Time
	To        *time.Time
	SortBy    string
	SortDir   string
	Page      int
	Limit     int
}

// VoterInfo is the resolved identity attached to each report row.
type VoterInfo struct {
	ProfileID   int    `json:"profile_id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
}

type ReportRow struct {
	ID            int             `json:"id"`
	Type          models.VoteType `json:"type"`
	Count         int             `json:"count"`
	WeightedCount int             `json:"weighted_count"`
	VoteeID       int             `json:"votee_id"`
	ContestID     int             `json:"contest_id"`
	Comment       string          `json:"comment"`
	CreatedAt     time.Time       `json:"created_at"`
	Voter         VoterInfo       `json:"voter"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type VoteReport struct {
	Data       []ReportRow `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

var sortColumns = map[string]string{
	"created_at":     "votes.created_at",
	"count":          "votes.count",
	"weighted_count": "votes.weighted_count",
}

type VoteReportService struct {
	db *gorm.DB
}

func NewVoteReportService(db *gorm.DB) *VoteReportService {
	return &VoteReportService{db: db}
}

// List runs the admin vote report. The total comes from a count query
// over the filtered vote set; the page is over-fetched and re-filtered
// because a vote's voter relation may be null (soft-deleted voter) and
// excluding that at the query layer has proven unreliable. The
// reported total therefore counts rows the page may omit; see the
// report's documented total/page-size caveat.
func (s *VoteReportService) List(filter VoteFilter) (*VoteReport, error) {
	filter = normalize(filter)

	base := s.scoped(filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("votes.id").Count(&total).Error; err != nil {
		return nil, err
	}

	order := fmt.Sprintf("%s %s", sortColumns[filter.SortBy], filter.SortDir)

	var votes []models.Vote
	err := base.Session(&gorm.Session{}).
		Select("votes.*").
		Order(order).
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit + overFetch).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}

	voterIDs := make([]int, 0, len(votes))
	for _, v := range votes {
		if v.VoterID != nil {
			voterIDs = append(voterIDs, *v.VoterID)
		}
	}

	voters := make(map[int]models.Profile, len(voterIDs))
	if len(voterIDs) > 0 {
		var profiles []models.Profile
		if err := s.db.Preload("User").Where("id IN ?", voterIDs).Find(&profiles).Error; err != nil {
			return nil, err
		}
		for _, p := range profiles {
			voters[p.ID] = p
		}
	}

	return &VoteReport{
		Data: assembleRows(votes, voters, filter.Limit),
		Pagination: Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		},
	}, nil
}

func (s *VoteReportService) scoped(filter VoteFilter) *gorm.DB {
	q := s.db.Model(&models.Vote{}).
		Joins("LEFT JOIN profiles ON profiles.id = votes.voter_id").
		Joins("LEFT JOIN users ON users.id = profiles.user_id")

	if filter.ContestID != nil {
		q = q.Where("votes.contest_id = ?", *filter.ContestID)
	}
	if filter.VoterID != nil {
		q = q.Where("votes.voter_id = ?", *filter.VoterID)
	}
	if filter.VoteeID != nil {
		q = q.Where("votes.votee_id = ?", *filter.VoteeID)
	}
	if filter.Type != nil {
		q = q.Where("votes.type = ?", *filter.Type)
	}
	if filter.From != nil {
		q = q.Where("votes.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("votes.created_at <= ?", *filter.To)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where(
			"votes.comment ILIKE ? OR profiles.display_name ILIKE ? OR users.username ILIKE ? OR users.email ILIKE ? OR users.name ILIKE ?",
			term, term, term, term, term,
		)
	}
	return q
}

// assembleRows is the second pass: drop votes without a voter, drop
// votes whose voter could not be resolved, cap at limit.
func assembleRows(votes []models.Vote, voters map[int]models.Profile, limit int) []ReportRow {
	rows := make([]ReportRow, 0, limit)
	for _, v := range votes {
		if len(rows) >= limit {
			break
		}
		if v.VoterID == nil {
			continue
		}
		profile, ok := voters[*v.VoterID]
		if !ok {
			continue
		}
		rows = append(rows, ReportRow{
			ID:            v.ID,
			Type:          v.Type,
			Count:         v.Count,
			WeightedCount: v.WeightedCount,
			VoteeID:       v.VoteeID,
			ContestID:     v.ContestID,
			Comment:       v.Comment,
			CreatedAt:     v.CreatedAt,
			Voter: VoterInfo{
				ProfileID:   profile.ID,
				DisplayName: profile.DisplayName,
				Username:    profile.User.Username,
				Email:       profile.User.Email,
			},
		})
	}
	return rows
}

func normalize(filter VoteFilter) VoteFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if _, ok := sortColumns[filter.SortBy]; !ok {
		filter.SortBy = "created_at"
	}
	if dir := strings.ToLower(filter.SortDir); dir == "asc" {
		filter.SortDir = "ASC"
	} else {
		filter.SortDir = "DESC"
	}
	return filter
}

// ParseDateBound parses a report date parameter. Values with a time
// component must be RFC 3339; bare dates are normalized to the start
// (lower bound) or end (upper bound) of that day rather than rejected.
func ParseDateBound(value string, upper bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	if upper {
		eod := day.Add(24*time.Hour - time.Nanosecond)
		return &eod, nil
	}
	return &day, nil
}
