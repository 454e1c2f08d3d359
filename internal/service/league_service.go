package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pffl/leaguehub/internal/league"
	"github.com/pffl/leaguehub/internal/store"
)

const dateLayout = "2006-01-02"

// Fixed palette for teams created without a logo, assigned round-robin.
var teamEmojis = []string{"🔥", "⚡", "🌟", "💪", "🏆", "⭐", "🎯", "🚀", "💎", "👑", "🦅", "🐉"}

type LeagueService struct {
	db    *sqlx.DB
	store *store.LeagueStore
}

func NewLeagueService(db *sqlx.DB, store *store.LeagueStore) *LeagueService {
	return &LeagueService{db: db, store: store}
}

type CreateLeagueInput struct {
	Name                string
	Format              string
	StartDate           string
	EndDate             string
	FeeType             string
	FeeAmount           float64
	Venue               string
	SchedulePreferences string
	Teams               []league.Team
}

// BuildTeams turns plain team names into roster entries with 1-based ids and
// palette logos.
func BuildTeams(names []string) []league.Team {
	teams := make([]league.Team, 0, len(names))
	for i, name := range names {
		teams = append(teams, league.Team{
			ID:   int64(i + 1),
			Name: name,
			Logo: teamEmojis[i%len(teamEmojis)],
		})
	}
	return teams
}

// CreateLeague validates the input against domain rules and commits the
// league with its teams. The uniqueness check and the insert share one
// transaction so a concurrent duplicate cannot slip between them.
func (s *LeagueService) CreateLeague(ctx context.Context, in CreateLeagueInput) (*league.League, error) {
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", league.ErrInvalidDateRange, in.StartDate)
	}
	end, err := time.Parse(dateLayout, in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", league.ErrInvalidDateRange, in.EndDate)
	}
	if !end.After(start) {
		return nil, league.ErrInvalidDateRange
	}

	if in.FeeAmount < 0 {
		return nil, fmt.Errorf("fee amount must not be negative")
	}

	format := league.Format(in.Format)
	if format == "" {
		format = league.Format7v7
	}
	feeType := league.FeeType(in.FeeType)
	if feeType == "" {
		feeType = league.FeePerCaptain
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	exists, err := s.store.NameExistsTx(ctx, tx, in.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, league.ErrDuplicateName
	}

	l := &league.League{
		Name:                in.Name,
		Format:              format,
		StartDate:           in.StartDate,
		EndDate:             in.EndDate,
		FeeType:             feeType,
		FeeAmount:           in.FeeAmount,
		Venue:               in.Venue,
		SchedulePreferences: in.SchedulePreferences,
		Teams:               in.Teams,
	}

	if err := s.store.CreateLeague(ctx, tx, l); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	l.CreatedAt = time.Now().UTC()
	return l, nil
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	return s.store.GetLeagues(ctx)
}
