package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pffl/leaguehub/internal/league"
	"github.com/pffl/leaguehub/internal/store"
)

type GameService struct {
	db      *sqlx.DB
	leagues *store.LeagueStore
	games   *store.GameStore
}

func NewGameService(db *sqlx.DB, leagues *store.LeagueStore, games *store.GameStore) *GameService {
	return &GameService{db: db, leagues: leagues, games: games}
}

type CreateGameInput struct {
	// League is resolved by id when set, otherwise by exact name.
	LeagueID   int64
	LeagueName string

	TeamA   string
	TeamB   string
	Date    string
	Time    string
	Venue   string
	Referee string
}

// CreateGame schedules a fixture in the resolved league. Team names outside
// the league roster are allowed (they get the generic logo); a repeat of an
// unordered team pair inside the same league is rejected.
func (s *GameService) CreateGame(ctx context.Context, in CreateGameInput) (*league.Game, error) {
	l, err := s.resolveLeague(ctx, in)
	if err != nil {
		return nil, err
	}

	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return nil, fmt.Errorf("invalid game date %q", in.Date)
	}
	if err := validateTimeOfDay(in.Time); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	exists, err := s.games.HasFixtureTx(ctx, tx, l.ID, in.TeamA, in.TeamB)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, league.ErrDuplicateFixture
	}

	g := &league.Game{
		LeagueID:   l.ID,
		LeagueName: l.Name,
		TeamA:      in.TeamA,
		TeamALogo:  rosterLogo(l, in.TeamA),
		TeamB:      in.TeamB,
		TeamBLogo:  rosterLogo(l, in.TeamB),
		Date:       in.Date,
		Time:       in.Time,
		Venue:      in.Venue,
		Referee:    in.Referee,
		Status:     league.GameScheduled,
	}

	if err := s.games.CreateGame(ctx, tx, g); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	g.CreatedAt = time.Now().UTC()
	return g, nil
}

func (s *GameService) resolveLeague(ctx context.Context, in CreateGameInput) (*league.League, error) {
	var (
		l   *league.League
		err error
	)
	if in.LeagueID != 0 {
		l, err = s.leagues.GetLeague(ctx, in.LeagueID)
	} else {
		l, err = s.leagues.GetLeagueByName(ctx, in.LeagueName)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, league.ErrUnknownLeague
	}
	return l, err
}

func rosterLogo(l *league.League, teamName string) string {
	for _, t := range l.Teams {
		if t.Name == teamName {
			return t.Logo
		}
	}
	return league.DefaultLogo
}

func validateTimeOfDay(value string) error {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, value); err == nil {
			return nil
		}
	}
	return fmt.Errorf("invalid game time %q", value)
}

func (s *GameService) ListGames(ctx context.Context, leagueName string) ([]league.Game, error) {
	if leagueName != "" {
		return s.games.GetGamesByLeagueName(ctx, leagueName)
	}
	return s.games.GetGames(ctx)
}

func (s *GameService) ListReferees(ctx context.Context) ([]string, error) {
	return s.games.GetReferees(ctx)
}
