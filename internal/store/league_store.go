package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pffl/leaguehub/internal/league"
)

type LeagueStore struct {
	db *sqlx.DB
}

func NewLeagueStore(db *sqlx.DB) *LeagueStore {
	return &LeagueStore{db: db}
}

// CreateLeague inserts the league and its teams, filling in the assigned id.
// Name uniqueness and the date-range invariant are checked by the service
// layer inside the same transaction.
func (s *LeagueStore) CreateLeague(ctx context.Context, tx *sqlx.Tx, l *league.League) error {
	res, err := tx.NamedExecContext(ctx, `INSERT INTO leagues (name, format, start_date, end_date, fee_type, fee_amount, venue, schedule_preferences)
        VALUES (:name, :format, :start_date, :end_date, :fee_type, :fee_amount, :venue, :schedule_preferences)`, l)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = id

	for i := range l.Teams {
		l.Teams[i].LeagueID = id
	}
	return s.createTeams(ctx, tx, l.Teams)
}

func (s *LeagueStore) createTeams(ctx context.Context, tx *sqlx.Tx, teams []league.Team) error {
	if len(teams) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO teams (league_id, id, name, logo)
        VALUES (:league_id, :id, :name, :logo)`, teams)
	return err
}

func (s *LeagueStore) NameExistsTx(ctx context.Context, tx *sqlx.Tx, name string) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM leagues WHERE name = ?)", name)
	return exists, err
}

func (s *LeagueStore) GetLeague(ctx context.Context, id int64) (*league.League, error) {
	var l league.League
	if err := s.db.GetContext(ctx, &l, "SELECT * FROM leagues WHERE id = ?", id); err != nil {
		return nil, err
	}
	if err := s.loadTeams(ctx, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLeagueByName is an exact, case-sensitive match.
func (s *LeagueStore) GetLeagueByName(ctx context.Context, name string) (*league.League, error) {
	var l league.League
	if err := s.db.GetContext(ctx, &l, "SELECT * FROM leagues WHERE name = ?", name); err != nil {
		return nil, err
	}
	if err := s.loadTeams(ctx, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *LeagueStore) GetLeagues(ctx context.Context) ([]league.League, error) {
	var leagues []league.League
	err := s.db.SelectContext(ctx, &leagues, "SELECT * FROM leagues ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	for i := range leagues {
		if err := s.loadTeams(ctx, &leagues[i]); err != nil {
			return nil, err
		}
	}
	return leagues, nil
}

func (s *LeagueStore) loadTeams(ctx context.Context, l *league.League) error {
	return s.db.SelectContext(ctx, &l.Teams, "SELECT * FROM teams WHERE league_id = ? ORDER BY id ASC", l.ID)
}

func (s *LeagueStore) CountLeagues(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM leagues")
	return count, err
}

func (s *LeagueStore) CountTeams(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM teams")
	return count, err
}
