package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pffl/leaguehub/internal/league"
)

type GameStore struct {
	db *sqlx.DB
}

func NewGameStore(db *sqlx.DB) *GameStore {
	return &GameStore{db: db}
}

func (s *GameStore) CreateGame(ctx context.Context, tx *sqlx.Tx, g *league.Game) error {
	if (g.ScoreA == nil) != (g.ScoreB == nil) {
		return fmt.Errorf("scores must be set together or not at all")
	}

	res, err := tx.NamedExecContext(ctx, `INSERT INTO games (league_id, league_name, team_a, team_a_logo, team_b, team_b_logo, date, time, venue, referee, status, score_a, score_b)
        VALUES (:league_id, :league_name, :team_a, :team_a_logo, :team_b, :team_b_logo, :date, :time, :venue, :referee, :status, :score_a, :score_b)`, g)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = id
	return nil
}

// HasFixtureTx reports whether a game between the unordered pair {teamA,
// teamB} already exists in the league.
func (s *GameStore) HasFixtureTx(ctx context.Context, tx *sqlx.Tx, leagueID int64, teamA, teamB string) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, `SELECT EXISTS (
        SELECT 1 FROM games
        WHERE league_id = ?
        AND ((team_a = ? AND team_b = ?) OR (team_a = ? AND team_b = ?)))`,
		leagueID, teamA, teamB, teamB, teamA)
	return exists, err
}

func (s *GameStore) GetGames(ctx context.Context) ([]league.Game, error) {
	var games []league.Game
	err := s.db.SelectContext(ctx, &games, "SELECT * FROM games ORDER BY date ASC, time ASC")
	return games, err
}

func (s *GameStore) GetGamesByLeagueName(ctx context.Context, leagueName string) ([]league.Game, error) {
	var games []league.Game
	err := s.db.SelectContext(ctx, &games, "SELECT * FROM games WHERE league_name = ? ORDER BY date ASC, time ASC", leagueName)
	return games, err
}

func (s *GameStore) CountGames(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM games")
	return count, err
}

// GetReferees returns the fixed officiating roster, seeded by migration.
func (s *GameStore) GetReferees(ctx context.Context) ([]string, error) {
	var referees []string
	err := s.db.SelectContext(ctx, &referees, "SELECT name FROM referees ORDER BY rowid ASC")
	return referees, err
}
