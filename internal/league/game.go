package league

import "time"

type GameStatus string

// Only Scheduled is produced by current flows; the column stays open for
// future states (in progress, final, cancelled).
const GameScheduled GameStatus = "Scheduled"

// DefaultLogo is used when a team name has no entry in its league's roster.
const DefaultLogo = "🏈"

type Game struct {
	ID int64 `db:"id" json:"id"`

	// LeagueName is denormalized from the league row; both fields are always
	// taken from the same resolved league inside the create transaction.
	LeagueID   int64  `db:"league_id" json:"league_id"`
	LeagueName string `db:"league_name" json:"league_name"`

	TeamA     string `db:"team_a" json:"team_a"`
	TeamALogo string `db:"team_a_logo" json:"team_a_logo"`
	TeamB     string `db:"team_b" json:"team_b"`
	TeamBLogo string `db:"team_b_logo" json:"team_b_logo"`

	Date    string `db:"date" json:"date"`
	Time    string `db:"time" json:"time"`
	Venue   string `db:"venue" json:"venue"`
	Referee string `db:"referee" json:"referee"`

	Status GameStatus `db:"status" json:"status"`

	// Both set once a result is recorded, or both nil.
	ScoreA *int64 `db:"score_a" json:"score_a"`
	ScoreB *int64 `db:"score_b" json:"score_b"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
