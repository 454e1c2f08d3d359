package league

import "time"

type Format string

const (
	Format5v5 Format = "5v5"
	Format7v7 Format = "7v7"
)

type FeeType string

const (
	FeePerCaptain FeeType = "captain"
	FeePerPlayer  FeeType = "player"
)

type League struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Format Format `db:"format" json:"format"`

	// Calendar dates in YYYY-MM-DD form. EndDate is strictly after StartDate.
	StartDate string `db:"start_date" json:"start_date"`
	EndDate   string `db:"end_date" json:"end_date"`

	FeeType             FeeType `db:"fee_type" json:"fee_type"`
	FeeAmount           float64 `db:"fee_amount" json:"fee_amount"`
	Venue               string  `db:"venue" json:"venue"`
	SchedulePreferences string  `db:"schedule_preferences" json:"schedule_preferences"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Teams in creation order. Not a column; loaded from the teams table.
	Teams []Team `db:"-" json:"teams"`
}

// Team ids are 1-based and unique only within the owning league.
type Team struct {
	LeagueID int64  `db:"league_id" json:"-"`
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Logo     string `db:"logo" json:"logo"`
}
