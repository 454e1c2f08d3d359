package db

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/pffl/leaguehub/internal/league"
	"github.com/pffl/leaguehub/internal/store"
)

// Seed loads the demo league data on a fresh store. No-op when leagues
// already exist (e.g. a file-backed DSN across restarts).
func Seed(ctx context.Context, db *sqlx.DB, leagues *store.LeagueStore, games *store.GameStore) error {
	count, err := leagues.CountLeagues(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	winter := &league.League{
		Name:      "Phoenix Winter 2025",
		Format:    league.Format7v7,
		StartDate: "2025-01-15",
		EndDate:   "2025-03-30",
		FeeType:   league.FeePerCaptain,
		Teams: []league.Team{
			{ID: 1, Name: "Phoenix Firebirds", Logo: "🔥"},
			{ID: 2, Name: "Desert Storm", Logo: "⛈️"},
			{ID: 3, Name: "Valley Vipers", Logo: "🐍"},
			{ID: 4, Name: "Cactus Kings", Logo: "🌵"},
			{ID: 5, Name: "Sun Devils", Logo: "😈"},
			{ID: 6, Name: "Red Rocks", Logo: "🪨"},
		},
	}
	if err := leagues.CreateLeague(ctx, tx, winter); err != nil {
		return err
	}

	summer := &league.League{
		Name:      "Phoenix Summer League",
		Format:    league.Format5v5,
		StartDate: "2025-06-01",
		EndDate:   "2025-08-15",
		FeeType:   league.FeePerCaptain,
	}
	if err := leagues.CreateLeague(ctx, tx, summer); err != nil {
		return err
	}

	seedGames := []league.Game{
		{
			LeagueID: winter.ID, LeagueName: winter.Name,
			TeamA: "Phoenix Firebirds", TeamALogo: "🔥",
			TeamB: "Desert Storm", TeamBLogo: "⛈️",
			Date: "2025-01-20", Time: "10:00",
			Venue: "Phoenix Sports Complex", Referee: "John Carter",
			Status: league.GameScheduled,
		},
		{
			LeagueID: winter.ID, LeagueName: winter.Name,
			TeamA: "Valley Vipers", TeamALogo: "🐍",
			TeamB: "Cactus Kings", TeamBLogo: "🌵",
			Date: "2025-01-20", Time: "14:00",
			Venue: "Desert Field", Referee: "Anthony Brooks",
			Status: league.GameScheduled,
		},
		{
			LeagueID: winter.ID, LeagueName: winter.Name,
			TeamA: "Sun Devils", TeamALogo: "😈",
			TeamB: "Red Rocks", TeamBLogo: "🪨",
			Date: "2025-01-21", Time: "11:00",
			Venue: "Valley Stadium", Referee: "John Carter",
			Status: league.GameScheduled,
		},
	}
	for i := range seedGames {
		if err := games.CreateGame(ctx, tx, &seedGames[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Println("Seeded demo leagues and games.")
	return nil
}
