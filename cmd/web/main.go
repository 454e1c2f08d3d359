package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/pffl/leaguehub/internal/chat"
	"github.com/pffl/leaguehub/internal/db"
	"github.com/pffl/leaguehub/internal/gemini"
	"github.com/pffl/leaguehub/internal/service"
	"github.com/pffl/leaguehub/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	database := db.InitDB()
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	leagueStore := store.NewLeagueStore(database)
	gameStore := store.NewGameStore(database)

	ctx := context.Background()
	if err := db.Seed(ctx, database, leagueStore, gameStore); err != nil {
		log.Fatal("Failed to seed demo data:", err)
	}

	// The assistant degrades to per-turn configuration errors without a key;
	// the rest of the dashboard keeps working.
	var generator service.Generator
	client, err := gemini.NewClient(ctx, os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))
	if err != nil {
		log.Println("Gemini client unavailable:", err)
	} else {
		generator = client
	}

	leagueService := service.NewLeagueService(database, leagueStore)
	gameService := service.NewGameService(database, leagueStore, gameStore)
	chatService := service.NewChatService(
		leagueService, gameService, leagueStore, gameStore,
		generator,
		os.Getenv("CHAT_STATE_MERGE") == "merge",
	)

	sessionManager := scs.New()
	sessionManager.Lifetime = 24 * time.Hour
	sessionManager.Store = sqlite3store.New(database.DB)

	registry := chat.NewRegistry()

	router := newRouter(sessionManager, registry, leagueService, gameService, chatService)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	log.Println("Server starting on http://localhost" + addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal(err)
	}
}
