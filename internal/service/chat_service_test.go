package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pffl/leaguehub/internal/chat"
	"github.com/pffl/leaguehub/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator replays canned responses and records every prompt it was
// given.
type scriptedGenerator struct {
	responses []string
	err       error
	prompts   []string
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	resp := g.responses[0]
	if len(g.responses) > 1 {
		g.responses = g.responses[1:]
	}
	return resp, nil
}

func newChatService(db *sqlx.DB, gen Generator, mergeState bool) *ChatService {
	leagueStore := store.NewLeagueStore(db)
	gameStore := store.NewGameStore(db)
	return NewChatService(
		NewLeagueService(db, leagueStore),
		NewGameService(db, leagueStore, gameStore),
		leagueStore,
		gameStore,
		gen,
		mergeState,
	)
}

func TestSubmitUserTurnWithoutGenerator(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := newChatService(db, nil, false)
	sess := chat.NewSession()

	result, err := svc.SubmitUserTurn(context.Background(), sess, "hello")
	require.NoError(t, err)
	assert.Equal(t, chat.ActionError, result.Reply.Kind())
	assert.Equal(t, "API Key Missing", result.Reply.Title)

	// The failed turn is still part of the transcript.
	require.Len(t, sess.Transcript, 1)
	assert.Equal(t, "hello", sess.Transcript[0].User)
}

func TestSubmitUserTurnFencedShowInfo(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	gen := &scriptedGenerator{responses: []string{
		"Here is your answer:\n```json\n{\"action\": \"show_info\", \"title\": \"Leagues\", \"body\": \"You have 0 leagues.\"}\n```",
	}}
	svc := newChatService(db, gen, false)

	result, err := svc.SubmitUserTurn(context.Background(), chat.NewSession(), "how many leagues?")
	require.NoError(t, err)
	assert.Equal(t, chat.ActionShowInfo, result.Reply.Kind())
	assert.Equal(t, "Leagues", result.Reply.Title)
	assert.Equal(t, "You have 0 leagues.", result.Reply.Body)
	assert.Nil(t, result.CreatedLeague)
	assert.Nil(t, result.CreatedGame)
}

func TestSubmitUserTurnPromptCarriesContext(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seedLeague(t, db, "Phoenix Winter 2025", "Firebirds", "Storm")

	gen := &scriptedGenerator{responses: []string{
		`{"action": "show_info", "title": "Hi", "body": "Hello!"}`,
	}}
	svc := newChatService(db, gen, false)

	sess := chat.NewSession()
	sess.ApplyState(map[string]any{"format": "5v5"}, false)

	_, err := svc.SubmitUserTurn(context.Background(), sess, "what leagues are there?")
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Phoenix Winter 2025")
	assert.Contains(t, gen.prompts[0], "John Carter")
	assert.Contains(t, gen.prompts[0], `"format": "5v5"`)
	assert.Contains(t, gen.prompts[0], "USER MESSAGE: what leagues are there?")
}

func TestSubmitUserTurnCreatesLeague(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	gen := &scriptedGenerator{responses: []string{
		`{"action": "ask_question", "title": "Step 1 of 8", "body": "What format?",
		  "current_step": 1, "total_steps": 8,
		  "conversation_state": {"intent": "create_league", "name": "Phoenix Spring 2025"}}`,
		`{"action": "create_league", "title": "League Created!", "body": "Phoenix Spring 2025 is ready.",
		  "data": {"name": "Phoenix Spring 2025", "format": "5v5",
		           "start_date": "2025-04-01", "end_date": "2025-06-15",
		           "fee_type": "player", "fee_amount": 25,
		           "venue": "Desert Park", "schedule_preferences": "Saturday mornings",
		           "teams": "Firebirds, Storm, Vipers"}}`,
	}}
	svc := newChatService(db, gen, false)
	sess := chat.NewSession()
	ctx := context.Background()

	result, err := svc.SubmitUserTurn(ctx, sess, "I want to create a league called Phoenix Spring 2025")
	require.NoError(t, err)
	assert.Equal(t, chat.ActionAskQuestion, result.Reply.Kind())
	assert.Equal(t, 1, result.Reply.CurrentStep)
	assert.Equal(t, "Phoenix Spring 2025", sess.State["name"])

	result, err = svc.SubmitUserTurn(ctx, sess, "5v5, Apr 1 to Jun 15, $25 per player")
	require.NoError(t, err)
	assert.Equal(t, chat.ActionCreateLeague, result.Reply.Kind())
	require.NotNil(t, result.CreatedLeague)

	created := result.CreatedLeague
	assert.Equal(t, "Phoenix Spring 2025", created.Name)
	assert.Equal(t, "5v5", string(created.Format))
	assert.Equal(t, "2025-04-01", created.StartDate)
	assert.Equal(t, "player", string(created.FeeType))
	assert.Equal(t, float64(25), created.FeeAmount)
	require.Len(t, created.Teams, 3)
	assert.Equal(t, "Vipers", created.Teams[2].Name)

	// A completed flow clears the collected state but keeps the transcript.
	assert.Empty(t, sess.State)
	assert.Len(t, sess.Transcript, 2)

	stored, err := store.NewLeagueStore(db).GetLeagueByName(ctx, "Phoenix Spring 2025")
	require.NoError(t, err)
	assert.Len(t, stored.Teams, 3)
}

func TestSubmitUserTurnDuplicateLeagueName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seedLeague(t, db, "Phoenix Winter 2025")

	gen := &scriptedGenerator{responses: []string{
		`{"action": "create_league", "title": "League Created!", "body": "Done.",
		  "data": {"name": "Phoenix Winter 2025", "format": "7v7",
		           "start_date": "2025-01-15", "end_date": "2025-03-30"}}`,
	}}
	svc := newChatService(db, gen, false)

	result, err := svc.SubmitUserTurn(context.Background(), chat.NewSession(), "create it")
	require.NoError(t, err)
	assert.Equal(t, chat.ActionError, result.Reply.Kind())
	assert.Equal(t, "Oops!", result.Reply.Title)
	assert.Nil(t, result.CreatedLeague)

	count, err := store.NewLeagueStore(db).CountLeagues(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSubmitUserTurnCreatesGame(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seedLeague(t, db, "Phoenix Winter 2025", "Firebirds", "Storm")

	gen := &scriptedGenerator{responses: []string{
		`{"action": "create_game", "title": "Game Scheduled!", "body": "Firebirds vs Storm.",
		  "data": {"league_name": "Phoenix Winter 2025",
		           "team_a": "Firebirds", "team_b": "Storm",
		           "date": "2025-01-25", "time": "14:00",
		           "venue": "Phoenix Sports Complex"}}`,
	}}
	svc := newChatService(db, gen, false)

	result, err := svc.SubmitUserTurn(context.Background(), chat.NewSession(), "schedule Firebirds vs Storm")
	require.NoError(t, err)
	assert.Equal(t, chat.ActionCreateGame, result.Reply.Kind())
	require.NotNil(t, result.CreatedGame)
	assert.Equal(t, "🔥", result.CreatedGame.TeamALogo)

	// The referee falls back to the first roster entry when unset.
	assert.Equal(t, "John Carter", result.CreatedGame.Referee)
}

func TestSubmitUserTurnDuplicateGame(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seedLeague(t, db, "Phoenix Winter 2025", "Firebirds", "Storm")

	gameSvc := newGameService(db)
	_, err := gameSvc.CreateGame(context.Background(), validGameInput("Phoenix Winter 2025"))
	require.NoError(t, err)

	gen := &scriptedGenerator{responses: []string{
		`{"action": "create_game", "title": "Game Scheduled!", "body": "Storm vs Firebirds.",
		  "data": {"league_name": "Phoenix Winter 2025",
		           "team_a": "Storm", "team_b": "Firebirds",
		           "date": "2025-02-01", "time": "10:00"}}`,
	}}
	svc := newChatService(db, gen, false)

	result, err := svc.SubmitUserTurn(context.Background(), chat.NewSession(), "another Storm Firebirds game")
	require.NoError(t, err)
	assert.Equal(t, chat.ActionError, result.Reply.Kind())
	assert.Equal(t, "Game Already Scheduled", result.Reply.Title)
	assert.Nil(t, result.CreatedGame)

	count, err := store.NewGameStore(db).CountGames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSubmitUserTurnUnknownLeagueGame(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	gen := &scriptedGenerator{responses: []string{
		`{"action": "create_game", "title": "Game Scheduled!", "body": "Done.",
		  "data": {"league_name": "Nowhere", "team_a": "A", "team_b": "B",
		           "date": "2025-02-01", "time": "10:00"}}`,
	}}
	svc := newChatService(db, gen, false)

	result, err := svc.SubmitUserTurn(context.Background(), chat.NewSession(), "schedule a game")
	require.NoError(t, err)
	assert.Equal(t, "Unknown League", result.Reply.Title)
	assert.Nil(t, result.CreatedGame)
}

func TestSubmitUserTurnUnclassifiedAction(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	gen := &scriptedGenerator{responses: []string{
		`{"action": "summarize_season", "title": "Season", "body": "A fine season."}`,
	}}
	svc := newChatService(db, gen, false)

	result, err := svc.SubmitUserTurn(context.Background(), chat.NewSession(), "summarize")
	require.NoError(t, err)

	// Unknown actions render as information instead of failing the turn.
	assert.Equal(t, "summarize_season", result.Reply.Action)
	assert.Equal(t, chat.ActionShowInfo, result.Reply.Kind())
	assert.Nil(t, result.CreatedLeague)
	assert.Nil(t, result.CreatedGame)
}

func TestSubmitUserTurnGenerationTimeout(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	gen := &scriptedGenerator{err: context.DeadlineExceeded}
	svc := newChatService(db, gen, false)

	result, err := svc.SubmitUserTurn(context.Background(), chat.NewSession(), "hello")
	require.NoError(t, err)
	assert.Equal(t, chat.ActionError, result.Reply.Kind())
	assert.Equal(t, "Request Timed Out", result.Reply.Title)
}

func TestSubmitUserTurnUnusableResponses(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cases := []struct {
		name  string
		raw   string
		title string
	}{
		{"no payload", "I'm sorry, I can't answer that.", "Response Format Issue"},
		{"malformed payload", `{"action": "show_info", "title": `, "Response Format Error"},
	}
	for _, tc := range cases {
		gen := &scriptedGenerator{responses: []string{tc.raw}}
		svc := newChatService(db, gen, false)

		result, err := svc.SubmitUserTurn(context.Background(), chat.NewSession(), "hello")
		require.NoError(t, err, tc.name)
		assert.Equal(t, chat.ActionError, result.Reply.Kind(), tc.name)
		assert.Equal(t, tc.title, result.Reply.Title, tc.name)
	}
}

func TestSubmitUserTurnStatePolicy(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	responses := []string{
		`{"action": "ask_question", "title": "Step 1", "body": "Name?",
		  "conversation_state": {"name": "Spring", "format": "7v7"}}`,
		`{"action": "ask_question", "title": "Step 2", "body": "Venue?",
		  "conversation_state": {"venue": "Desert Park"}}`,
	}

	// Replace: the second reply's state wins wholesale.
	gen := &scriptedGenerator{responses: append([]string{}, responses...)}
	svc := newChatService(db, gen, false)
	sess := chat.NewSession()
	ctx := context.Background()

	_, err := svc.SubmitUserTurn(ctx, sess, "create a league")
	require.NoError(t, err)
	_, err = svc.SubmitUserTurn(ctx, sess, "Spring, 7v7")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"venue": "Desert Park"}, sess.State)

	// Merge: earlier fields survive.
	gen = &scriptedGenerator{responses: append([]string{}, responses...)}
	svc = newChatService(db, gen, true)
	sess = chat.NewSession()

	_, err = svc.SubmitUserTurn(ctx, sess, "create a league")
	require.NoError(t, err)
	_, err = svc.SubmitUserTurn(ctx, sess, "Spring, 7v7")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "Spring",
		"format": "7v7",
		"venue":  "Desert Park",
	}, sess.State)
}

func TestCoerceTeams(t *testing.T) {
	fromString := coerceTeams("Firebirds, Storm , Vipers")
	require.Len(t, fromString, 3)
	assert.Equal(t, "Storm", fromString[1].Name)

	fromList := coerceTeams([]any{"Firebirds", "Storm"})
	require.Len(t, fromList, 2)
	assert.Equal(t, int64(2), fromList[1].ID)
	assert.Equal(t, "⚡", fromList[1].Logo)

	fromMaps := coerceTeams([]any{
		map[string]any{"name": "Firebirds", "logo": "🔥"},
		map[string]any{"name": "Storm"},
	})
	require.Len(t, fromMaps, 2)
	assert.Equal(t, "🔥", fromMaps[0].Logo)
	assert.Equal(t, "⚡", fromMaps[1].Logo)

	assert.Nil(t, coerceTeams(nil))
	assert.Nil(t, coerceTeams(42.0))
}
