package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pffl/leaguehub/internal/chat"
	"github.com/pffl/leaguehub/internal/league"
	"github.com/pffl/leaguehub/internal/store"
)

// transcriptWindow bounds how many prior turns are replayed to the
// generator. Full history is never sent.
const transcriptWindow = 3

// Generator is the text-generation collaborator. Its output is treated as
// untrusted free text that should contain one JSON object.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type ChatService struct {
	leagues     *LeagueService
	games       *GameService
	leagueStore *store.LeagueStore
	gameStore   *store.GameStore
	gen         Generator

	// mergeState keeps previously collected fields when a reply's
	// conversation_state omits them. Off by default: the literal contract is
	// a wholesale replace.
	mergeState bool
}

func NewChatService(leagues *LeagueService, games *GameService, leagueStore *store.LeagueStore, gameStore *store.GameStore, gen Generator, mergeState bool) *ChatService {
	return &ChatService{
		leagues:     leagues,
		games:       games,
		leagueStore: leagueStore,
		gameStore:   gameStore,
		gen:         gen,
		mergeState:  mergeState,
	}
}

// TurnResult is what one user turn produced: the reply to render plus the
// entity a terminal create action committed, if any.
type TurnResult struct {
	Reply         *chat.Reply    `json:"reply"`
	CreatedLeague *league.League `json:"created_league,omitempty"`
	CreatedGame   *league.Game   `json:"created_game,omitempty"`
}

// SubmitUserTurn runs one full conversational turn: context assembly,
// generation call, sanitization, state update, classification and execution.
// Every failure on the way degrades to an error reply; nothing here is fatal
// to the process.
func (s *ChatService) SubmitUserTurn(ctx context.Context, sess *chat.Session, message string) (*TurnResult, error) {
	sess.Lock()
	defer sess.Unlock()

	result := &TurnResult{}
	result.Reply = s.runTurn(ctx, sess, message, result)
	sess.Append(chat.Turn{User: message, Reply: result.Reply})
	return result, nil
}

func (s *ChatService) runTurn(ctx context.Context, sess *chat.Session, message string, result *TurnResult) *chat.Reply {
	if s.gen == nil {
		return chat.ErrorReply(
			"API Key Missing",
			"Please add your GEMINI_API_KEY to the .env file.",
			"The assistant is not configured yet.",
		)
	}

	pc, err := s.promptContext(ctx, sess, message)
	if err != nil {
		slog.Error("failed to assemble prompt context", "error", err)
		return chat.ErrorReply("Error", "Something went wrong: "+truncate(err.Error(), 100), "Oops, something went wrong. Please try again.")
	}

	raw, err := s.gen.Generate(ctx, chat.BuildPrompt(pc))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return chat.ErrorReply(
				"Request Timed Out",
				"The assistant took too long to answer. Please try again.",
				"Sorry, that took too long. Please try again.",
			)
		}
		slog.Warn("generation call failed", "error", err)
		return chat.ErrorReply("Error", "Something went wrong: "+truncate(err.Error(), 100), "Oops, something went wrong. Please try again.")
	}

	reply, err := chat.ParseReply(raw)
	if err != nil {
		slog.Warn("unusable generation response", "error", err, "raw", truncate(raw, 200))
		if errors.Is(err, chat.ErrNoPayload) {
			return chat.ErrorReply(
				"Response Format Issue",
				"I'm having trouble formatting my response. Let me try again.",
				"Sorry, let me rephrase that.",
			)
		}
		return chat.ErrorReply(
			"Response Format Error",
			"I had trouble understanding that. Could you try rephrasing your request?",
			"Sorry, I didn't quite get that. Can you try again?",
		)
	}

	sess.ApplyState(reply.ConversationState, s.mergeState)

	switch reply.Kind() {
	case chat.ActionCreateLeague:
		created, errReply := s.executeCreateLeague(ctx, reply)
		if errReply != nil {
			return errReply
		}
		result.CreatedLeague = created
		sess.Reset()
	case chat.ActionCreateGame:
		created, errReply := s.executeCreateGame(ctx, reply)
		if errReply != nil {
			return errReply
		}
		result.CreatedGame = created
		sess.Reset()
	}

	return reply
}

func (s *ChatService) promptContext(ctx context.Context, sess *chat.Session, message string) (chat.PromptContext, error) {
	leagues, err := s.leagueStore.GetLeagues(ctx)
	if err != nil {
		return chat.PromptContext{}, err
	}

	summaries := make([]chat.LeagueSummary, 0, len(leagues))
	for _, l := range leagues {
		summaries = append(summaries, chat.LeagueSummary{
			Name:   l.Name,
			Format: string(l.Format),
			Teams:  len(l.Teams),
		})
	}

	referees, err := s.gameStore.GetReferees(ctx)
	if err != nil {
		return chat.PromptContext{}, err
	}

	gameCount, err := s.gameStore.CountGames(ctx)
	if err != nil {
		return chat.PromptContext{}, err
	}

	return chat.PromptContext{
		Leagues:   summaries,
		Referees:  referees,
		GameCount: gameCount,
		State:     sess.State,
		History:   sess.Window(transcriptWindow),
		Message:   message,
	}, nil
}

func (s *ChatService) executeCreateLeague(ctx context.Context, reply *chat.Reply) (*league.League, *chat.Reply) {
	data := reply.Data

	today := time.Now()
	in := CreateLeagueInput{
		Name:                stringField(data, "name", "New League"),
		Format:              stringField(data, "format", "7v7"),
		StartDate:           stringField(data, "start_date", today.Format(dateLayout)),
		EndDate:             stringField(data, "end_date", today.AddDate(0, 0, 90).Format(dateLayout)),
		FeeType:             stringField(data, "fee_type", "captain"),
		FeeAmount:           numberField(data, "fee_amount"),
		Venue:               stringField(data, "venue", "TBD"),
		SchedulePreferences: stringField(data, "schedule_preferences", "Weekends"),
		Teams:               coerceTeams(data["teams"]),
	}

	created, err := s.leagues.CreateLeague(ctx, in)
	switch {
	case err == nil:
		return created, nil
	case errors.Is(err, league.ErrDuplicateName):
		return nil, chat.ErrorReply(
			"Oops!",
			"That league name already exists. Please choose a different name.",
			"Please try a different name",
		)
	case errors.Is(err, league.ErrInvalidDateRange):
		return nil, chat.ErrorReply(
			"Invalid Dates",
			"The end date must be after the start date. Please check the dates and try again.",
			"Those dates don't work. The end date must come after the start date.",
		)
	default:
		slog.Error("failed to create league", "error", err)
		return nil, chat.ErrorReply("Error", "Something went wrong: "+truncate(err.Error(), 100), "Oops, something went wrong. Please try again.")
	}
}

func (s *ChatService) executeCreateGame(ctx context.Context, reply *chat.Reply) (*league.Game, *chat.Reply) {
	data := reply.Data

	referee := stringField(data, "referee", "")
	if referee == "" {
		if roster, err := s.gameStore.GetReferees(ctx); err == nil && len(roster) > 0 {
			referee = roster[0]
		}
	}

	in := CreateGameInput{
		LeagueName: stringField(data, "league_name", ""),
		TeamA:      stringField(data, "team_a", ""),
		TeamB:      stringField(data, "team_b", ""),
		Date:       stringField(data, "date", ""),
		Time:       stringField(data, "time", ""),
		Venue:      stringField(data, "venue", "TBD"),
		Referee:    referee,
	}

	created, err := s.games.CreateGame(ctx, in)
	switch {
	case err == nil:
		return created, nil
	case errors.Is(err, league.ErrUnknownLeague):
		return nil, chat.ErrorReply(
			"Unknown League",
			"I couldn't find a league called '"+in.LeagueName+"'. Which league should this game belong to?",
			"I don't know that league. Which league did you mean?",
		)
	case errors.Is(err, league.ErrDuplicateFixture):
		return nil, chat.ErrorReply(
			"Game Already Scheduled",
			"A game between these two teams has already been created.",
			"Those teams already have a game scheduled.",
		)
	default:
		slog.Error("failed to create game", "error", err)
		return nil, chat.ErrorReply("Error", "Something went wrong: "+truncate(err.Error(), 100), "Oops, something went wrong. Please try again.")
	}
}

// coerceTeams accepts the three shapes the generator produces for "teams": a
// comma-separated string, a list of names, or a list of structured entries.
func coerceTeams(v any) []league.Team {
	switch teams := v.(type) {
	case string:
		var names []string
		for _, name := range strings.Split(teams, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		return BuildTeams(names)
	case []any:
		result := make([]league.Team, 0, len(teams))
		for i, entry := range teams {
			switch e := entry.(type) {
			case string:
				result = append(result, league.Team{
					ID:   int64(i + 1),
					Name: strings.TrimSpace(e),
					Logo: teamEmojis[i%len(teamEmojis)],
				})
			case map[string]any:
				t := league.Team{
					ID:   int64(i + 1),
					Name: stringField(e, "name", ""),
					Logo: stringField(e, "logo", teamEmojis[i%len(teamEmojis)]),
				}
				if id := numberField(e, "id"); id > 0 {
					t.ID = int64(id)
				}
				result = append(result, t)
			}
		}
		return result
	default:
		return nil
	}
}

func stringField(m map[string]any, key, def string) string {
	if v, ok := m[key]; ok {
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return def
}

func numberField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
