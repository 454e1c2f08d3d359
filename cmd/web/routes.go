package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pffl/leaguehub/internal/chat"
	"github.com/pffl/leaguehub/internal/httputil"
	"github.com/pffl/leaguehub/internal/league"
	"github.com/pffl/leaguehub/internal/middleware"
	"github.com/pffl/leaguehub/internal/service"
)

type createLeagueRequest struct {
	Name                string   `json:"name"`
	Format              string   `json:"format"`
	StartDate           string   `json:"start_date"`
	EndDate             string   `json:"end_date"`
	FeeType             string   `json:"fee_type"`
	FeeAmount           float64  `json:"fee_amount"`
	Venue               string   `json:"venue"`
	SchedulePreferences string   `json:"schedule_preferences"`
	Teams               []string `json:"teams"`
}

type createGameRequest struct {
	LeagueID   int64  `json:"league_id"`
	LeagueName string `json:"league_name"`
	TeamA      string `json:"team_a"`
	TeamB      string `json:"team_b"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Venue      string `json:"venue"`
	Referee    string `json:"referee"`
}

type chatRequest struct {
	Message string `json:"message"`
}

func newRouter(sessionManager *scs.SessionManager, registry *chat.Registry, leagueService *service.LeagueService, gameService *service.GameService, chatService *service.ChatService) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)

	r.Get("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		leagues, err := leagueService.ListLeagues(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to get leagues", err)
			return
		}
		games, err := gameService.ListGames(r.Context(), "")
		if err != nil {
			httputil.InternalServerError(w, "Failed to get games", err)
			return
		}
		referees, err := gameService.ListReferees(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to get referees", err)
			return
		}

		teams := 0
		for _, l := range leagues {
			teams += len(l.Teams)
		}

		httputil.JSON(w, http.StatusOK, map[string]int{
			"total_leagues":  len(leagues),
			"total_games":    len(games),
			"total_teams":    teams,
			"total_referees": len(referees),
		})
	})

	r.Get("/api/leagues", func(w http.ResponseWriter, r *http.Request) {
		leagues, err := leagueService.ListLeagues(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to get leagues", err)
			return
		}
		httputil.JSON(w, http.StatusOK, leagues)
	})

	// Wizard-style direct creation: operator-confirmed fields, no dialogue.
	r.Post("/api/leagues", func(w http.ResponseWriter, r *http.Request) {
		var req createLeagueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		if req.Name == "" {
			httputil.BadRequest(w, "League name is required", nil)
			return
		}

		created, err := leagueService.CreateLeague(r.Context(), service.CreateLeagueInput{
			Name:                req.Name,
			Format:              req.Format,
			StartDate:           req.StartDate,
			EndDate:             req.EndDate,
			FeeType:             req.FeeType,
			FeeAmount:           req.FeeAmount,
			Venue:               req.Venue,
			SchedulePreferences: req.SchedulePreferences,
			Teams:               service.BuildTeams(req.Teams),
		})
		if err != nil {
			switch {
			case errors.Is(err, league.ErrDuplicateName):
				httputil.Conflict(w, err.Error(), nil)
			case errors.Is(err, league.ErrInvalidDateRange):
				httputil.BadRequest(w, err.Error(), nil)
			default:
				httputil.InternalServerError(w, "Failed to create league", err)
			}
			return
		}
		httputil.JSON(w, http.StatusCreated, created)
	})

	r.Get("/api/games", func(w http.ResponseWriter, r *http.Request) {
		games, err := gameService.ListGames(r.Context(), r.URL.Query().Get("league"))
		if err != nil {
			httputil.InternalServerError(w, "Failed to get games", err)
			return
		}
		httputil.JSON(w, http.StatusOK, games)
	})

	r.Post("/api/games", func(w http.ResponseWriter, r *http.Request) {
		var req createGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		if req.TeamA == "" || req.TeamB == "" {
			httputil.BadRequest(w, "Both teams are required", nil)
			return
		}

		created, err := gameService.CreateGame(r.Context(), service.CreateGameInput{
			LeagueID:   req.LeagueID,
			LeagueName: req.LeagueName,
			TeamA:      req.TeamA,
			TeamB:      req.TeamB,
			Date:       req.Date,
			Time:       req.Time,
			Venue:      req.Venue,
			Referee:    req.Referee,
		})
		if err != nil {
			switch {
			case errors.Is(err, league.ErrUnknownLeague):
				httputil.NotFound(w, err.Error(), nil)
			case errors.Is(err, league.ErrDuplicateFixture):
				httputil.Conflict(w, "Game Already Scheduled: a game between these two teams has already been created.", nil)
			default:
				httputil.BadRequest(w, err.Error(), nil)
			}
			return
		}
		httputil.JSON(w, http.StatusCreated, created)
	})

	r.Get("/api/referees", func(w http.ResponseWriter, r *http.Request) {
		referees, err := gameService.ListReferees(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to get referees", err)
			return
		}
		httputil.JSON(w, http.StatusOK, referees)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadChatSession(sessionManager, registry))

		r.Post("/api/chat", func(w http.ResponseWriter, r *http.Request) {
			var req chatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			if req.Message == "" {
				httputil.BadRequest(w, "Message is required", nil)
				return
			}

			sess := middleware.GetChatSession(r.Context())
			if sess == nil {
				httputil.InternalServerError(w, "No chat session", nil)
				return
			}

			result, err := chatService.SubmitUserTurn(r.Context(), sess, req.Message)
			if err != nil {
				httputil.InternalServerError(w, "Failed to process message", err)
				return
			}
			httputil.JSON(w, http.StatusOK, result)
		})

		r.Post("/api/chat/reset", func(w http.ResponseWriter, r *http.Request) {
			sess := middleware.GetChatSession(r.Context())
			if sess == nil {
				httputil.InternalServerError(w, "No chat session", nil)
				return
			}
			sess.Lock()
			sess.Clear()
			sess.Unlock()
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return r
}
