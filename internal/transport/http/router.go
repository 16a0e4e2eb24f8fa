package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"online-judge/internal/app"
	"online-judge/internal/domain"
	"online-judge/internal/judge"
)

// AdminSecretHeader carries the shared admin secret on catalog writes.
const AdminSecretHeader = "X-Admin-Secret"

type API struct {
	service *app.JudgeService
}

func NewAPI(service *app.JudgeService) *API {
	return &API{service: service}
}

// NewRouter mounts the REST API, the websocket endpoint and the health check.
func NewRouter(service *app.JudgeService, ws *WSHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", ws.ServeWS)

	api := NewAPI(service)
	r.Route("/api/v1", api.RegisterRoutes)
	return r
}

func (a *API) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", a.login)
	r.Get("/sessions/active", a.activeSessions)
	r.Delete("/sessions/{userID}", a.logout)

	r.Get("/problems", a.listProblems)
	r.Get("/problems/{number}", a.getProblem)
	r.Post("/problems", a.addProblem)

	r.Post("/users/{userID}/submissions", a.submit)
	r.Get("/users/{userID}/history", a.history)

	r.Get("/leaderboard", a.leaderboard)
}

type loginRequest struct {
	Username string `json:"username"`
}

type activeSessionsView struct {
	Active int `json:"active"`
}

type submitRequest struct {
	Problem int             `json:"problem"`
	Answer  json.RawMessage `json:"answer"`
}

// problemView hides the expected output from solvers.
type problemView struct {
	Number      int               `json:"number"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Difficulty  domain.Difficulty `json:"difficulty"`
	Inputs      []int             `json:"inputs"`
	Points      int               `json:"points"`
}

type historyView struct {
	Entries []domain.HistoryEntry `json:"entries"`
	Lines   []string              `json:"lines"`
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	respondWithJSON(w, http.StatusCreated, a.service.Login(r.Context(), req.Username))
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.service.Logout(r.Context(), chi.URLParam(r, "userID")); err != nil {
		respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) activeSessions(w http.ResponseWriter, r *http.Request) {
	n, err := a.service.ActiveSessions(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, activeSessionsView{Active: n})
}

func (a *API) listProblems(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, a.service.ListProblems())
}

func (a *API) getProblem(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		respondWithError(w, fmt.Errorf("%w: %v", domain.ErrInvalidSelection, err))
		return
	}
	p, err := a.service.Problem(number)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, problemView{
		Number:      number,
		Title:       p.Title,
		Description: p.Description,
		Difficulty:  p.Difficulty,
		Inputs:      p.Inputs,
		Points:      judge.PointsFor(p.Difficulty),
	})
}

func (a *API) addProblem(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get(AdminSecretHeader)
	if err := a.service.CheckAdmin(secret); err != nil {
		respondWithError(w, err)
		return
	}
	var fields domain.NewProblem
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondWithError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	p, err := a.service.AddProblem(r.Context(), secret, fields)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, p)
}

func (a *API) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	res, err := a.service.Submit(r.Context(), chi.URLParam(r, "userID"), req.Problem, answerText(req.Answer))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (a *API) history(w http.ResponseWriter, r *http.Request) {
	entries, err := a.service.History(chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	respondWithJSON(w, http.StatusOK, historyView{Entries: entries, Lines: lines})
}

func (a *API) leaderboard(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, a.service.Leaderboard())
}

// answerText accepts the answer as a JSON number or string.
func answerText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
