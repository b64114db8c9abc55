package handlers

import (
	"net/http"
	"time"

	"github.com/CaioSouzaC1/futsal-api/services"
)

type GameHandler struct {
	gameService services.GameService
}

func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

type gamePayload struct {
	Date          string `json:"date" validate:"required"`
	HomeTeamID    int    `json:"home_team_id" validate:"required,gt=0"`
	VisitorTeamID int    `json:"visitor_team_id" validate:"required,gt=0,nefield=HomeTeamID"`
	Start         string `json:"start" validate:"required"`
	End           string `json:"end" validate:"required"`

	// Omit both goal fields to record a scheduled (incomplete) game.
	HomeTeamGoals    *int `json:"home_team_goals" validate:"omitempty,gte=0"`
	VisitorTeamGoals *int `json:"visitor_team_goals" validate:"omitempty,gte=0"`
}

func (p *gamePayload) toInput() (services.GameInput, error) {
	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return services.GameInput{}, err
	}
	return services.GameInput{
		Date:             date,
		HomeTeamID:       p.HomeTeamID,
		VisitorTeamID:    p.VisitorTeamID,
		Start:            p.Start,
		End:              p.End,
		HomeTeamGoals:    p.HomeTeamGoals,
		VisitorTeamGoals: p.VisitorTeamGoals,
	}, nil
}

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload gamePayload
	if err := readJSON(w, r, &payload); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input, err := payload.toInput()
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message": "Game created!",
		"game_id": game.ID,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var payload gamePayload
	if err := readJSON(w, r, &payload); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input, err := payload.toInput()
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.Edit(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message": "Game edited!",
		"game":    game.ID,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.Delete(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message": "Game deleted!",
		"game":    game.ID,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
