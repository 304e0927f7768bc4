package handlers

import (
	"net/http"

	"github.com/Dosada05/codm-tournament/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(ls services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls}
}

// ManualEntryInput adds kills to a player outside of any match.
type ManualEntryInput struct {
	PlayerID   string `json:"playerId"`
	DeltaKills int    `json:"deltaKills"`
}

// GetLeaderboard godoc
// @Summary Kill leaderboard of a tournament
// @Tags leaderboards
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param gameMode path string true "battle_royale or multiplayer"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/leaderboards/{gameMode} [get]
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	mode, err := gameModeParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.leaderboardService.GetLeaderboard(r.Context(), tournamentID, mode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddManualEntry godoc
// @Summary Add kills for a player outside of a recorded match
// @Tags leaderboards
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param gameMode path string true "battle_royale or multiplayer"
// @Param input body ManualEntryInput true "Player and kills"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/leaderboards/{gameMode}/entries [post]
func (h *LeaderboardHandler) AddManualEntry(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	mode, err := gameModeParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input ManualEntryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.leaderboardService.UpsertKillLeaderboardEntry(r.Context(), tournamentID, mode, input.PlayerID, input.DeltaKills)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Recalculate godoc
// @Summary Rebuild the kill leaderboard from every recorded submission
// @Tags leaderboards
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param gameMode path string true "battle_royale or multiplayer"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/leaderboards/{gameMode}/recalculate [post]
func (h *LeaderboardHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	mode, err := gameModeParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.leaderboardService.RecalculateLeaderboard(r.Context(), tournamentID, mode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetGlobalRecords godoc
// @Summary All time kill records of a game mode
// @Tags leaderboards
// @Produce json
// @Param gameMode path string true "battle_royale or multiplayer"
// @Success 200 {object} map[string]interface{}
// @Router /records/{gameMode} [get]
func (h *LeaderboardHandler) GetGlobalRecords(w http.ResponseWriter, r *http.Request) {
	mode, err := gameModeParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	records, err := h.leaderboardService.GetGlobalRecords(r.Context(), mode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"records": records}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListGlobalRecords godoc
// @Summary All time kill records of every game mode
// @Tags leaderboards
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /records [get]
func (h *LeaderboardHandler) ListGlobalRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.leaderboardService.GetAllGlobalRecords(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"records": records}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
