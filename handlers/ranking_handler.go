package handlers

import (
	"net/http"

	"github.com/Dosada05/codm-tournament/services"
)

type RankingHandler struct {
	rankingService services.RankingService
}

func NewRankingHandler(rs services.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rs}
}

// RecordGameResult godoc
// @Summary Record a battle royale game result for a team
// @Tags rankings
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param input body services.GameResultInput true "Placement and kills"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Not a battle royale tournament"
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Game already recorded for the team"
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/results [post]
func (h *RankingHandler) RecordGameResult(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GameResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.rankingService.RecordGameResult(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetRankings godoc
// @Summary Battle royale team ranking
// @Tags rankings
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/rankings [get]
func (h *RankingHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rankings, err := h.rankingService.GetTeamRankings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rankings": rankings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
