package handlers

import (
	"net/http"

	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/repositories"
	"github.com/Dosada05/codm-tournament/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	archiveService    services.ArchiveService
}

func NewTournamentHandler(ts services.TournamentService, as services.ArchiveService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		archiveService:    as,
	}
}

// CreateHandler godoc
// @Summary Create a tournament
// @Tags tournaments
// @Accept json
// @Produce json
// @Param input body services.CreateTournamentInput true "Tournament"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler godoc
// @Summary Get a tournament
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary List tournaments
// @Tags tournaments
// @Produce json
// @Param game_mode query string false "battle_royale or multiplayer"
// @Param status query string false "draft, active or completed"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /tournaments [get]
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListTournamentsFilter
	query := r.URL.Query()

	if modeStr := query.Get("game_mode"); modeStr != "" {
		mode := models.GameMode(modeStr)
		if !mode.Valid() {
			badRequestResponse(w, r, errInvalidQuery("game_mode"))
			return
		}
		filter.GameMode = &mode
	}
	if statusStr := query.Get("status"); statusStr != "" {
		status := models.TournamentStatus(statusStr)
		switch status {
		case models.TournamentStatusDraft, models.TournamentStatusActive, models.TournamentStatusCompleted:
			filter.Status = &status
		default:
			badRequestResponse(w, r, errInvalidQuery("status"))
			return
		}
	}

	var err error
	if filter.Limit, err = queryInt(r, "limit", 20, 1); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset", 0, 0); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler godoc
// @Summary Update tournament details
// @Tags tournaments
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param input body services.UpdateTournamentInput true "Changes"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Format locked or name taken"
// @Security BearerAuth
// @Router /tournaments/{tournamentID} [put]
func (h *TournamentHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.UpdateTournament(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler godoc
// @Summary Delete a tournament with its teams, matches and leaderboards
// @Tags tournaments
// @Param tournamentID path string true "Tournament ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID} [delete]
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.DeleteTournament(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ActivateHandler godoc
// @Summary Make a tournament the active one of its game mode
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/activate [post]
func (h *TournamentHandler) ActivateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.ActivateTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetActiveHandler godoc
// @Summary Get the active tournament of a game mode
// @Tags tournaments
// @Produce json
// @Param gameMode path string true "battle_royale or multiplayer"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/active/{gameMode} [get]
func (h *TournamentHandler) GetActiveHandler(w http.ResponseWriter, r *http.Request) {
	mode, err := gameModeParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetActiveTournament(r.Context(), mode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecomputeStatsHandler godoc
// @Summary Recompute the stored tournament counters
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/stats [post]
func (h *TournamentHandler) RecomputeStatsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.tournamentService.RecomputeStats(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// OverviewHandler godoc
// @Summary Tournament, matches and kill leaderboard in one call
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} services.TournamentOverview
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/overview [get]
func (h *TournamentHandler) OverviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	overview, err := h.tournamentService.GetOverview(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, overview, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportArchiveHandler godoc
// @Summary Upload a JSON snapshot of the tournament to object storage
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 503 {object} map[string]string "Archive storage not configured"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/archive [post]
func (h *TournamentHandler) ExportArchiveHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.archiveService.ExportArchive(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"archive": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
