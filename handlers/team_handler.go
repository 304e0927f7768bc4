package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

// RegisterTeam godoc
// @Summary Register a team with its roster
// @Tags teams
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param input body services.RegisterTeamInput true "Team and players"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Team name taken or tournament completed"
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams [post]
func (h *TeamHandler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RegisterTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.RegisterTeam(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTeams godoc
// @Summary List the teams of a tournament
// @Tags teams
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param status query string false "incomplete, complete, validated or rejected"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/teams [get]
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.TeamStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.TeamStatus(raw)
		switch s {
		case models.TeamStatusIncomplete, models.TeamStatusComplete, models.TeamStatusValidated, models.TeamStatusRejected:
			status = &s
		default:
			badRequestResponse(w, r, errInvalidQuery("status"))
			return
		}
	}

	teams, err := h.teamService.ListTeams(r.Context(), tournamentID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTeam godoc
// @Summary Get one team
// @Tags teams
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param teamID path string true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/teams/{teamID} [get]
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, teamID, ok := teamPath(w, r)
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), tournamentID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ValidatePlayer godoc
// @Summary Validate a player of a team
// @Tags teams
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param teamID path string true "Team ID"
// @Param playerID path string true "Player ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams/{teamID}/players/{playerID}/validate [post]
func (h *TeamHandler) ValidatePlayer(w http.ResponseWriter, r *http.Request) {
	h.playerAction(w, r, h.teamService.ValidatePlayer)
}

// RejectPlayer godoc
// @Summary Reject a player of a team
// @Tags teams
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param teamID path string true "Team ID"
// @Param playerID path string true "Player ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams/{teamID}/players/{playerID}/reject [post]
func (h *TeamHandler) RejectPlayer(w http.ResponseWriter, r *http.Request) {
	h.playerAction(w, r, h.teamService.RejectPlayer)
}

func (h *TeamHandler) playerAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, tournamentID, teamID, playerID string) (*models.Team, error),
) {
	tournamentID, teamID, ok := teamPath(w, r)
	if !ok {
		return
	}
	playerID, err := pathParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := action(r.Context(), tournamentID, teamID, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RejectTeam godoc
// @Summary Reject a whole team
// @Tags teams
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param teamID path string true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams/{teamID}/reject [post]
func (h *TeamHandler) RejectTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, teamID, ok := teamPath(w, r)
	if !ok {
		return
	}

	team, err := h.teamService.RejectTeam(r.Context(), tournamentID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteTeam godoc
// @Summary Delete a team and its players
// @Tags teams
// @Param tournamentID path string true "Tournament ID"
// @Param teamID path string true "Team ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams/{teamID} [delete]
func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, teamID, ok := teamPath(w, r)
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(r.Context(), tournamentID, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func teamPath(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return "", "", false
	}
	teamID, err := pathParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return "", "", false
	}
	return tournamentID, teamID, true
}
