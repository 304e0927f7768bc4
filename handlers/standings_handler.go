package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/services"
	"github.com/go-chi/chi/v5"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(ss services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss}
}

// ListGroupStandings godoc
// @Summary Standings of every group
// @Tags standings
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/standings/groups [get]
func (h *StandingsHandler) ListGroupStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	groups, err := h.standingsService.GetAllGroupStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"groups": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetGroupStandings godoc
// @Summary Standings of one group
// @Tags standings
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param groupName path string true "Group name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/standings/groups/{groupName} [get]
func (h *StandingsHandler) GetGroupStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	groupName, err := pathParam(r, "groupName")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.standingsService.GetGroupStandings(r.Context(), tournamentID, groupName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"group": groupName, "standings": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBlocStandings godoc
// @Summary Standings of a play-in bloc
// @Tags standings
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param bloc path string true "A or B"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/standings/blocs/{bloc} [get]
func (h *StandingsHandler) GetBlocStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	bloc := models.BlocType(chi.URLParam(r, "bloc"))
	if bloc != models.BlocA && bloc != models.BlocB {
		badRequestResponse(w, r, fmt.Errorf("invalid bloc %q", bloc))
		return
	}

	rows, err := h.standingsService.GetPlayInBlocStandings(r.Context(), tournamentID, bloc)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bloc": bloc, "standings": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetQualification godoc
// @Summary Teams advancing from the group stage, direct and repechage
// @Tags standings
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Group stage not completed"
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/standings/qualification [get]
func (h *StandingsHandler) GetQualification(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	q, err := h.standingsService.GetQualification(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"qualification": q}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
