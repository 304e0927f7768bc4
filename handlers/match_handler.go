package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/services"
	"github.com/go-chi/chi/v5"
)

type MatchHandler struct {
	bracketService services.BracketService
	matchService   services.MatchService
}

func NewMatchHandler(bs services.BracketService, ms services.MatchService) *MatchHandler {
	return &MatchHandler{
		bracketService: bs,
		matchService:   ms,
	}
}

func phaseParam(r *http.Request) (models.PhaseType, error) {
	phase := models.PhaseType(chi.URLParam(r, "phase"))
	if !phase.Valid() {
		return "", fmt.Errorf("invalid phase %q", phase)
	}
	return phase, nil
}

// GeneratePhase godoc
// @Summary Generate the matches of a phase
// @Tags matches
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param phase path string true "group_stage, play_in or elimination"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Phase not available yet"
// @Failure 409 {object} map[string]string "Phase already generated"
// @Failure 422 {object} map[string]string "Not enough validated teams"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/phases/{phase} [post]
func (h *MatchHandler) GeneratePhase(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.bracketService.GeneratePhase)
}

// RegeneratePhase godoc
// @Summary Replace a phase whose matches have not started
// @Tags matches
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param phase path string true "group_stage, play_in or elimination"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Phase started or a later phase exists"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/phases/{phase} [put]
func (h *MatchHandler) RegeneratePhase(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.bracketService.RegeneratePhase)
}

type phaseGenerator func(ctx context.Context, tournamentID string, phase models.PhaseType) ([]*models.Match, error)

func (h *MatchHandler) generate(w http.ResponseWriter, r *http.Request, gen phaseGenerator) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	phase, err := phaseParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := gen(r.Context(), tournamentID, phase)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatches godoc
// @Summary List matches of a tournament
// @Tags matches
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param phase query string false "group_stage, play_in or elimination"
// @Param group query string false "Group name"
// @Param bloc query string false "A or B"
// @Param round query int false "Round number"
// @Param status query string false "pending, in_progress or completed"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/matches [get]
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	filter, err := matchFilterFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.ListMatches(r.Context(), tournamentID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func matchFilterFromQuery(r *http.Request) (models.MatchFilter, error) {
	query := r.URL.Query()
	filter := models.MatchFilter{
		Phase:     models.PhaseType(query.Get("phase")),
		GroupName: query.Get("group"),
		BlocType:  models.BlocType(query.Get("bloc")),
		Status:    models.MatchStatus(query.Get("status")),
	}

	if filter.Phase != "" && !filter.Phase.Valid() {
		return filter, errInvalidQuery("phase")
	}
	if filter.BlocType != "" && filter.BlocType != models.BlocA && filter.BlocType != models.BlocB {
		return filter, errInvalidQuery("bloc")
	}
	switch filter.Status {
	case "", models.MatchStatusPending, models.MatchStatusInProgress, models.MatchStatusCompleted:
	default:
		return filter, errInvalidQuery("status")
	}
	if raw := query.Get("round"); raw != "" {
		round, err := strconv.Atoi(raw)
		if err != nil || round < 1 {
			return filter, errInvalidQuery("round")
		}
		filter.Round = &round
	}
	return filter, nil
}

// GetMatch godoc
// @Summary Get one match
// @Tags matches
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param matchID path string true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	tournamentID, matchID, ok := matchPath(w, r)
	if !ok {
		return
	}

	match, err := h.bracketService.GetMatch(r.Context(), tournamentID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetProgress godoc
// @Summary Generation and completion state of every phase
// @Tags matches
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/progress [get]
func (h *MatchHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	progress, err := h.bracketService.GetProgress(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"phases": progress}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordRound godoc
// @Summary Record the result of one round of a match
// @Tags matches
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param matchID path string true "Match ID"
// @Param input body services.RecordRoundInput true "Round winner, per player kills and the match version"
// @Success 200 {object} services.RecordOutcome
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Stale version, concurrent submission or completed match"
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchID}/rounds [post]
func (h *MatchHandler) RecordRound(w http.ResponseWriter, r *http.Request) {
	tournamentID, matchID, ok := matchPath(w, r)
	if !ok {
		return
	}

	var input services.RecordRoundInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.matchService.RecordRoundResult(r.Context(), tournamentID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, outcome, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func matchPath(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	tournamentID, err := pathParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return "", "", false
	}
	matchID, err := pathParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return "", "", false
	}
	return tournamentID, matchID, true
}
