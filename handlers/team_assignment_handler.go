package handlers

import (
	"errors"
	"net/http"

	"github.com/kmalikov/competition-system/middleware"
	"github.com/kmalikov/competition-system/models"
	"github.com/kmalikov/competition-system/services"
)

type TeamAssignmentHandler struct {
	assignmentService services.TeamAssignmentService
}

func NewTeamAssignmentHandler(assignmentService services.TeamAssignmentService) *TeamAssignmentHandler {
	return &TeamAssignmentHandler{assignmentService: assignmentService}
}

// Assign запускает формирование команд для соревнования.
// Режим automatic использует змейку по гандикапам, manual принимает готовые составы.
func (h *TeamAssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AssignTeamsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	switch input.Mode {
	case models.AssignmentModeAutomatic, models.AssignmentModeManual:
	case "":
		input.Mode = models.AssignmentModeAutomatic
	default:
		badRequestResponse(w, r, errors.New("mode must be 'automatic' or 'manual'"))
		return
	}

	assignment, err := h.assignmentService.AssignTeams(r.Context(), competitionID, callerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"assignment": assignment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamAssignmentHandler) GetByCompetition(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	assignment, err := h.assignmentService.GetByCompetition(r.Context(), competitionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignment": assignment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
