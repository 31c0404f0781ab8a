package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kmalikov/competition-system/middleware"
	"github.com/kmalikov/competition-system/models"
	"github.com/kmalikov/competition-system/repositories"
	"github.com/kmalikov/competition-system/services"
)

const maxUploadSize = 5 << 20 // 5MB

type CompetitionHandler struct {
	competitionService services.CompetitionService
}

func NewCompetitionHandler(competitionService services.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{competitionService: competitionService}
}

func (h *CompetitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.CreateCompetitionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competition, err := h.competitionService.CreateCompetition(r.Context(), creatorID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CompetitionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competition, err := h.competitionService.GetCompetitionByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CompetitionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListCompetitionsFilter{}

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := models.CompetitionStatus(statusStr)
		if !status.IsValid() {
			badRequestResponse(w, r, errors.New("invalid status filter"))
			return
		}
		filter.Status = &status
	}
	if country := r.URL.Query().Get("country"); country != "" {
		filter.CountryCode = &country
	}
	if creatorStr := r.URL.Query().Get("creator_id"); creatorStr != "" {
		creatorID, err := strconv.Atoi(creatorStr)
		if err != nil || creatorID <= 0 {
			badRequestResponse(w, r, errors.New("invalid creator_id filter"))
			return
		}
		filter.CreatorID = &creatorID
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	competitions, err := h.competitionService.ListCompetitions(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competitions": competitions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CompetitionHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
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

	var input struct {
		Status models.CompetitionStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !input.Status.IsValid() {
		badRequestResponse(w, r, errors.New("invalid target status"))
		return
	}

	competition, err := h.competitionService.ChangeStatus(r.Context(), competitionID, callerID, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CompetitionHandler) AddGolfCourse(w http.ResponseWriter, r *http.Request) {
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

	var input struct {
		GolfCourseID int `json:"golf_course_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.GolfCourseID <= 0 {
		badRequestResponse(w, r, errors.New("golf_course_id is required"))
		return
	}

	association, err := h.competitionService.AddGolfCourse(r.Context(), competitionID, callerID, input.GolfCourseID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"golf_course": association}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CompetitionHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequestResponse(w, r, errors.New("failed to parse multipart form"))
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, errors.New("logo file is required"))
		return
	}
	defer file.Close()

	competition, err := h.competitionService.UploadLogo(r.Context(), competitionID, callerID, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
