package handlers

import (
	"errors"
	"net/http"

	"github.com/kmalikov/competition-system/middleware"
	"github.com/kmalikov/competition-system/models"
	"github.com/kmalikov/competition-system/repositories"
	"github.com/kmalikov/competition-system/services"
)

type GolfCourseHandler struct {
	golfCourseService services.GolfCourseService
}

func NewGolfCourseHandler(golfCourseService services.GolfCourseService) *GolfCourseHandler {
	return &GolfCourseHandler{golfCourseService: golfCourseService}
}

func (h *GolfCourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	submitterID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.CreateGolfCourseInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	course, err := h.golfCourseService.CreateGolfCourse(r.Context(), submitterID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"golf_course": course}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GolfCourseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "golfCourseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	course, err := h.golfCourseService.GetGolfCourseByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"golf_course": course}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GolfCourseHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListGolfCoursesFilter{}

	if country := r.URL.Query().Get("country"); country != "" {
		filter.CountryCode = &country
	}
	if statusStr := r.URL.Query().Get("approval_status"); statusStr != "" {
		status := models.GolfCourseApprovalStatus(statusStr)
		if status != models.GolfCourseStatusPending && status != models.GolfCourseStatusApproved {
			badRequestResponse(w, r, errors.New("invalid approval_status filter"))
			return
		}
		filter.ApprovalStatus = &status
	}

	courses, err := h.golfCourseService.ListGolfCourses(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"golf_courses": courses}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Approve — модерация поля, доступна только администратору (см. маршруты).
func (h *GolfCourseHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "golfCourseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.golfCourseService.ApproveGolfCourse(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "golf course approved"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GolfCourseHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "golfCourseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequestResponse(w, r, errors.New("failed to parse multipart form"))
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		badRequestResponse(w, r, errors.New("photo file is required"))
		return
	}
	defer file.Close()

	course, err := h.golfCourseService.UploadPhoto(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"golf_course": course}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
