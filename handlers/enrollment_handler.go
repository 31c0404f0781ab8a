package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/kmalikov/competition-system/middleware"
	"github.com/kmalikov/competition-system/services"
	"github.com/shopspring/decimal"
)

type EnrollmentHandler struct {
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// Request — заявка текущего пользователя на участие в соревновании.
func (h *EnrollmentHandler) Request(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	enrollment, err := h.enrollmentService.RequestEnrollment(r.Context(), competitionID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"enrollment": enrollment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Invite — приглашение игрока организатором.
func (h *EnrollmentHandler) Invite(w http.ResponseWriter, r *http.Request) {
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
		UserID int `json:"user_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.UserID <= 0 {
		badRequestResponse(w, r, errors.New("user_id is required"))
		return
	}

	enrollment, err := h.enrollmentService.InvitePlayer(r.Context(), competitionID, callerID, input.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"enrollment": enrollment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	enrollments, err := h.enrollmentService.ListByCompetition(r.Context(), competitionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"enrollments": enrollments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EnrollmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.enrollmentService.ApproveEnrollment)
}

func (h *EnrollmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.enrollmentService.RejectEnrollment)
}

func (h *EnrollmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.enrollmentService.CancelEnrollment)
}

func (h *EnrollmentHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.enrollmentService.WithdrawEnrollment)
}

func (h *EnrollmentHandler) SetCustomHandicap(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	enrollmentID, err := getIDFromURL(r, "enrollmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		CustomHandicap *decimal.Decimal `json:"custom_handicap"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.enrollmentService.SetCustomHandicap(r.Context(), enrollmentID, callerID, input.CustomHandicap); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "custom handicap updated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// transition применяет один из переходов жизненного цикла заявки.
func (h *EnrollmentHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, enrollmentID, callerID int) error) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	enrollmentID, err := getIDFromURL(r, "enrollmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := fn(r.Context(), enrollmentID, callerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "enrollment updated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
