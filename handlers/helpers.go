package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kmalikov/competition-system/models"
	"github.com/kmalikov/competition-system/services"
)

type jsonResponse map[string]interface{}

type contextKey string

const userContextKey contextKey = "user"

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // Ошибка программиста: передан не указатель
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	if err != nil {
		return err
	}

	return nil
}

// getIDFromURL читает числовой параметр маршрута chi.
func getIDFromURL(r *http.Request, param string) (int, error) {
	idStr := chi.URLParam(r, param)
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter: %q", param, idStr)
	}
	return id, nil
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	err := writeJSON(w, status, env, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Ресурсы не найдены
	case errors.Is(err, services.ErrCompetitionNotFound),
		errors.Is(err, services.ErrGolfCourseNotFound),
		errors.Is(err, services.ErrEnrollmentNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAssignmentNotFound):
		notFoundResponse(w, r)

	// Конфликты
	case errors.Is(err, services.ErrEnrollmentConflict),
		errors.Is(err, services.ErrGolfCourseAlreadyAssigned):
		conflictResponse(w, r, err.Error())

	// Нарушения статусной модели и бизнес-правил
	case errors.Is(err, services.ErrCompetitionNotDraft),
		errors.Is(err, services.ErrCompetitionNotClosed),
		errors.Is(err, services.ErrInvalidStateTransition),
		errors.Is(err, services.ErrEnrollmentNotPending),
		errors.Is(err, services.ErrEnrollmentNotApproved),
		errors.Is(err, services.ErrEnrollmentNotOpen),
		errors.Is(err, services.ErrInsufficientPlayers),
		errors.Is(err, services.ErrOddPlayerCount),
		errors.Is(err, services.ErrPlayerNotEnrolled),
		errors.Is(err, services.ErrDuplicatePlayerInTeams),
		errors.Is(err, models.ErrTeamAssignmentEmptyTeam),
		errors.Is(err, models.ErrTeamAssignmentUnbalancedTeams),
		errors.Is(err, models.ErrTeamAssignmentCrossDuplicate),
		errors.Is(err, models.ErrTeamAssignmentTeamDuplicate),
		errors.Is(err, services.ErrGolfCourseNotApproved),
		errors.Is(err, services.ErrIncompatibleCountry),
		errors.Is(err, services.ErrCompetitionNameRequired),
		errors.Is(err, services.ErrCompetitionCountryRequired),
		errors.Is(err, services.ErrCompetitionInvalidDates),
		errors.Is(err, services.ErrGolfCourseNameRequired),
		errors.Is(err, services.ErrGolfCourseCountryRequired),
		errors.Is(err, services.ErrGolfCourseInvalidHoles),
		errors.Is(err, services.ErrHandicapOutOfRange),
		errors.Is(err, services.ErrPasswordTooShort):
		badRequestResponse(w, r, err)

	// Ошибки авторизации/доступа
	case errors.Is(err, services.ErrAuthInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())
	case errors.Is(err, services.ErrAuthEmailTaken):
		conflictResponse(w, r, err.Error())
	case errors.Is(err, services.ErrNotCompetitionCreator),
		errors.Is(err, services.ErrForbiddenOperation):
		forbiddenResponse(w, r, err.Error())

	// Непредвиденные ошибки
	default:
		serverErrorResponse(w, r, err)
	}
}
