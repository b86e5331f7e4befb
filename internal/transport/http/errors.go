package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mrioja/parkpass/internal/domain"
)

const (
	codeInvalidRequestBody   = "invalid_request_body"
	codeNotFound             = "not_found"
	codeMethodNotAllowed     = "method_not_allowed"
	codeEmptyVisitorList     = "empty_visitor_list"
	codeScheduleNotFound     = "schedule_not_found"
	codeInactiveSchedule     = "inactive_schedule"
	codeTermsNotAccepted     = "terms_not_accepted"
	codeInsufficientCapacity = "insufficient_capacity"
	codeDuplicateNationalID  = "duplicate_national_id_in_batch"
	codeInvalidVisitorData   = "invalid_visitor_data"
	codeVisitorNotFound      = "visitor_not_found"
	codeDuplicateEnrollment  = "duplicate_enrollment"
	codeSizeRequired         = "size_required"
	codeMinimumAgeNotMet     = "minimum_age_not_met"
	codeActivityNotFound     = "activity_not_found"
	codeActivityNameNeeded   = "activity_name_required"
	codeInvalidCapacity      = "invalid_capacity"
	codeInvalidTimeRange     = "invalid_time_range"
	codeInvalidStatus        = "invalid_status"
	codeInvalidMinimumAge    = "invalid_minimum_age"
	codeInvalidID            = "invalid_id"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	// Fields carries the offending field names for validation errors.
	Fields []string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorFields(w, status, code, msg, nil)
}

func writeErrorFields(w http.ResponseWriter, status int, code, msg string, fields []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error:  msg,
		Code:   code,
		Fields: fields,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the enrollment error taxonomy onto status codes:
// not-found outcomes are 404, duplicates 409, every other expected domain
// outcome 400, and anything unclassified is an opaque 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		emptyList    domain.EmptyVisitorListError
		schedNF      domain.ScheduleNotFoundError
		inactive     domain.InactiveScheduleError
		terms        domain.TermsNotAcceptedError
		capacity     domain.InsufficientCapacityError
		dupNatID     domain.DuplicateNaturalIDError
		invalidData  domain.InvalidVisitorDataError
		visitorNF    domain.VisitorNotFoundError
		dupEnroll    domain.DuplicateEnrollmentError
		sizeRequired domain.SizeRequiredError
		minAge       domain.MinimumAgeError
	)
	switch {
	case errors.As(err, &emptyList):
		writeError(w, http.StatusBadRequest, codeEmptyVisitorList, err.Error())
	case errors.As(err, &schedNF):
		writeError(w, http.StatusNotFound, codeScheduleNotFound, err.Error())
	case errors.As(err, &inactive):
		writeError(w, http.StatusBadRequest, codeInactiveSchedule, err.Error())
	case errors.As(err, &terms):
		writeError(w, http.StatusBadRequest, codeTermsNotAccepted, err.Error())
	case errors.As(err, &capacity):
		writeError(w, http.StatusBadRequest, codeInsufficientCapacity, err.Error())
	case errors.As(err, &dupNatID):
		writeError(w, http.StatusConflict, codeDuplicateNationalID, err.Error())
	case errors.As(err, &invalidData):
		writeErrorFields(w, http.StatusBadRequest, codeInvalidVisitorData, err.Error(), invalidData.Fields)
	case errors.As(err, &visitorNF):
		writeError(w, http.StatusNotFound, codeVisitorNotFound, err.Error())
	case errors.As(err, &dupEnroll):
		writeError(w, http.StatusConflict, codeDuplicateEnrollment, err.Error())
	case errors.As(err, &sizeRequired):
		writeError(w, http.StatusBadRequest, codeSizeRequired, err.Error())
	case errors.As(err, &minAge):
		writeError(w, http.StatusBadRequest, codeMinimumAgeNotMet, err.Error())
	case errors.Is(err, domain.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, codeActivityNotFound, err.Error())
	case errors.Is(err, domain.ErrActivityNameNeeded):
		writeError(w, http.StatusBadRequest, codeActivityNameNeeded, err.Error())
	case errors.Is(err, domain.ErrInvalidCapacity):
		writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
	case errors.Is(err, domain.ErrInvalidTimeRange):
		writeError(w, http.StatusBadRequest, codeInvalidTimeRange, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, codeInvalidStatus, err.Error())
	case errors.Is(err, domain.ErrInvalidMinimumAge):
		writeError(w, http.StatusBadRequest, codeInvalidMinimumAge, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
