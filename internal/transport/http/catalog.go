package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mrioja/parkpass/internal/app"
	"github.com/mrioja/parkpass/internal/domain"
)

// CatalogActivityService is the minimal interface for activity endpoints.
type CatalogActivityService interface {
	CreateActivity(ctx context.Context, in app.CreateActivityInput) (domain.Activity, error)
	ListActivities(ctx context.Context) ([]domain.Activity, error)
}

// CatalogScheduleService is the minimal interface for schedule endpoints.
type CatalogScheduleService interface {
	CreateSchedule(ctx context.Context, in app.CreateScheduleInput) (domain.Schedule, error)
	ListSchedules(ctx context.Context) ([]domain.ScheduleDetail, error)
	SetScheduleStatus(ctx context.Context, scheduleID string, status domain.ScheduleStatus) error
}

// HandleCreateActivity returns the handler for POST /activities.
func HandleCreateActivity(svc CatalogActivityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createActivityRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		activity, err := svc.CreateActivity(r.Context(), app.CreateActivityInput{
			Name:         req.Name,
			RequiresSize: req.RequiresSize,
			MinimumAge:   req.MinimumAge,
			Description:  req.Description,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toActivityResponse(activity))
	}
}

// HandleListActivities returns the handler for GET /activities.
func HandleListActivities(svc CatalogActivityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activities, err := svc.ListActivities(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		resp := make([]activityResponse, 0, len(activities))
		for _, a := range activities {
			resp = append(resp, toActivityResponse(a))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleCreateSchedule returns the handler for POST /schedules.
func HandleCreateSchedule(svc CatalogScheduleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createScheduleRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		schedule, err := svc.CreateSchedule(r.Context(), app.CreateScheduleInput{
			ActivityID:    req.ActivityID,
			StartsAt:      req.StartsAt,
			EndsAt:        req.EndsAt,
			TotalCapacity: req.TotalCapacity,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(scheduleResponse{
			ID:               schedule.ID,
			ActivityID:       schedule.ActivityID,
			StartsAt:         schedule.StartsAt,
			EndsAt:           schedule.EndsAt,
			TotalCapacity:    schedule.TotalCapacity,
			OccupiedCapacity: schedule.OccupiedCapacity,
			Status:           string(schedule.Status),
		})
	}
}

// HandleListSchedules returns the handler for GET /schedules.
func HandleListSchedules(svc CatalogScheduleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schedules, err := svc.ListSchedules(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		resp := make([]scheduleDetailResponse, 0, len(schedules))
		for _, s := range schedules {
			resp = append(resp, scheduleDetailResponse{
				scheduleResponse: scheduleResponse{
					ID:               s.ID,
					ActivityID:       s.ActivityID,
					StartsAt:         s.StartsAt,
					EndsAt:           s.EndsAt,
					TotalCapacity:    s.TotalCapacity,
					OccupiedCapacity: s.OccupiedCapacity,
					Status:           string(s.Status),
				},
				Available:            s.Available(),
				ActivityName:         s.ActivityName,
				ActivityRequiresSize: s.ActivityRequiresSize,
				ActivityMinimumAge:   s.ActivityMinimumAge,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleSetScheduleStatus returns the handler for PUT /schedules/{id}/status.
func HandleSetScheduleStatus(svc CatalogScheduleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheduleID := chi.URLParam(r, "id")

		var req setStatusRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if err := svc.SetScheduleStatus(r.Context(), scheduleID, domain.ScheduleStatus(req.Status)); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type createActivityRequest struct {
	Name         string `json:"name"`
	RequiresSize bool   `json:"requires_size"`
	MinimumAge   *int   `json:"minimum_age,omitempty"`
	Description  string `json:"description,omitempty"`
}

type activityResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RequiresSize bool   `json:"requires_size"`
	MinimumAge   *int   `json:"minimum_age,omitempty"`
	Description  string `json:"description,omitempty"`
}

func toActivityResponse(a domain.Activity) activityResponse {
	return activityResponse{
		ID:           a.ID,
		Name:         a.Name,
		RequiresSize: a.RequiresSize,
		MinimumAge:   a.MinimumAge,
		Description:  a.Description,
	}
}

type createScheduleRequest struct {
	ActivityID    string    `json:"activity_id"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	TotalCapacity int       `json:"total_capacity"`
}

type scheduleResponse struct {
	ID               string    `json:"id"`
	ActivityID       string    `json:"activity_id"`
	StartsAt         time.Time `json:"starts_at"`
	EndsAt           time.Time `json:"ends_at"`
	TotalCapacity    int       `json:"total_capacity"`
	OccupiedCapacity int       `json:"occupied_capacity"`
	Status           string    `json:"status"`
}

type scheduleDetailResponse struct {
	scheduleResponse
	Available            int    `json:"available"`
	ActivityName         string `json:"activity_name"`
	ActivityRequiresSize bool   `json:"activity_requires_size"`
	ActivityMinimumAge   *int   `json:"activity_minimum_age,omitempty"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}
