package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mrioja/parkpass/internal/app"
	"github.com/mrioja/parkpass/internal/domain"
)

// Enroller is the minimal interface needed to execute an enrollment batch.
type Enroller interface {
	Enroll(ctx context.Context, in app.EnrollInput) ([]domain.EnrollmentDetail, error)
}

// HandleEnroll returns the handler for POST /enrollments.
func HandleEnroll(svc Enroller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req enrollRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.ScheduleID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "schedule_id is required")
			return
		}

		visitors := make([]domain.VisitorInput, 0, len(req.Visitors))
		for _, v := range req.Visitors {
			visitors = append(visitors, domain.VisitorInput{
				VisitorID:  v.VisitorID,
				Name:       v.Name,
				NationalID: v.NationalID,
				Age:        v.Age,
				Size:       domain.Size(v.Size),
			})
		}

		results, err := svc.Enroll(r.Context(), app.EnrollInput{
			ScheduleID:    req.ScheduleID,
			Visitors:      visitors,
			TermsAccepted: req.TermsAccepted,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]enrollmentResponse, 0, len(results))
		for _, d := range results {
			resp = append(resp, enrollmentResponse{
				ID:            d.ID,
				ScheduleID:    d.ScheduleID,
				VisitorID:     d.VisitorID,
				PersonCount:   d.PersonCount,
				TermsAccepted: d.TermsAccepted,
				ActivityName:  d.ActivityName,
				CreatedAt:     d.CreatedAt,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type enrollRequest struct {
	ScheduleID    string               `json:"schedule_id"`
	Visitors      []enrollVisitorInput `json:"visitors"`
	TermsAccepted bool                 `json:"terms_accepted"`
}

type enrollVisitorInput struct {
	// Either visitor_id, or the natural-key tuple.
	VisitorID  string `json:"visitor_id,omitempty"`
	Name       string `json:"name,omitempty"`
	NationalID int64  `json:"national_id,omitempty"`
	Age        int    `json:"age,omitempty"`
	Size       string `json:"size,omitempty"`
}

type enrollmentResponse struct {
	ID            string    `json:"id"`
	ScheduleID    string    `json:"schedule_id"`
	VisitorID     string    `json:"visitor_id"`
	PersonCount   int       `json:"person_count"`
	TermsAccepted bool      `json:"terms_accepted"`
	ActivityName  string    `json:"activity_name"`
	CreatedAt     time.Time `json:"created_at"`
}
