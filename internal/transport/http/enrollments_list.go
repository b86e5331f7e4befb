package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mrioja/parkpass/internal/domain"
)

// EnrollmentLister is the minimal interface for the reporting endpoints.
type EnrollmentLister interface {
	ListEnrollments(ctx context.Context, filter domain.EnrollmentFilter) ([]domain.EnrollmentDetail, error)
}

// HandleListEnrollments returns the handler for GET /enrollments. The
// visitor's attributes are included when withVisitors is set (the
// /enrollments/visitors route); otherwise only the id linkage is returned.
func HandleListEnrollments(svc EnrollmentLister, withVisitors bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := domain.EnrollmentFilter{
			ScheduleID: r.URL.Query().Get("schedule_id"),
		}

		details, err := svc.ListEnrollments(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := make([]enrollmentDetailResponse, 0, len(details))
		for _, d := range details {
			item := enrollmentDetailResponse{
				enrollmentResponse: enrollmentResponse{
					ID:            d.ID,
					ScheduleID:    d.ScheduleID,
					VisitorID:     d.VisitorID,
					PersonCount:   d.PersonCount,
					TermsAccepted: d.TermsAccepted,
					ActivityName:  d.ActivityName,
					CreatedAt:     d.CreatedAt,
				},
			}
			if withVisitors {
				item.Visitor = &visitorResponse{
					ID:         d.VisitorID,
					Name:       d.VisitorName,
					NationalID: d.VisitorNationalID,
					Age:        d.VisitorAge,
					Size:       string(d.VisitorSize),
				}
			}
			resp = append(resp, item)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type enrollmentDetailResponse struct {
	enrollmentResponse
	Visitor *visitorResponse `json:"visitor,omitempty"`
}

type visitorResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NationalID int64  `json:"national_id"`
	Age        int    `json:"age"`
	Size       string `json:"size,omitempty"`
}
