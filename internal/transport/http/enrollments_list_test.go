package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mrioja/parkpass/internal/domain"
)

func TestHandleListEnrollments(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	details := []domain.EnrollmentDetail{
		{
			Enrollment: domain.Enrollment{
				ID:            "enr-1",
				ScheduleID:    "sched-1",
				VisitorID:     "vis-1",
				PersonCount:   1,
				TermsAccepted: true,
				CreatedAt:     now,
			},
			ActivityName:      "Safari",
			VisitorName:       "Sofia",
			VisitorNationalID: 44444444,
			VisitorAge:        30,
			VisitorSize:       domain.SizeM,
		},
	}

	t.Run("without visitor attributes", func(t *testing.T) {
		t.Parallel()
		svc := &stubLister{details: details}

		req := httptest.NewRequest(http.MethodGet, "/enrollments", nil)
		rec := httptest.NewRecorder()
		HandleListEnrollments(svc, false).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `"visitor_id":"vis-1"`) {
			t.Fatalf("expected visitor id linkage, got %q", body)
		}
		if strings.Contains(body, `"visitor":{`) {
			t.Fatalf("visitor attributes must be omitted, got %q", body)
		}
	})

	t.Run("with visitor attributes", func(t *testing.T) {
		t.Parallel()
		svc := &stubLister{details: details}

		req := httptest.NewRequest(http.MethodGet, "/enrollments/visitors", nil)
		rec := httptest.NewRecorder()
		HandleListEnrollments(svc, true).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		body := rec.Body.String()
		for _, substr := range []string{`"name":"Sofia"`, `"national_id":44444444`, `"age":30`, `"size":"M"`} {
			if !strings.Contains(body, substr) {
				t.Fatalf("expected response to contain %q, got %q", substr, body)
			}
		}
	})

	t.Run("schedule filter from query", func(t *testing.T) {
		t.Parallel()
		svc := &stubLister{}

		req := httptest.NewRequest(http.MethodGet, "/enrollments?schedule_id=sched-7", nil)
		rec := httptest.NewRecorder()
		HandleListEnrollments(svc, false).ServeHTTP(rec, req)

		if svc.lastFilter.ScheduleID != "sched-7" {
			t.Fatalf("expected filter schedule id sched-7, got %q", svc.lastFilter.ScheduleID)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Fatalf("expected empty JSON array, got %q", body)
		}
	})

	t.Run("repository failure is opaque", func(t *testing.T) {
		t.Parallel()
		svc := &stubLister{err: errors.New("connection reset")}

		req := httptest.NewRequest(http.MethodGet, "/enrollments", nil)
		rec := httptest.NewRecorder()
		HandleListEnrollments(svc, false).ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"code":"internal_error"`) {
			t.Fatalf("expected opaque error, got %q", rec.Body.String())
		}
	})
}

type stubLister struct {
	details []domain.EnrollmentDetail
	err     error

	lastFilter domain.EnrollmentFilter
}

func (s *stubLister) ListEnrollments(_ context.Context, filter domain.EnrollmentFilter) ([]domain.EnrollmentDetail, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return s.details, nil
}
