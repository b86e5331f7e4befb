package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mrioja/parkpass/internal/app"
	"github.com/mrioja/parkpass/internal/domain"
)

func TestHandleEnroll(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	committed := []domain.EnrollmentDetail{
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
		},
	}

	validBody := `{"schedule_id":"sched-1","visitors":[{"name":"Sofia","national_id":44444444,"age":30}],"terms_accepted":true}`

	tests := []struct {
		name           string
		body           string
		result         []domain.EnrollmentDetail
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "committed batch",
			body:           validBody,
			result:         committed,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"activity_name":"Safari"`,
		},
		{
			name:           "malformed json",
			body:           `{"schedule_id":`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_request_body"`,
		},
		{
			name:           "unknown field",
			body:           `{"schedule_id":"sched-1","seats":2}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_request_body"`,
		},
		{
			name:           "missing schedule id",
			body:           `{"visitors":[{"name":"Sofia","national_id":1,"age":30}],"terms_accepted":true}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "schedule_id is required",
		},
		{
			name:           "empty visitor list",
			body:           validBody,
			serviceErr:     domain.EmptyVisitorListError{},
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"empty_visitor_list"`,
		},
		{
			name:           "schedule not found",
			body:           validBody,
			serviceErr:     domain.ScheduleNotFoundError{ScheduleID: "sched-1"},
			expectedStatus: http.StatusNotFound,
			expectedSubstr: `"code":"schedule_not_found"`,
		},
		{
			name:           "inactive schedule",
			body:           validBody,
			serviceErr:     domain.InactiveScheduleError{Status: domain.ScheduleStatusInactive},
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"inactive_schedule"`,
		},
		{
			name:           "terms not accepted",
			body:           validBody,
			serviceErr:     domain.TermsNotAcceptedError{},
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"terms_not_accepted"`,
		},
		{
			name:           "insufficient capacity",
			body:           validBody,
			serviceErr:     domain.InsufficientCapacityError{Available: 1, Requested: 3},
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"insufficient_capacity"`,
		},
		{
			name:           "duplicate national id in batch",
			body:           validBody,
			serviceErr:     domain.DuplicateNaturalIDError{NationalID: 12345678},
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"duplicate_national_id_in_batch"`,
		},
		{
			name:           "invalid visitor data carries fields",
			body:           validBody,
			serviceErr:     domain.InvalidVisitorDataError{Label: "Sofia", Fields: []string{"age"}},
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"fields":["age"]`,
		},
		{
			name:           "visitor not found",
			body:           validBody,
			serviceErr:     domain.VisitorNotFoundError{VisitorID: "vis-9"},
			expectedStatus: http.StatusNotFound,
			expectedSubstr: `"code":"visitor_not_found"`,
		},
		{
			name:           "duplicate enrollment",
			body:           validBody,
			serviceErr:     domain.DuplicateEnrollmentError{VisitorID: "vis-1", ScheduleID: "sched-1"},
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"duplicate_enrollment"`,
		},
		{
			name:           "size required",
			body:           validBody,
			serviceErr:     domain.SizeRequiredError{VisitorID: "vis-1", ActivityName: "Tirolesa"},
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"size_required"`,
		},
		{
			name:           "minimum age not met",
			body:           validBody,
			serviceErr:     domain.MinimumAgeError{VisitorID: "vis-1", ActivityName: "Palestra", Age: 10, MinimumAge: 12},
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"minimum_age_not_met"`,
		},
		{
			name:           "unclassified error stays opaque",
			body:           validBody,
			serviceErr:     context.DeadlineExceeded,
			expectedStatus: http.StatusInternalServerError,
			expectedSubstr: `"code":"internal_error"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubEnroller{result: tt.result, err: tt.serviceErr}

			req := httptest.NewRequest(http.MethodPost, "/enrollments", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			HandleEnroll(svc).ServeHTTP(rec, req)

			res := rec.Result()
			if res.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (body %q)", tt.expectedStatus, res.StatusCode, rec.Body.String())
			}
			if tt.expectedSubstr != "" {
				body := rec.Body.String()
				if !strings.Contains(body, tt.expectedSubstr) {
					t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, body)
				}
			}
		})
	}
}

type stubEnroller struct {
	result []domain.EnrollmentDetail
	err    error

	lastInput app.EnrollInput
}

func (s *stubEnroller) Enroll(_ context.Context, in app.EnrollInput) ([]domain.EnrollmentDetail, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestHandleEnrollMapsVisitorInputs(t *testing.T) {
	t.Parallel()

	svc := &stubEnroller{}
	body := `{"schedule_id":"sched-1","visitors":[{"visitor_id":"vis-1"},{"name":"Sofia","national_id":44444444,"age":30,"size":"M"}],"terms_accepted":true}`

	req := httptest.NewRequest(http.MethodPost, "/enrollments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleEnroll(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (body %q)", http.StatusCreated, rec.Code, rec.Body.String())
	}
	in := svc.lastInput
	if in.ScheduleID != "sched-1" || !in.TermsAccepted {
		t.Fatalf("unexpected input: %+v", in)
	}
	if len(in.Visitors) != 2 {
		t.Fatalf("expected 2 visitors, got %d", len(in.Visitors))
	}
	if !in.Visitors[0].ByReference() || in.Visitors[0].VisitorID != "vis-1" {
		t.Fatalf("first visitor should be by reference: %+v", in.Visitors[0])
	}
	second := in.Visitors[1]
	if second.Name != "Sofia" || second.NationalID != 44444444 || second.Age != 30 || second.Size != domain.SizeM {
		t.Fatalf("unexpected tuple mapping: %+v", second)
	}
}
