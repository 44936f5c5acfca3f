package server

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/jobportal/internal/db"
	"github.com/jonathan/jobportal/internal/events"
	"github.com/jonathan/jobportal/internal/server/middleware"
	"github.com/jonathan/jobportal/internal/types"
	"golang.org/x/sync/errgroup"
)

// ---------------------------------------------------------------------
// Application Handlers
// ---------------------------------------------------------------------

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	employeeID, err := requireUserType(r, types.UserTypeEmployee)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jobID, ok := s.pathUUID(w, r, "id", "job")
	if !ok {
		return
	}

	var req types.ApplyRequest
	if !s.decodeBody(w, r, &req, true) {
		return
	}

	application, err := s.db.Apply(r.Context(), jobID, employeeID, req.CoverLetter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"status":      "success",
		"message":     "Application submitted successfully",
		"application": application,
	})
}

func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	employerID, err := requireUserType(r, types.UserTypeEmployer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	applicationID, ok := s.pathUUID(w, r, "id", "application")
	if !ok {
		return
	}

	var req types.UpdateStatusRequest
	if !s.decodeBody(w, r, &req, false) {
		return
	}

	change, err := s.db.UpdateApplicationStatus(r.Context(), applicationID, employerID, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if change.OldStatus != change.NewStatus {
		s.publishStatusChange(r, change)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Application status updated to " + change.NewStatus,
		"change":  change,
	})
}

// publishStatusChange emits the change. Delivery failures are logged only; the
// status is already committed.
func (s *Server) publishStatusChange(r *http.Request, change *db.StatusChange) {
	ev := events.StatusChanged{
		ApplicationID: change.ApplicationID,
		JobID:         change.JobID,
		EmployeeID:    change.EmployeeID,
		EmployerID:    change.EmployerID,
		OldStatus:     change.OldStatus,
		NewStatus:     change.NewStatus,
		ChangedAt:     change.ChangedAt,
	}
	if err := s.events.ApplicationStatusChanged(r.Context(), ev); err != nil {
		log.Printf("[events] failed to publish status change for application %s: %v", change.ApplicationID, err)
	}
}

// handleGetApplication returns an application to its applicant or to the
// employer who owns the job.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	applicationID, ok := s.pathUUID(w, r, "id", "application")
	if !ok {
		return
	}
	callerID, err := middleware.GetUserID(r)
	if err != nil {
		writeServiceError(w, &ErrInvalidCredentials{})
		return
	}
	callerType, _ := middleware.GetUserType(r)

	detail, err := s.db.GetApplicationDetail(r.Context(), applicationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if detail == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	allowed := (callerType == types.UserTypeEmployee && callerID == detail.EmployeeID) ||
		(callerType == types.UserTypeEmployer && callerID == detail.JobEmployerID)
	if !allowed {
		writeServiceError(w, &ErrForbidden{Reason: "not your application"})
		return
	}

	s.successResponse(w, http.StatusOK, "application", detail)
}

func (s *Server) handleListEmployerApplications(w http.ResponseWriter, r *http.Request) {
	employerID, ok := s.pathUUID(w, r, "id", "employer")
	if !ok {
		return
	}
	if err := requireSelf(r, types.UserTypeEmployer, employerID); err != nil {
		writeServiceError(w, err)
		return
	}

	applications, err := s.db.ListApplicationsForEmployer(r.Context(), employerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.successResponse(w, http.StatusOK, "applications", applications)
}

func (s *Server) handleListEmployeeApplications(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := s.pathUUID(w, r, "id", "employee")
	if !ok {
		return
	}
	if err := requireSelf(r, types.UserTypeEmployee, employeeID); err != nil {
		writeServiceError(w, err)
		return
	}

	applications, err := s.db.ListApplicationsForEmployee(r.Context(), employeeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.successResponse(w, http.StatusOK, "applications", applications)
}

// handleEmployeeDashboard loads open jobs and the employee's applications in
// parallel.
func (s *Server) handleEmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := s.pathUUID(w, r, "id", "employee")
	if !ok {
		return
	}
	if err := requireSelf(r, types.UserTypeEmployee, employeeID); err != nil {
		writeServiceError(w, err)
		return
	}

	var (
		jobs         []db.Job
		applications []db.EmployeeApplication
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		jobs, err = s.db.ListOpenJobs(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		applications, err = s.db.ListApplicationsForEmployee(ctx, employeeID)
		return err
	})
	if err := g.Wait(); err != nil {
		writeServiceError(w, err)
		return
	}

	applied := make([]uuid.UUID, 0, len(applications))
	for _, a := range applications {
		applied = append(applied, a.JobID)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":          "success",
		"jobs":            jobs,
		"applications":    applications,
		"applied_job_ids": applied,
	})
}
