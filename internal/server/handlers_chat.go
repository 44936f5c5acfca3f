package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/jobportal/internal/db"
	"github.com/jonathan/jobportal/internal/llm"
	"github.com/jonathan/jobportal/internal/types"
)

// ---------------------------------------------------------------------
// Career Assistant Handlers
// ---------------------------------------------------------------------

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := s.pathUUID(w, r, "id", "employee")
	if !ok {
		return
	}
	if err := requireSelf(r, types.UserTypeEmployee, employeeID); err != nil {
		writeServiceError(w, err)
		return
	}
	if s.assistant == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Career assistant is not configured")
		return
	}

	var req types.ChatRequest
	if !s.decodeBody(w, r, &req, false) {
		return
	}

	ctx := r.Context()
	employee, err := s.db.GetEmployee(ctx, employeeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if employee == nil {
		s.errorResponse(w, http.StatusNotFound, "Employee not found")
		return
	}

	listings, err := s.assistantListings(r, employee)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	history, err := s.db.ChatHistory(ctx, employeeID, llm.MaxPromptHistory)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	turns := make([]llm.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, llm.Turn{Question: m.Question, Answer: m.Answer})
	}

	profile := llm.Profile{
		Name:       employee.Name,
		Education:  employee.Education,
		Skills:     employee.Skills,
		Experience: employee.Experience,
		Location:   s.catalog.DisplayName(employee.Latitude, employee.Longitude),
	}

	answer, err := s.assistant.Answer(ctx, profile, listings, turns, req.Question)
	if err != nil {
		if errors.Is(err, llm.ErrEmptyQuestion) {
			s.errorResponse(w, http.StatusBadRequest, "Question is required")
			return
		}
		log.Printf("[llm] assistant failed for employee %s: %v", employeeID, err)
		s.errorResponse(w, http.StatusBadGateway, "Career assistant is unavailable, please try again later")
		return
	}

	message, err := s.db.SaveChat(ctx, employeeID, req.Question, answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.successResponse(w, http.StatusCreated, "chat", message)
}

// assistantListings picks the jobs given to the model: nearby ones when the
// employee has a location and any are in range, otherwise the newest open jobs.
func (s *Server) assistantListings(r *http.Request, employee *db.Employee) ([]llm.Listing, error) {
	var jobs []db.Job
	if employee.Latitude != nil && employee.Longitude != nil {
		near, err := s.db.NearbyJobs(r.Context(), *employee.Latitude, *employee.Longitude, s.cfg.NearbyRadiusKm)
		if err != nil {
			return nil, err
		}
		for _, j := range near {
			jobs = append(jobs, j.Job)
		}
	}
	if len(jobs) == 0 {
		open, err := s.db.ListOpenJobs(r.Context())
		if err != nil {
			return nil, err
		}
		jobs = open
	}

	listings := make([]llm.Listing, 0, min(len(jobs), llm.MaxPromptJobs))
	for _, j := range jobs {
		if len(listings) == llm.MaxPromptJobs {
			break
		}
		listings = append(listings, llm.Listing{
			Title:       j.Title,
			CompanyName: j.CompanyName,
			TimeSlot:    j.TimeSlot,
			Salary:      j.Salary,
		})
	}
	return listings, nil
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := s.pathUUID(w, r, "id", "employee")
	if !ok {
		return
	}
	if err := requireSelf(r, types.UserTypeEmployee, employeeID); err != nil {
		writeServiceError(w, err)
		return
	}

	limit := db.DefaultChatHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, db.DefaultChatHistoryLimit)
	}

	history, err := s.db.ChatHistory(r.Context(), employeeID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.successResponse(w, http.StatusOK, "history", history)
}
