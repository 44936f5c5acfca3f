package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/jobportal/internal/db"
	"github.com/jonathan/jobportal/internal/ingestion"
	"github.com/jonathan/jobportal/internal/locations"
	"github.com/jonathan/jobportal/internal/types"
)

// employeeProfile is an employee account with its catalog place name.
type employeeProfile struct {
	*types.User
	LocationName string `json:"location_name"`
}

// talentProfile is the public view of a job seeker, without contact details.
type talentProfile struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Education    string    `json:"education"`
	Skills       []string  `json:"skills"`
	Experience   int       `json:"experience"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	LocationName string    `json:"location_name"`
}

type nearbyTalent struct {
	talentProfile
	DistanceKm float64 `json:"distance_km"`
}

func (s *Server) toEmployeeProfile(e *db.Employee) employeeProfile {
	return employeeProfile{
		User:         employeeToUser(e),
		LocationName: s.catalog.DisplayName(e.Latitude, e.Longitude),
	}
}

func (s *Server) toTalentProfile(e *db.Employee) talentProfile {
	skills := []string(e.Skills)
	if skills == nil {
		skills = []string{}
	}
	return talentProfile{
		ID:           e.ID,
		Name:         e.Name,
		Education:    e.Education,
		Skills:       skills,
		Experience:   e.Experience,
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		LocationName: s.catalog.DisplayName(e.Latitude, e.Longitude),
	}
}

// ---------------------------------------------------------------------
// Employer Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGetEmployer(w http.ResponseWriter, r *http.Request) {
	employerID, ok := s.pathUUID(w, r, "id", "employer")
	if !ok {
		return
	}

	employer, err := s.db.GetEmployer(r.Context(), employerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if employer == nil {
		s.errorResponse(w, http.StatusNotFound, "Employer not found")
		return
	}

	s.successResponse(w, http.StatusOK, "employer", employerToUser(employer))
}

func (s *Server) handleUpdateEmployer(w http.ResponseWriter, r *http.Request) {
	employerID, ok := s.pathUUID(w, r, "id", "employer")
	if !ok {
		return
	}
	if err := requireSelf(r, types.UserTypeEmployer, employerID); err != nil {
		writeServiceError(w, err)
		return
	}

	var req types.UpdateEmployerRequest
	if !s.decodeBody(w, r, &req, false) {
		return
	}

	employer, err := s.db.UpdateEmployer(r.Context(), employerID,
		ingestion.CleanText(req.Name), ingestion.CleanText(req.CompanyName))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.successResponse(w, http.StatusOK, "employer", employerToUser(employer))
}

// ---------------------------------------------------------------------
// Employee Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := s.pathUUID(w, r, "id", "employee")
	if !ok {
		return
	}

	employee, err := s.db.GetEmployee(r.Context(), employeeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if employee == nil {
		s.errorResponse(w, http.StatusNotFound, "Employee not found")
		return
	}

	s.successResponse(w, http.StatusOK, "employee", s.toEmployeeProfile(employee))
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := s.pathUUID(w, r, "id", "employee")
	if !ok {
		return
	}
	if err := requireSelf(r, types.UserTypeEmployee, employeeID); err != nil {
		writeServiceError(w, err)
		return
	}

	var req types.UpdateEmployeeRequest
	if !s.decodeBody(w, r, &req, false) {
		return
	}

	lat, lng, err := s.resolveCoordinates(req.Latitude, req.Longitude, req.LocationID, locations.Residential)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	employee, err := s.db.UpdateEmployee(r.Context(), employeeID, db.EmployeeUpdate{
		Name:       ingestion.CleanText(req.Name),
		Education:  ingestion.CleanText(req.Education),
		Skills:     req.Skills,
		Experience: req.Experience,
		Latitude:   lat,
		Longitude:  lng,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.successResponse(w, http.StatusOK, "employee", s.toEmployeeProfile(employee))
}

// handleListTalent lists every job seeker's public profile.
func (s *Server) handleListTalent(w http.ResponseWriter, r *http.Request) {
	employees, err := s.db.ListEmployees(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	talent := make([]talentProfile, 0, len(employees))
	for i := range employees {
		talent = append(talent, s.toTalentProfile(&employees[i]))
	}
	s.successResponse(w, http.StatusOK, "employees", talent)
}
