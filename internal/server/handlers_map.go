package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/jonathan/jobportal/internal/geo"
	"github.com/jonathan/jobportal/internal/nearby"
	"github.com/jonathan/jobportal/internal/server/middleware"
	"github.com/jonathan/jobportal/internal/types"
)

// Map titles shown above each view.
const (
	JobsMapTitle   = "Nearby Job Locations"
	TalentMapTitle = "Available Talent Locations"
)

// openJobsPayload feeds the resolver from the jobs table.
func (s *Server) openJobsPayload(ctx context.Context) (json.RawMessage, error) {
	jobs, err := s.db.ListOpenJobs(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(jobs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode jobs: %w", err)
	}
	return payload, nil
}

// talentPayload feeds the resolver from the employees table, public fields only.
func (s *Server) talentPayload(ctx context.Context) (json.RawMessage, error) {
	employees, err := s.db.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	talent := make([]talentProfile, 0, len(employees))
	for i := range employees {
		talent = append(talent, s.toTalentProfile(&employees[i]))
	}
	payload, err := json.Marshal(talent)
	if err != nil {
		return nil, fmt.Errorf("failed to encode talent: %w", err)
	}
	return payload, nil
}

// mapSession describes the viewer. Explicit lat/lng query values win, then an
// authenticated employee's stored coordinate. Anything else leaves the session
// without a coordinate and the resolver uses its default reference.
func (s *Server) mapSession(r *http.Request) nearby.Session {
	var userID, userType any
	if id, err := middleware.GetUserID(r); err == nil {
		userID = id.String()
	}
	if t, err := middleware.GetUserType(r); err == nil {
		userType = t
	}

	q := r.URL.Query()
	if q.Has("lat") || q.Has("lng") {
		session := nearby.SessionFromValues(userID, userType, q.Get("lat"), q.Get("lng"))
		if session.Stored != nil && session.Stored.Valid() {
			return session
		}
	}

	session := nearby.SessionFromValues(userID, userType, nil, nil)
	if userType == types.UserTypeEmployee {
		id, _ := middleware.GetUserID(r)
		employee, err := s.db.GetEmployee(r.Context(), id)
		if err != nil {
			log.Printf("[nearby] failed to load stored location for %s: %v", id, err)
			return session
		}
		if employee != nil {
			session.Stored = geo.CoordinateOf(employee.Latitude, employee.Longitude)
		}
	}
	return session
}

func (s *Server) handleMapJobs(w http.ResponseWriter, r *http.Request) {
	result := s.resolver.ResolveJobs(r.Context(), s.mapSession(r))
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status": "success",
		"title":  JobsMapTitle,
		"map":    result,
	})
}

func (s *Server) handleMapTalent(w http.ResponseWriter, r *http.Request) {
	result := s.resolver.ResolveTalent(r.Context(), s.mapSession(r))
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status": "success",
		"title":  TalentMapTitle,
		"map":    result,
	})
}
